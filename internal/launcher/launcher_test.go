package launcher

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"

	"github.com/notariatools/permiso-launcher/internal/config"
	"github.com/notariatools/permiso-launcher/internal/netaddr"
	"github.com/notariatools/permiso-launcher/internal/process"
)

type fakeHandle struct {
	code int
	// waitCtx, when set, makes Wait block until the context is done,
	// imitating a long-running server torn down by the interrupt.
	waitCtx context.Context
}

func (h *fakeHandle) Pid() int { return 4242 }

func (h *fakeHandle) Wait() (int, error) {
	if h.waitCtx != nil {
		<-h.waitCtx.Done()
	}
	return h.code, nil
}

type fakeSpawner struct {
	spec     process.Spec
	calls    int
	err      error
	handle   *fakeHandle
	onSpawn  func()
	blocking bool
}

func (f *fakeSpawner) Spawn(ctx context.Context, spec process.Spec) (process.Handle, error) {
	f.calls++
	f.spec = spec
	if f.onSpawn != nil {
		f.onSpawn()
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.blocking {
		f.handle.waitCtx = ctx
	}
	return f.handle, nil
}

func fixedResolver(ip string) AddressResolver {
	return netaddr.NewResolverWith(staticAddrs(ip))
}

func staticAddrs(ip string) netaddr.Enumerator {
	return func() ([]net.Addr, error) {
		_, ipnet, err := net.ParseCIDR(ip + "/24")
		if err != nil {
			return nil, err
		}
		ipnet.IP = net.ParseIP(ip)
		return []net.Addr{ipnet}, nil
	}
}

func testConfig(port int) config.Config {
	cfg := config.Default()
	cfg.Port = port
	return cfg
}

func newTestLauncher(cfg config.Config, spawner process.Launcher) (*Launcher, *strings.Builder) {
	var buf strings.Builder
	l := New(cfg, fixedResolver("192.168.1.42")).
		WithSpawner(spawner).
		WithActivate(func(config.Config) ([]string, error) { return nil, nil }).
		WithOutput(&buf)
	return l, &buf
}

func TestRunMirrorsServerExitCode(t *testing.T) {
	for i, want := range []int{0, 3} {
		spawner := &fakeSpawner{handle: &fakeHandle{code: want}}
		l, _ := newTestLauncher(testConfig(58501+i), spawner)

		code, err := l.Run(context.Background())
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if code != want {
			t.Errorf("exit code = %d, want %d", code, want)
		}
	}
}

func TestRunPrintsURLsBeforeSpawn(t *testing.T) {
	spawner := &fakeSpawner{handle: &fakeHandle{}}
	l, buf := newTestLauncher(testConfig(58511), spawner)
	spawner.onSpawn = func() {
		if !strings.Contains(buf.String(), "http://localhost:58511") {
			t.Error("server spawned before access info was printed")
		}
	}

	if _, err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(buf.String(), "http://192.168.1.42:58511") {
		t.Errorf("LAN URL missing:\n%s", buf.String())
	}
}

func TestRunDegradesWithoutLANAddress(t *testing.T) {
	spawner := &fakeSpawner{handle: &fakeHandle{}}
	var buf strings.Builder
	l := New(testConfig(58521), netaddr.NewResolverWith(func() ([]net.Addr, error) {
		return nil, nil
	})).
		WithSpawner(spawner).
		WithActivate(func(config.Config) ([]string, error) { return nil, nil }).
		WithOutput(&buf)

	code, err := l.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if code != 0 {
		t.Errorf("exit code = %d", code)
	}
	if !strings.Contains(buf.String(), "http://localhost:58521") {
		t.Errorf("local URL missing:\n%s", buf.String())
	}
	if spawner.calls != 1 {
		t.Errorf("spawner called %d times", spawner.calls)
	}
}

func TestRunActivationFailureIsFatalAndFirst(t *testing.T) {
	spawner := &fakeSpawner{handle: &fakeHandle{}}
	resolverCalled := false
	var buf strings.Builder
	l := New(testConfig(58531), netaddr.NewResolverWith(func() ([]net.Addr, error) {
		resolverCalled = true
		return nil, nil
	})).
		WithSpawner(spawner).
		WithActivate(func(config.Config) ([]string, error) {
			return nil, errors.New("venv missing")
		}).
		WithOutput(&buf)

	code, err := l.Run(context.Background())
	if err == nil {
		t.Fatal("Run succeeded despite activation failure")
	}
	if code == 0 {
		t.Error("activation failure reported exit code 0")
	}
	if resolverCalled {
		t.Error("address resolution ran after activation failure")
	}
	if spawner.calls != 0 {
		t.Error("server spawned after activation failure")
	}
	if buf.Len() != 0 {
		t.Errorf("access info printed after activation failure:\n%s", buf.String())
	}
}

func TestRunSpawnFailureIsFatal(t *testing.T) {
	spawner := &fakeSpawner{err: errors.New("executable not found")}
	l, _ := newTestLauncher(testConfig(58541), spawner)

	code, err := l.Run(context.Background())
	if err == nil {
		t.Fatal("Run succeeded despite spawn failure")
	}
	if code == 0 {
		t.Error("spawn failure reported exit code 0")
	}
}

func TestRunInterruptIsCleanShutdown(t *testing.T) {
	// The child dies from the forwarded signal and reports -1; because
	// the shutdown was operator-requested, the launcher exits 0.
	ctx, cancel := context.WithCancel(context.Background())
	spawner := &fakeSpawner{handle: &fakeHandle{code: -1}, blocking: true}
	spawner.onSpawn = cancel
	l, _ := newTestLauncher(testConfig(58551), spawner)

	code, err := l.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if code != 0 {
		t.Errorf("interrupted run exit code = %d, want 0", code)
	}
}

func TestRunServerSpecUsesConfig(t *testing.T) {
	cfg := testConfig(58561)
	cfg.WorkDir = "/srv/permisos"
	spawner := &fakeSpawner{handle: &fakeHandle{}}
	l, _ := newTestLauncher(cfg, spawner)

	if _, err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	spec := spawner.spec
	if spec.Command != cfg.Runtime {
		t.Errorf("command = %q, want %q", spec.Command, cfg.Runtime)
	}
	if spec.Dir != cfg.WorkDir {
		t.Errorf("dir = %q, want %q", spec.Dir, cfg.WorkDir)
	}
	args := strings.Join(spec.Args, " ")
	if !strings.Contains(args, cfg.AppEntry) {
		t.Errorf("args missing app entry: %v", spec.Args)
	}
	if !strings.Contains(args, "58561") {
		t.Errorf("args missing port: %v", spec.Args)
	}
}
