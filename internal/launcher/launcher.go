package launcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/notariatools/permiso-launcher/internal/config"
	"github.com/notariatools/permiso-launcher/internal/env"
	"github.com/notariatools/permiso-launcher/internal/process"
)

// AddressResolver yields the host's LAN-facing address.
// *netaddr.Resolver satisfies it.
type AddressResolver interface {
	LANAddress() (string, error)
}

// ActivateFunc prepares the runtime environment and returns the child
// environment the server runs under.
type ActivateFunc func(config.Config) ([]string, error)

// Launcher runs one launch sequence. Collaborators are injected so tests
// can substitute fakes; New wires the real ones.
type Launcher struct {
	cfg      config.Config
	resolver AddressResolver
	spawner  process.Launcher
	activate ActivateFunc
	out      io.Writer
	log      zerolog.Logger
}

// New returns a Launcher wired to the real environment, resolver and
// process spawner.
func New(cfg config.Config, resolver AddressResolver) *Launcher {
	return &Launcher{
		cfg:      cfg,
		resolver: resolver,
		spawner:  process.NewExecLauncher(),
		activate: env.Activate,
		out:      os.Stdout,
		log:      log.Logger,
	}
}

// WithSpawner substitutes the process spawner. Used by tests and by the
// service runner.
func (l *Launcher) WithSpawner(s process.Launcher) *Launcher {
	l.spawner = s
	return l
}

// WithActivate substitutes the environment activation step.
func (l *Launcher) WithActivate(fn ActivateFunc) *Launcher {
	l.activate = fn
	return l
}

// WithOutput redirects the access-info output.
func (l *Launcher) WithOutput(w io.Writer) *Launcher {
	l.out = w
	return l
}

// Run executes the launch sequence and blocks until the server exits.
// It returns the process exit code the launcher should report: the
// server's own code, or 0 when the server was shut down by ctx being
// cancelled (operator interrupt).
//
// The steps are strictly ordered; in particular the URLs are printed
// before the server is started so the operator can share the LAN URL
// while the server is still coming up.
func (l *Launcher) Run(ctx context.Context) (int, error) {
	childEnv, err := l.activate(l.cfg)
	if err != nil {
		return 1, fmt.Errorf("activating runtime environment: %w", err)
	}
	l.log.Debug().Str("venv", env.ResolveVenvDir(l.cfg)).Msg("runtime environment activated")

	lanIP, err := l.resolver.LANAddress()
	if err != nil {
		// Degraded but not fatal: the permit app is still usable on
		// this machine through the loopback URL.
		l.log.Warn().Err(err).Msg("LAN address unavailable")
		lanIP = ""
	}

	WriteAccessInfo(l.out, l.cfg.Port, lanIP)

	if l.cfg.OpenBrowser {
		if err := openBrowser(LocalURL(l.cfg.Port)); err != nil {
			l.log.Warn().Err(err).Msg("could not open browser")
		}
	}

	if err := env.CheckPortFree(l.cfg.Port); err != nil {
		return 1, fmt.Errorf("cannot start server: %w", err)
	}

	handle, err := l.spawner.Spawn(ctx, process.Spec{
		Command: l.cfg.Runtime,
		Args:    l.serverArgs(),
		Dir:     l.cfg.WorkDir,
		Env:     childEnv,
	})
	if err != nil {
		return 1, fmt.Errorf("starting server: %w", err)
	}
	l.log.Info().Int("pid", handle.Pid()).Int("port", l.cfg.Port).Msg("server started")

	code, err := handle.Wait()
	if err != nil {
		return 1, fmt.Errorf("supervising server: %w", err)
	}

	if ctx.Err() != nil {
		// The operator asked for the shutdown; the child's signal-death
		// status is not an error.
		l.log.Info().Msg("server stopped on interrupt")
		return 0, nil
	}

	l.log.Info().Int("exit_code", code).Msg("server exited")
	return code, nil
}

// serverArgs builds the runtime invocation. The server binds all
// interfaces so LAN peers can reach it, and runs headless because the
// launcher already handles URL display and browser opening.
func (l *Launcher) serverArgs() []string {
	return []string{
		"run", l.cfg.AppEntry,
		"--server.port", strconv.Itoa(l.cfg.Port),
		"--server.address", "0.0.0.0",
		"--server.headless", "true",
	}
}
