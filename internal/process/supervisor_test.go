package process

import (
	"context"
	"runtime"
	"strconv"
	"testing"
	"time"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test shells out via sh")
	}
}

func TestSpawnReportsExitCode(t *testing.T) {
	requireShell(t)

	l := NewExecLauncher()
	for _, want := range []int{0, 3} {
		h, err := l.Spawn(context.Background(), Spec{
			Command: "sh",
			Args:    []string{"-c", "exit " + strconv.Itoa(want)},
		})
		if err != nil {
			t.Fatalf("Spawn: %v", err)
		}
		got, err := h.Wait()
		if err != nil {
			t.Fatalf("Wait: %v", err)
		}
		if got != want {
			t.Errorf("exit code = %d, want %d", got, want)
		}
	}
}

func TestSpawnMissingCommand(t *testing.T) {
	l := NewExecLauncher()
	_, err := l.Spawn(context.Background(), Spec{Command: "definitely-not-a-real-binary"})
	if err == nil {
		t.Fatal("Spawn succeeded for missing command")
	}
}

func TestSpawnPid(t *testing.T) {
	requireShell(t)

	l := NewExecLauncher()
	h, err := l.Spawn(context.Background(), Spec{Command: "sh", Args: []string{"-c", "exit 0"}})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if h.Pid() <= 0 {
		t.Errorf("Pid() = %d", h.Pid())
	}
	if _, err := h.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}

func TestCancelTerminatesChild(t *testing.T) {
	requireShell(t)

	ctx, cancel := context.WithCancel(context.Background())
	l := NewExecLauncher()
	l.GracePeriod = 2 * time.Second

	h, err := l.Spawn(ctx, Spec{Command: "sh", Args: []string{"-c", "sleep 30"}})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	cancel()

	done := make(chan int, 1)
	go func() {
		code, _ := h.Wait()
		done <- code
	}()

	select {
	case code := <-done:
		if code == 0 {
			t.Errorf("interrupted child reported exit code 0")
		}
	case <-time.After(10 * time.Second):
		t.Fatal("child did not terminate after cancel")
	}
}
