package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

// DefaultGracePeriod is how long a child gets to shut down after the
// forwarded interrupt before it is killed.
const DefaultGracePeriod = 10 * time.Second

// Spec describes the child process to start.
type Spec struct {
	Command string
	Args    []string
	Dir     string
	// Env is the full child environment. Nil inherits the launcher's.
	Env []string
}

// Handle represents a running child process.
type Handle interface {
	// Pid returns the operating-system process ID.
	Pid() int
	// Wait blocks until the process exits and returns its exit code.
	// The error is non-nil only when the process state could not be
	// determined, never for a plain non-zero exit.
	Wait() (int, error)
}

// Launcher spawns child processes. The real implementation wraps os/exec;
// tests substitute a fake.
type Launcher interface {
	Spawn(ctx context.Context, spec Spec) (Handle, error)
}

// ExecLauncher starts real child processes with their output wired to the
// console, so the operator sees server-side logs. Cancelling the spawn
// context forwards an interrupt to the child; after GracePeriod the child
// is killed. Either way Wait does not return before the child has fully
// terminated, so no orphan stays bound to the server port.
type ExecLauncher struct {
	Stdin       io.Reader
	Stdout      io.Writer
	Stderr      io.Writer
	GracePeriod time.Duration
}

// NewExecLauncher returns an ExecLauncher attached to the launcher's own
// standard streams.
func NewExecLauncher() *ExecLauncher {
	return &ExecLauncher{
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		GracePeriod: DefaultGracePeriod,
	}
}

// Spawn starts the child described by spec.
func (l *ExecLauncher) Spawn(ctx context.Context, spec Spec) (Handle, error) {
	cmd := exec.CommandContext(ctx, spec.Command, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Env = spec.Env
	cmd.Stdin = l.Stdin
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr

	// Ask the server to shut down instead of killing it outright; a
	// SIGKILL would skip the server's own cleanup. Windows cannot
	// deliver os.Interrupt to another process, so fall back to Kill.
	cmd.Cancel = func() error {
		if err := cmd.Process.Signal(os.Interrupt); err != nil {
			return cmd.Process.Kill()
		}
		return nil
	}
	grace := l.GracePeriod
	if grace <= 0 {
		grace = DefaultGracePeriod
	}
	cmd.WaitDelay = grace

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", spec.Command, err)
	}
	return &execHandle{cmd: cmd}, nil
}

type execHandle struct {
	cmd *exec.Cmd
}

func (h *execHandle) Pid() int {
	return h.cmd.Process.Pid
}

func (h *execHandle) Wait() (int, error) {
	err := h.cmd.Wait()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// A child torn down by the forwarded interrupt reports -1 here;
		// the caller decides whether that counts as a clean shutdown.
		return exitErr.ExitCode(), nil
	}
	return -1, fmt.Errorf("waiting for %s: %w", h.cmd.Path, err)
}
