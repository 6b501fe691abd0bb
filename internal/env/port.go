package env

import (
	"errors"
	"fmt"
	"net"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
)

// ErrPortInUse is returned by CheckPortFree when something already
// listens on the server port.
var ErrPortInUse = errors.New("port already in use")

// CheckPortFree probes the TCP port the server is about to bind. The
// launcher never keeps the port itself; the probe listener is closed
// immediately.
func CheckPortFree(port int) error {
	l, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("%w: %d", ErrPortInUse, port)
	}
	return l.Close()
}

// KillProcessOnPort kills any process listening on the specified port.
// Uses lsof on Unix-like systems, netstat on Windows. This is a cleanup
// utility for a stray server left behind by a previous run; the normal
// shutdown path never needs it.
func KillProcessOnPort(port int) error {
	if runtime.GOOS == "windows" {
		return killProcessOnPortWindows(port)
	}
	return killProcessOnPortUnix(port)
}

func killProcessOnPortUnix(port int) error {
	cmd := exec.Command("lsof", "-ti", fmt.Sprintf(":%d", port))
	output, err := cmd.Output()
	if err != nil {
		// lsof errors when nothing listens - that is the desired state
		return nil
	}

	pidsStr := strings.TrimSpace(string(output))
	if pidsStr == "" {
		return nil
	}

	for _, pidStr := range strings.Split(pidsStr, "\n") {
		pid, err := strconv.Atoi(strings.TrimSpace(pidStr))
		if err != nil {
			continue
		}
		killCmd := exec.Command("kill", "-9", strconv.Itoa(pid))
		if err := killCmd.Run(); err != nil {
			fmt.Printf("   Warning: failed to kill PID %d: %v\n", pid, err)
		} else {
			fmt.Printf("   Killed process %d on port %d\n", pid, port)
		}
	}

	return nil
}

func killProcessOnPortWindows(port int) error {
	cmd := exec.Command("netstat", "-ano")
	output, err := cmd.Output()
	if err != nil {
		return fmt.Errorf("failed to run netstat: %w", err)
	}

	portStr := fmt.Sprintf(":%d", port)
	for _, line := range strings.Split(string(output), "\n") {
		if !strings.Contains(line, portStr) || !strings.Contains(line, "LISTENING") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 5 {
			continue
		}
		pid, err := strconv.Atoi(fields[len(fields)-1])
		if err != nil {
			continue
		}

		killCmd := exec.Command("taskkill", "/F", "/PID", strconv.Itoa(pid))
		if err := killCmd.Run(); err != nil {
			fmt.Printf("   Warning: failed to kill PID %d: %v\n", pid, err)
		} else {
			fmt.Printf("   Killed process %d on port %d\n", pid, port)
		}
	}

	return nil
}
