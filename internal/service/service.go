// Package service provides cross-platform system service management using
// kardianos/service, so the permit server can start with the machine
// instead of from a terminal.
package service

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/kardianos/service"
	"github.com/rs/zerolog/log"
)

// Config holds service configuration.
type Config struct {
	Name        string // Service name (e.g. "permiso-launcher")
	DisplayName string // Human-readable name
	Description string // Service description
	WorkDir     string // Working directory for the service
	UserService bool   // Install as user service (not root)
}

// ConfigForProject returns a config named after the application directory.
func ConfigForProject(projectDir string) Config {
	name := filepath.Base(projectDir)
	return Config{
		Name:        fmt.Sprintf("permiso-%s", name),
		DisplayName: fmt.Sprintf("Permiso de Viaje: %s", name),
		Description: fmt.Sprintf("Permit application server for %s", name),
		WorkDir:     projectDir,
		UserService: true,
	}
}

// program implements service.Interface by running the launcher binary in
// the foreground. The launcher owns the server child process; stopping
// the service interrupts the launcher, which in turn tears the server
// down before exiting.
type program struct {
	cmd         *exec.Cmd
	workDir     string
	launcherBin string
}

func (p *program) Start(s service.Service) error {
	log.Info().Str("service", s.String()).Msg("starting service")
	go p.run()
	return nil
}

func (p *program) run() {
	// No browser from a service context; there is no desktop session.
	p.cmd = exec.Command(p.launcherBin, "up", "--no-browser")
	p.cmd.Dir = p.workDir
	p.cmd.Stdout = os.Stdout
	p.cmd.Stderr = os.Stderr

	if err := p.cmd.Run(); err != nil {
		log.Error().Err(err).Msg("launcher exited")
	}
}

func (p *program) Stop(s service.Service) error {
	log.Info().Str("service", s.String()).Msg("stopping service")
	if p.cmd != nil && p.cmd.Process != nil {
		p.cmd.Process.Signal(os.Interrupt)
	}
	return nil
}

// Manager manages service lifecycle operations.
type Manager struct {
	svc    service.Service
	config Config
}

// NewManager creates a new service manager.
func NewManager(cfg Config) (*Manager, error) {
	launcherBin, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	svcConfig := &service.Config{
		Name:             cfg.Name,
		DisplayName:      cfg.DisplayName,
		Description:      cfg.Description,
		WorkingDirectory: cfg.WorkDir,
		Arguments:        []string{"service", "run"},
	}

	if cfg.UserService {
		svcConfig.Option = service.KeyValue{
			"UserService": true,
		}
	}

	prg := &program{
		workDir:     cfg.WorkDir,
		launcherBin: launcherBin,
	}

	svc, err := service.New(prg, svcConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}

	return &Manager{
		svc:    svc,
		config: cfg,
	}, nil
}

// Install installs the service.
func (m *Manager) Install() error {
	err := m.svc.Install()
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return fmt.Errorf("service %s already installed", m.config.Name)
		}
		return fmt.Errorf("failed to install: %w", err)
	}
	return nil
}

// Uninstall removes the service.
func (m *Manager) Uninstall() error {
	err := m.svc.Uninstall()
	if err != nil {
		if strings.Contains(err.Error(), "not installed") {
			return fmt.Errorf("service %s not installed", m.config.Name)
		}
		return fmt.Errorf("failed to uninstall: %w", err)
	}
	return nil
}

// Start starts the service.
func (m *Manager) Start() error {
	status, _ := m.svc.Status()
	if status == service.StatusRunning {
		return fmt.Errorf("service %s already running", m.config.Name)
	}

	if err := m.svc.Start(); err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	return nil
}

// Stop stops the service.
func (m *Manager) Stop() error {
	status, _ := m.svc.Status()
	if status == service.StatusStopped {
		return fmt.Errorf("service %s already stopped", m.config.Name)
	}

	if err := m.svc.Stop(); err != nil {
		return fmt.Errorf("failed to stop: %w", err)
	}
	return nil
}

// Restart restarts the service.
func (m *Manager) Restart() error {
	if err := m.svc.Restart(); err != nil {
		return fmt.Errorf("failed to restart: %w", err)
	}
	return nil
}

// Status returns the service status.
func (m *Manager) Status() (string, error) {
	status, err := m.svc.Status()
	if err != nil {
		return "unknown", err
	}

	switch status {
	case service.StatusRunning:
		return "running", nil
	case service.StatusStopped:
		return "stopped", nil
	default:
		return "unknown", nil
	}
}

// Run runs the service (called by the service manager).
func (m *Manager) Run() error {
	return m.svc.Run()
}

// Platform returns the service platform (e.g. "darwin-launchd", "linux-systemd").
func (m *Manager) Platform() string {
	return service.Platform()
}
