package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/notariatools/permiso-launcher/internal/service"
)

var (
	serviceWorkDir string
	serviceName    string
)

// ServiceCmd is the parent command for service operations.
var ServiceCmd = &cobra.Command{
	Use:   "service",
	Short: "Run the permit server as a system service",
	Long: `Install and manage the launcher as a system service, so the
permit server starts with the machine instead of from a terminal.

On macOS, this installs as a LaunchAgent (user service).
On Linux, this installs as a systemd user service.
On Windows, this installs as a Windows service.

Examples:
  permiso-launcher service install     # Install for the current app directory
  permiso-launcher service start       # Start the service
  permiso-launcher service status      # Check service status
  permiso-launcher service stop        # Stop the service
  permiso-launcher service uninstall   # Remove the service`,
}

var serviceInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the launcher as a system service",
	RunE:  runServiceInstall,
}

var serviceUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Uninstall the launcher service",
	RunE:  runServiceUninstall,
}

var serviceStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the launcher service",
	RunE:  runServiceStart,
}

var serviceStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the launcher service",
	RunE:  runServiceStop,
}

var serviceRestartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the launcher service",
	RunE:  runServiceRestart,
}

var serviceStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check service status",
	RunE:  runServiceStatus,
}

var serviceRunCmd = &cobra.Command{
	Use:    "run",
	Short:  "Run the service (called by service manager)",
	Hidden: true, // Internal use only
	RunE:   runServiceRun,
}

func init() {
	ServiceCmd.PersistentFlags().StringVarP(&serviceWorkDir, "dir", "d", "", "Application directory (default: current directory)")
	ServiceCmd.PersistentFlags().StringVarP(&serviceName, "name", "n", "", "Service name (default: permiso-<dirname>)")

	ServiceCmd.AddCommand(serviceInstallCmd)
	ServiceCmd.AddCommand(serviceUninstallCmd)
	ServiceCmd.AddCommand(serviceStartCmd)
	ServiceCmd.AddCommand(serviceStopCmd)
	ServiceCmd.AddCommand(serviceRestartCmd)
	ServiceCmd.AddCommand(serviceStatusCmd)
	ServiceCmd.AddCommand(serviceRunCmd)
}

func getServiceConfig() service.Config {
	workDir := serviceWorkDir
	if workDir == "" {
		workDir, _ = os.Getwd()
	}

	cfg := service.ConfigForProject(workDir)
	if serviceName != "" {
		cfg.Name = serviceName
		cfg.DisplayName = fmt.Sprintf("Permiso de Viaje: %s", serviceName)
	}
	return cfg
}

func runServiceInstall(cmd *cobra.Command, args []string) error {
	mgr, err := service.NewManager(getServiceConfig())
	if err != nil {
		return err
	}
	if err := mgr.Install(); err != nil {
		return err
	}
	fmt.Printf("Installed service (%s)\n", mgr.Platform())
	fmt.Println("Start it with: permiso-launcher service start")
	return nil
}

func runServiceUninstall(cmd *cobra.Command, args []string) error {
	mgr, err := service.NewManager(getServiceConfig())
	if err != nil {
		return err
	}
	if err := mgr.Uninstall(); err != nil {
		return err
	}
	fmt.Println("Service uninstalled")
	return nil
}

func runServiceStart(cmd *cobra.Command, args []string) error {
	mgr, err := service.NewManager(getServiceConfig())
	if err != nil {
		return err
	}
	if err := mgr.Start(); err != nil {
		return err
	}
	fmt.Println("Service started")
	return nil
}

func runServiceStop(cmd *cobra.Command, args []string) error {
	mgr, err := service.NewManager(getServiceConfig())
	if err != nil {
		return err
	}
	if err := mgr.Stop(); err != nil {
		return err
	}
	fmt.Println("Service stopped")
	return nil
}

func runServiceRestart(cmd *cobra.Command, args []string) error {
	mgr, err := service.NewManager(getServiceConfig())
	if err != nil {
		return err
	}
	if err := mgr.Restart(); err != nil {
		return err
	}
	fmt.Println("Service restarted")
	return nil
}

func runServiceStatus(cmd *cobra.Command, args []string) error {
	mgr, err := service.NewManager(getServiceConfig())
	if err != nil {
		return err
	}
	status, err := mgr.Status()
	if err != nil {
		return err
	}
	fmt.Printf("Service %s: %s\n", getServiceConfig().Name, status)
	return nil
}

func runServiceRun(cmd *cobra.Command, args []string) error {
	mgr, err := service.NewManager(getServiceConfig())
	if err != nil {
		return err
	}
	return mgr.Run()
}
