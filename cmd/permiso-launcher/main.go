// permiso-launcher - local launcher for the Permiso de Viaje web application
//
// A single binary that activates the prepared runtime environment, prints
// local and LAN access URLs, and starts and supervises the application
// server on macOS, Linux, and Windows.
package main

import (
	"os"

	// Bootstrap MUST be imported first to set the log level before any
	// package that logs during init.
	_ "github.com/notariatools/permiso-launcher/internal/bootstrap"

	"github.com/notariatools/permiso-launcher/cmd/permiso-launcher/cmd"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "permiso-launcher",
		Short: "Run the Permiso de Viaje app server on this machine",
		Long: `permiso-launcher starts the Permiso de Viaje permit application
on this machine and makes it reachable from the local network.

It activates the app's prepared Python environment, figures out the
address other machines on the LAN should use, prints both access URLs,
and keeps the server running until you press Ctrl+C.

TYPICAL WORKFLOW:
  permiso-launcher check     # Verify the environment is ready
  permiso-launcher           # Launch the server (same as 'up')
  permiso-launcher stop      # Clean up a stray server on the port`,

		// Running the binary with no subcommand launches the server.
		RunE: cmd.UpCmd.RunE,
	}
	rootCmd.Flags().AddFlagSet(cmd.UpCmd.Flags())

	cmd.SetVersion(Version)

	rootCmd.AddCommand(cmd.UpCmd)
	rootCmd.AddCommand(cmd.CheckCmd)
	rootCmd.AddCommand(cmd.IPCmd)
	rootCmd.AddCommand(cmd.StopCmd)
	rootCmd.AddCommand(cmd.ServiceCmd)
	rootCmd.AddCommand(cmd.VersionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
