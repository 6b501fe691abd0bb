package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/notariatools/permiso-launcher/internal/config"
	"github.com/notariatools/permiso-launcher/internal/launcher"
	"github.com/notariatools/permiso-launcher/internal/netaddr"
)

var (
	upConfigFile string
	upPort       int
	upDir        string
	upEntry      string
	upOpen       bool
	upNoBrowser  bool
)

// UpCmd launches and supervises the application server.
var UpCmd = &cobra.Command{
	Use:   "up",
	Short: "Start the permit application server",
	Long: `Start the Permiso de Viaje server and keep it running.

The launcher activates the prepared virtualenv, prints the local and LAN
access URLs, then starts the server bound to the fixed port and waits.
Press Ctrl+C to stop; the server is shut down before the launcher exits.

Examples:
  permiso-launcher up                 # Launch with launcher.yaml defaults
  permiso-launcher up -p 9000         # Use a different port
  permiso-launcher up --open          # Open the local URL in the browser
  permiso-launcher up -d /opt/permiso # Run from a specific app directory`,
	RunE: runUp,
}

func init() {
	addLaunchFlags(UpCmd.Flags())
	UpCmd.Flags().BoolVar(&upOpen, "open", false, "Open the local URL in the browser")
	UpCmd.Flags().BoolVar(&upNoBrowser, "no-browser", false, "Never open a browser (service mode)")
}

// addLaunchFlags registers the flags shared by every command that needs
// the launch configuration (up, check, stop). The same variables back all
// of them, so loadConfig applies the overrides uniformly.
func addLaunchFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&upConfigFile, "config", "c", "", "Config file (default: launcher.yaml)")
	fs.IntVarP(&upPort, "port", "p", 0, "Server port (default from config)")
	fs.StringVarP(&upDir, "dir", "d", "", "Application directory (default: current directory)")
	fs.StringVarP(&upEntry, "entry", "e", "", "Application entry script")
}

// loadConfig merges the config file with flag overrides. Shared by up,
// check and stop so they all see the same launch parameters.
func loadConfig() (config.Config, error) {
	path := upConfigFile
	if path == "" {
		path = config.ConfigFilePath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if upPort != 0 {
		cfg.Port = upPort
	}
	if upDir != "" {
		cfg.WorkDir = upDir
	}
	if upEntry != "" {
		cfg.AppEntry = upEntry
	}
	if upOpen {
		cfg.OpenBrowser = true
	}
	if upNoBrowser {
		cfg.OpenBrowser = false
	}

	if cfg.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return cfg, err
		}
		cfg.WorkDir = wd
	}
	return cfg, nil
}

func runUp(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Ctrl+C (or a service stop) cancels the context; the supervisor
	// forwards the interrupt to the server and waits for it to die.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l := launcher.New(cfg, netaddr.NewResolver())
	code, err := l.Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("launch failed")
		return err
	}
	if code != 0 {
		// Mirror the server's exit code exactly.
		os.Exit(code)
	}
	return nil
}
