package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/notariatools/permiso-launcher/internal/env"
)

// StopCmd kills a stray server left listening on the launch port.
var StopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Kill a stray server left on the launch port",
	Long: `Kill whatever is still listening on the server port.

The normal shutdown path (Ctrl+C on 'up') never leaves a server behind;
this is a recovery tool for a previous run that was force-killed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Printf("Cleaning up port %d...\n", cfg.Port)
		if err := env.KillProcessOnPort(cfg.Port); err != nil {
			return err
		}
		fmt.Println("Done.")
		return nil
	},
}

func init() {
	addLaunchFlags(StopCmd.Flags())
}
