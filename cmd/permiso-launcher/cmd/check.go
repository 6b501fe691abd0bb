package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/notariatools/permiso-launcher/internal/env"
)

// CheckCmd validates the launch environment without starting anything.
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the environment is ready to launch",
	Long: `Check everything a launch depends on, without starting the server:

  - the prepared virtualenv and its interpreter exist
  - the runtime command is available
  - the application entry script exists
  - the server port is free

Exits non-zero if any check fails.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			cmd.PrintErrln(err)
			os.Exit(1)
		}
		os.Exit(env.RunValidate(cfg))
	},
}

func init() {
	addLaunchFlags(CheckCmd.Flags())
}
