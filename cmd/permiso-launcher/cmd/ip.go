package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/notariatools/permiso-launcher/internal/netaddr"
)

// IPCmd prints the LAN IP other machines should use to reach this host.
var IPCmd = &cobra.Command{
	Use:   "ip",
	Short: "Print this machine's LAN IP address",
	Long: `Print the address machines on the local network should use to
reach a server running on this host.

This is the same address the launcher embeds in the LAN URL. On
multi-homed hosts the first non-loopback IPv4 address the operating
system enumerates wins.`,
	Run: func(cmd *cobra.Command, args []string) {
		ip, err := netaddr.NewResolver().LANAddress()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Could not determine LAN IP:", err)
			os.Exit(1)
		}
		fmt.Println(ip)
	},
}
