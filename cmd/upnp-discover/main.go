// Upnp-discover finds UPnP root devices on the local network.
//
// It multicasts an SSDP M-SEARCH for upnp:rootdevice, collects the unicast
// replies, and prints each device the first time its USN is seen. The search
// repeats until interrupted, or until a burst count or deadline is reached.
//
// Usage:
//
//	upnp-discover [command] [flags]
//
// Running without a command starts the search.
// See 'upnp-discover --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/upnp-discover/internal/logging"
	"github.com/muurk/upnp-discover/internal/version"
)

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "upnp-discover",
	Short: "Discover UPnP root devices with SSDP",
	Long: `Discover UPnP root devices on the local network.

Sends an SSDP M-SEARCH to the multicast group and prints the server banner
and description URL of every device that answers. Each device is printed
once, keyed by its USN. The search repeats until interrupted.

If no command is specified, the search runs.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSearch,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Banner())
	},
}
