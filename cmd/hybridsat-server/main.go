// Hybridsat-server is a voice satellite gateway for browser-based clients.
//
// It presents itself to a home automation hub as a native-API voice
// assistant device on TCP port 6053 while serving browser microphone and
// speaker clients over WebSocket. Audio captured in the browser is relayed
// to the hub's voice pipeline, and pipeline responses are played back in
// every connected browser.
//
// Usage:
//
//	hybridsat-server [command] [flags]
//
// Running without arguments starts the satellite.
// See 'hybridsat-server --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hybridsat/hybrid-satellite/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "hybridsat-server",
	Short: "Hybrid Voice Satellite",
	Long: `A voice satellite that bridges browser clients into a home automation hub.

The server terminates the hub's native device protocol on TCP port 6053 and
exposes a WebSocket endpoint for browser microphone and speaker clients.
Wake word detection runs in the browser; the satellite relays audio between
the browsers and the hub's voice pipeline.

If no command is specified, the satellite starts directly.

Note: For a live status view, use the separate 'hybridsat-monitor' utility.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: serve when no subcommand provided
		return runServe(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("hybridsat-server %s (commit: %s)\n", version.Version, version.Commit)
	},
}
