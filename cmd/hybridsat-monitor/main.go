// Hybridsat-monitor is a terminal dashboard for a running voice satellite.
//
// It polls the satellite's status endpoint once a second and renders hub
// link state, browser client counts, and microphone buffer statistics.
// The monitor is read-only and can safely watch a production satellite.
//
// Usage:
//
//	hybridsat-monitor [flags]
//
// Running without arguments connects to a satellite on localhost.
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/hybridsat/hybrid-satellite/internal/tui"
	"github.com/hybridsat/hybrid-satellite/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var (
	serverURL    string
	pollInterval time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "hybridsat-monitor",
	Short: "Hybrid Voice Satellite Monitor",
	Long: `A terminal dashboard for a running voice satellite.

Polls the satellite's HTTP status endpoint and renders hub link state,
browser client counts, and audio buffer statistics. The monitor is
read-only: it never changes satellite state.`,
	Version: version.Version,
	RunE:    runMonitor,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.Flags().StringVar(&serverURL, "url", "http://127.0.0.1:8765", "Base URL of the satellite's web server")
	rootCmd.Flags().DurationVar(&pollInterval, "interval", time.Second, "Status poll interval")

	rootCmd.AddCommand(versionCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	if !tui.IsTerminal() {
		return fmt.Errorf("standard output is not a terminal")
	}

	p := tea.NewProgram(tui.NewModel(serverURL, pollInterval), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("monitor error: %w", err)
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("hybridsat-monitor %s (commit: %s)\n", version.Version, version.Commit)
	},
}
