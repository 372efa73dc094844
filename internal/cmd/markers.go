package cmd

import (
	"fmt"
	"strings"

	"github.com/Misadov/gemini-cli-notify/internal/config"
	"github.com/Misadov/gemini-cli-notify/internal/detect"
	"github.com/spf13/cobra"
)

var markersCmd = &cobra.Command{
	Use:   "markers",
	Short: "Show the effective marker table",
	Long: `Display the marker table in effect after applying configuration
overrides. Markers decide which console windows are tracked and what
state each session is in.`,
	RunE: runMarkers,
}

func init() {
	rootCmd.AddCommand(markersCmd)
}

func runMarkers(cmd *cobra.Command, args []string) error {
	table := config.Get().MarkerTable()

	fmt.Println("identity:")
	for _, m := range table.Identity {
		fmt.Printf("  - %s\n", formatMarker(m))
	}

	// Stable order matching classification priority
	states := []detect.State{
		detect.StateActionRequired,
		detect.StateRateLimited,
		detect.StateWorking,
		detect.StateReady,
	}
	for _, state := range states {
		markers, ok := table.States[state]
		if !ok {
			continue
		}
		fmt.Printf("%s:\n", strings.ToLower(state.String()))
		for _, m := range markers.Title {
			fmt.Printf("  title:  %s\n", formatMarker(m))
		}
		for _, m := range markers.Buffer {
			fmt.Printf("  buffer: %s\n", formatMarker(m))
		}
	}

	return nil
}

func formatMarker(m detect.Marker) string {
	return strings.Join(m, " && ")
}
