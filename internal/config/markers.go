package config

import (
	"github.com/Misadov/gemini-cli-notify/internal/detect"
)

// MarkerTable builds the effective marker table: the built-in Gemini CLI
// table with any configured marker lists substituted in. A configured list
// replaces the built-in markers for that slot entirely; an empty list keeps
// the built-ins.
func (c *Config) MarkerTable() detect.MarkerTable {
	table := detect.DefaultMarkerTable()

	if len(c.Markers.Identity) > 0 {
		table.Identity = parseMarkers(c.Markers.Identity)
	}

	overrideTitle(&table, detect.StateWorking, c.Markers.TitleWorking)
	overrideTitle(&table, detect.StateReady, c.Markers.TitleReady)
	overrideBuffer(&table, detect.StateActionRequired, c.Markers.BufferActionRequired)
	overrideBuffer(&table, detect.StateRateLimited, c.Markers.BufferRateLimited)
	overrideBuffer(&table, detect.StateReady, c.Markers.BufferReady)
	overrideBuffer(&table, detect.StateWorking, c.Markers.BufferWorking)

	return table
}

func overrideTitle(table *detect.MarkerTable, state detect.State, markers []string) {
	if len(markers) == 0 {
		return
	}
	entry := table.States[state]
	entry.Title = parseMarkers(markers)
	table.States[state] = entry
}

func overrideBuffer(table *detect.MarkerTable, state detect.State, markers []string) {
	if len(markers) == 0 {
		return
	}
	entry := table.States[state]
	entry.Buffer = parseMarkers(markers)
	table.States[state] = entry
}

func parseMarkers(raw []string) []detect.Marker {
	out := make([]detect.Marker, 0, len(raw))
	for _, s := range raw {
		if s == "" {
			continue
		}
		out = append(out, detect.ParseMarker(s))
	}
	return out
}
