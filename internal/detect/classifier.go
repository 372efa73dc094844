package detect

import (
	"regexp"
	"strings"
)

// A Marker is a conjunction of substrings: it matches a text when every one
// of its parts appears in the text. Most markers have a single part; the
// rate-limit marker of the Gemini CLI needs two ("Keep trying" and "Stop"
// appearing together).
type Marker []string

// matches reports whether every part of the marker appears in text.
// An empty marker never matches.
func (m Marker) matches(text string) bool {
	if len(m) == 0 {
		return false
	}
	for _, part := range m {
		if !strings.Contains(text, part) {
			return false
		}
	}
	return true
}

// ParseMarker splits a configured marker string on "&&" into a conjunctive
// Marker. Whitespace around each part is preserved except for full trimming
// of the separator itself, so markers like "Press tab to focus shell" pass
// through untouched.
func ParseMarker(s string) Marker {
	if !strings.Contains(s, "&&") {
		return Marker{s}
	}
	parts := strings.Split(s, "&&")
	m := make(Marker, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			m = append(m, p)
		}
	}
	return m
}

// StateMarkers holds the title and buffer markers for one state.
type StateMarkers struct {
	// Title markers are matched against the console window title.
	Title []Marker
	// Buffer markers are matched against the visible text buffer.
	Buffer []Marker
}

// MarkerTable maps each state to its recognized markers. The table is data,
// not code: new CLI versions are supported by editing the table, without
// touching classification logic.
type MarkerTable struct {
	// Identity markers establish that a window hosts a monitored CLI at
	// all. Matched case-insensitively against the window title.
	Identity []Marker

	// States maps a state to the markers that indicate it.
	States map[State]StateMarkers
}

// DefaultMarkerTable returns the marker table for the Gemini CLI.
func DefaultMarkerTable() MarkerTable {
	return MarkerTable{
		Identity: []Marker{
			{"gemini"},
			{"gemini-cli"},
			{`dist\index.js`},
			{"◇"},
			{"✦"},
		},
		States: map[State]StateMarkers{
			StateActionRequired: {
				Buffer: []Marker{
					{"Interactive shell awaiting input"},
					{"Action Required"},
					{"Press tab to focus shell"},
				},
			},
			StateRateLimited: {
				Buffer: []Marker{
					{"Keep trying", "Stop"},
				},
			},
			StateWorking: {
				Title: []Marker{
					{"Working"},
					{"✦"},
				},
			},
			StateReady: {
				Title: []Marker{
					{"Ready"},
					{"◇"},
				},
			},
		},
	}
}

// Classifier classifies console snapshots against a marker table.
// It is a pure function of its inputs: the same title, buffer, and table
// always produce the same state. Safe for concurrent use.
type Classifier struct {
	table MarkerTable
}

// NewClassifier creates a Classifier for the given marker table.
func NewClassifier(table MarkerTable) *Classifier {
	return &Classifier{table: table}
}

// NewDefaultClassifier creates a Classifier with the Gemini CLI marker table.
func NewDefaultClassifier() *Classifier {
	return NewClassifier(DefaultMarkerTable())
}

// Table returns the classifier's marker table.
func (c *Classifier) Table() MarkerTable {
	return c.table
}

// MatchesIdentity reports whether the window title identifies a monitored
// CLI session. Matching is case-insensitive: the Gemini CLI sets titles
// in varying capitalization across versions.
func (c *Classifier) MatchesIdentity(title string) bool {
	lower := strings.ToLower(title)
	for _, m := range c.table.Identity {
		if lowerMarker(m).matches(lower) {
			return true
		}
	}
	return false
}

// Classify determines the activity state from a console window title and
// the visible text buffer. It never fails: empty, truncated, or garbled
// input resolves to StateUnknown or StateIdle rather than an error.
//
// Matching policy:
//  1. Title markers are checked first, in priority order. A title flagged
//     as waiting overrides a buffer still showing old working text.
//  2. Buffer markers are checked in fixed priority order
//     (ActionRequired > RateLimited > Ready > Working), so a buffer
//     containing multiple stale markers resolves to the most urgent one.
//  3. No match: a non-empty buffer classifies as Idle, an empty snapshot
//     as Unknown.
func (c *Classifier) Classify(title, buffer string) State {
	cleanTitle := Normalize(title)
	cleanBuffer := Normalize(buffer)

	for _, state := range titlePriority {
		for _, m := range c.table.States[state].Title {
			if m.matches(cleanTitle) {
				return state
			}
		}
	}

	for _, state := range bufferPriority {
		for _, m := range c.table.States[state].Buffer {
			if m.matches(cleanBuffer) {
				return state
			}
		}
	}

	if strings.TrimSpace(cleanBuffer) != "" {
		return StateIdle
	}
	return StateUnknown
}

// lowerMarker returns a copy of the marker with every part lowercased.
func lowerMarker(m Marker) Marker {
	out := make(Marker, len(m))
	for i, part := range m {
		out[i] = strings.ToLower(part)
	}
	return out
}

// ansiRegex matches CSI sequences (ESC[...letter) and OSC sequences
// (ESC]...BEL).
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]|\x1b\][^\x07]*\x07`)

// Normalize strips ANSI escape sequences and non-printing control
// characters from text read out of a console buffer. Tabs and newlines
// are preserved.
func Normalize(text string) string {
	text = ansiRegex.ReplaceAllString(text, "")
	return strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, text)
}
