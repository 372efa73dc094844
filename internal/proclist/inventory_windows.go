//go:build windows

package proclist

import (
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/Misadov/gemini-cli-notify/internal/errors"
	"github.com/Misadov/gemini-cli-notify/internal/watchdog"
)

// Inventory enumerates processes via a Toolhelp32 snapshot.
type Inventory struct {
	// names are the lowercased executable names to match.
	names map[string]bool
}

// NewInventory creates an Inventory matching the given executable names
// (case-insensitive).
func NewInventory(processNames []string) *Inventory {
	names := make(map[string]bool, len(processNames))
	for _, n := range processNames {
		names[strings.ToLower(n)] = true
	}
	return &Inventory{names: names}
}

// ListCandidates returns all live processes whose executable name matches
// the configured set. The toolhelp snapshot does not expose command lines;
// CommandLine is left empty.
func (inv *Inventory) ListCandidates() ([]watchdog.Process, error) {
	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		// Toolhelp failures such as ERROR_BAD_LENGTH are transient; the
		// caller retries on the next cycle.
		return nil, errors.Wrap(err, "creating process snapshot")
	}
	defer windows.CloseHandle(snapshot)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	if err := windows.Process32First(snapshot, &entry); err != nil {
		return nil, errors.Wrap(err, "reading first process entry")
	}

	var procs []watchdog.Process
	for {
		name := windows.UTF16ToString(entry.ExeFile[:])
		if inv.names[strings.ToLower(name)] {
			procs = append(procs, watchdog.Process{
				PID:            int(entry.ProcessID),
				ExecutableName: name,
			})
		}

		if err := windows.Process32Next(snapshot, &entry); err != nil {
			break
		}
	}

	return procs, nil
}
