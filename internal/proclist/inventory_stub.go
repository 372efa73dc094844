//go:build !windows

package proclist

import (
	"github.com/Misadov/gemini-cli-notify/internal/errors"
	"github.com/Misadov/gemini-cli-notify/internal/watchdog"
)

// Inventory is a stub on non-Windows platforms.
type Inventory struct{}

func NewInventory(processNames []string) *Inventory {
	return &Inventory{}
}

func (inv *Inventory) ListCandidates() ([]watchdog.Process, error) {
	return nil, errors.ErrInventoryUnavailable
}
