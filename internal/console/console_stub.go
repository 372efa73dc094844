//go:build !windows

package console

import (
	"github.com/Misadov/gemini-cli-notify/internal/errors"
	"github.com/Misadov/gemini-cli-notify/internal/watchdog"
)

// Provider is the non-Windows stub. Every snapshot fails with
// ErrConsoleUnavailable.
type Provider struct{}

// NewProvider creates the stub provider. readLen is ignored.
func NewProvider(readLen int) *Provider {
	return &Provider{}
}

// Snapshot always fails: there is no Windows console subsystem here.
func (p *Provider) Snapshot(pid int) (watchdog.Snapshot, error) {
	return watchdog.Snapshot{}, errors.NewSnapshotError("platform has no console subsystem", errors.ErrConsoleUnavailable).WithPID(pid)
}
