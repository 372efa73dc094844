package internal

import (
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/Misadov/gemini-cli-notify/internal/config"
	"github.com/Misadov/gemini-cli-notify/internal/detect"
	"github.com/Misadov/gemini-cli-notify/internal/registry"
	"github.com/Misadov/gemini-cli-notify/internal/watchdog"
)

// The integration tests drive the full pipeline (config -> classifier ->
// registry -> watchdog) with fake OS collaborators, simulating the life of
// real CLI sessions across polling cycles.

type scriptedInventory struct {
	procs []watchdog.Process
}

func (s *scriptedInventory) ListCandidates() ([]watchdog.Process, error) {
	return s.procs, nil
}

type scriptedSnapshots struct {
	snaps map[int]watchdog.Snapshot
	errs  map[int]error
}

func (s *scriptedSnapshots) Snapshot(pid int) (watchdog.Snapshot, error) {
	if err, ok := s.errs[pid]; ok {
		return watchdog.Snapshot{}, err
	}
	return s.snaps[pid], nil
}

type scriptedFocus struct {
	focused uintptr
}

func (s *scriptedFocus) IsFocused(handle uintptr) bool {
	return handle == s.focused
}

type recordingNotifier struct {
	states []detect.State
	labels []string
}

func (r *recordingNotifier) Notify(state detect.State, label string) error {
	r.states = append(r.states, state)
	r.labels = append(r.labels, label)
	return nil
}

type pipeline struct {
	wd        *watchdog.Watchdog
	inventory *scriptedInventory
	snapshots *scriptedSnapshots
	focus     *scriptedFocus
	notifier  *recordingNotifier
	cycle     uint64
}

func newPipeline(t *testing.T, cfg *config.Config) *pipeline {
	t.Helper()

	classifier := detect.NewClassifier(cfg.MarkerTable())
	p := &pipeline{
		inventory: &scriptedInventory{},
		snapshots: &scriptedSnapshots{snaps: map[int]watchdog.Snapshot{}, errs: map[int]error{}},
		focus:     &scriptedFocus{},
		notifier:  &recordingNotifier{},
	}
	p.wd = watchdog.New(
		watchdog.Options{
			PollInterval:         time.Millisecond,
			NotificationsEnabled: cfg.Notifications.Enabled,
			SuppressWhenFocused:  cfg.Notifications.SuppressWhenFocused,
		},
		classifier,
		registry.New(classifier, uint64(cfg.Watch.StalenessCycles), nil),
		p.inventory, p.snapshots, p.focus, p.notifier, nil)
	return p
}

func (p *pipeline) tick(t *testing.T) {
	t.Helper()
	p.cycle++
	if err := p.wd.Tick(p.cycle); err != nil {
		t.Fatalf("Tick(%d) failed: %v", p.cycle, err)
	}
}

// A session's whole life: shell spawns the runtime, the runtime works,
// finishes, and the processes exit. The user hears about it exactly once.
func TestSessionLifecycle(t *testing.T) {
	cfg := config.Default()
	p := newPipeline(t, cfg)

	// Cycle 1: powershell host and node child share console window 0xA.
	p.inventory.procs = []watchdog.Process{
		{PID: 100, ExecutableName: "powershell.exe"},
		{PID: 140, ExecutableName: "node.exe"},
	}
	p.snapshots.snaps[100] = watchdog.Snapshot{Handle: 0xA, Title: "gemini", Buffer: "C:\\> gemini"}
	p.snapshots.snaps[140] = watchdog.Snapshot{Handle: 0xA, Title: "✦ Working gemini", Buffer: "thinking"}
	p.tick(t)

	if got := p.wd.Registry().Len(); got != 1 {
		t.Fatalf("tracked %d instances, want 1 (shared window deduplicated)", got)
	}
	if len(p.notifier.states) != 0 {
		t.Fatalf("working session notified %d times, want 0", len(p.notifier.states))
	}

	// Cycles 2-3: still working. Quiet.
	p.tick(t)
	p.tick(t)

	// Cycle 4: task done.
	p.snapshots.snaps[140] = watchdog.Snapshot{Handle: 0xA, Title: "◇ Ready gemini", Buffer: "done"}
	p.tick(t)

	if len(p.notifier.states) != 1 || p.notifier.states[0] != detect.StateReady {
		t.Fatalf("notifications = %v, want exactly one ready", p.notifier.states)
	}
	if p.notifier.labels[0] != "PID 140" {
		t.Errorf("notification label = %q, want %q", p.notifier.labels[0], "PID 140")
	}

	// Cycles 5-6: still ready. No repeat.
	p.tick(t)
	p.tick(t)
	if len(p.notifier.states) != 1 {
		t.Fatalf("steady ready state re-notified: %v", p.notifier.states)
	}

	// Session exits. After the staleness threshold the instance is gone.
	p.inventory.procs = nil
	for i := 0; i <= cfg.Watch.StalenessCycles; i++ {
		p.tick(t)
	}
	if got := p.wd.Registry().Len(); got != 0 {
		t.Fatalf("registry still tracks %d instances after session exit", got)
	}
	if len(p.notifier.states) != 1 {
		t.Fatalf("eviction produced notifications: %v", p.notifier.states)
	}
}

// The focused session stays quiet while a background session alerts, and
// marker overrides from configuration drive classification.
func TestFocusAndMarkerOverrides(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	config.SetDefaults()
	viper.Set("markers.buffer_rate_limited", []string{"model overloaded && try again"})

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load failed: %v", err)
	}

	p := newPipeline(t, cfg)
	p.focus.focused = 0xA

	p.inventory.procs = []watchdog.Process{
		{PID: 100, ExecutableName: "node.exe"},
		{PID: 200, ExecutableName: "node.exe"},
	}
	p.snapshots.snaps[100] = watchdog.Snapshot{Handle: 0xA, Title: "✦ Working gemini"}
	p.snapshots.snaps[200] = watchdog.Snapshot{Handle: 0xB, Title: "✦ Working gemini"}
	p.tick(t)

	// The focused session finishes; the background one hits the configured
	// rate-limit marker. The built-in marker must no longer match.
	p.snapshots.snaps[100] = watchdog.Snapshot{Handle: 0xA, Title: "◇ Ready gemini"}
	p.snapshots.snaps[200] = watchdog.Snapshot{
		Handle: 0xB,
		Title:  "gemini",
		Buffer: "model overloaded, please try again later",
	}
	p.tick(t)

	if len(p.notifier.states) != 1 {
		t.Fatalf("notifications = %v, want exactly one", p.notifier.states)
	}
	if p.notifier.states[0] != detect.StateRateLimited || p.notifier.labels[0] != "PID 200" {
		t.Errorf("notification = %s for %q, want rate_limited for PID 200",
			p.notifier.states[0], p.notifier.labels[0])
	}

	// The built-in rate-limit marker was replaced by the override.
	p.snapshots.snaps[200] = watchdog.Snapshot{
		Handle: 0xB,
		Title:  "gemini",
		Buffer: "Keep trying\nStop",
	}
	p.tick(t)
	for _, s := range p.notifier.states[1:] {
		if s == detect.StateRateLimited {
			t.Error("built-in rate-limit marker still matches after override")
		}
	}
}

// A session that alternates between states re-alerts on each re-entry,
// but a snapshot glitch in between does not.
func TestReentryAndSnapshotGlitch(t *testing.T) {
	cfg := config.Default()
	p := newPipeline(t, cfg)

	p.inventory.procs = []watchdog.Process{{PID: 100, ExecutableName: "node.exe"}}

	set := func(title, buffer string) {
		p.snapshots.snaps[100] = watchdog.Snapshot{Handle: 0xA, Title: title, Buffer: buffer}
		delete(p.snapshots.errs, 100)
	}

	set("gemini", "Press tab to focus shell")
	p.tick(t) // action required: notify #1

	// Glitch: one failed snapshot. State frozen, nothing fires.
	p.snapshots.errs[100] = errTransient
	p.tick(t)
	delete(p.snapshots.errs, 100)

	set("gemini", "Press tab to focus shell")
	p.tick(t) // still action required: quiet

	set("✦ Working gemini", "")
	p.tick(t) // back to work: quiet

	set("gemini", "Press tab to focus shell")
	p.tick(t) // action required again: notify #2

	want := []detect.State{detect.StateActionRequired, detect.StateActionRequired}
	if len(p.notifier.states) != len(want) {
		t.Fatalf("notifications = %v, want %v", p.notifier.states, want)
	}
	for i, s := range want {
		if p.notifier.states[i] != s {
			t.Errorf("notification %d = %s, want %s", i, p.notifier.states[i], s)
		}
	}
}

var errTransient = timeoutError{}

type timeoutError struct{}

func (timeoutError) Error() string { return "console read timed out" }
