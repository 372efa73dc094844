// Package registry owns the set of currently tracked CLI instances.
// It performs creation, deduplication across host-shell and child-runtime
// processes that share one console window, state-transition bookkeeping,
// and eviction of instances whose window has gone away.
package registry

import (
	"sort"
	"sync"

	"github.com/Misadov/gemini-cli-notify/internal/detect"
	"github.com/Misadov/gemini-cli-notify/internal/logging"
)

// Instance represents one logical monitored CLI session, identified by its
// console window handle. Two OS processes (a host shell and the runtime it
// spawned) may map to the same handle and are collapsed into one Instance.
type Instance struct {
	// Handle is the console window handle, the deduplication key.
	Handle uintptr
	// PID is the process currently used to read this instance's buffer.
	// It may change across cycles without changing Handle.
	PID int
	// State is the current classified activity state.
	State detect.State
	// LastNotifiedState is the state for which a notification was last
	// dispatched (or suppressed). Guards against duplicate alerts.
	LastNotifiedState detect.State
	// LastSeenCycle is the cycle counter of the last successful snapshot.
	LastSeenCycle uint64
}

// Candidate is one (pid, handle, snapshot-or-failure) tuple produced by a
// polling cycle. A failed snapshot has Err set; Handle may be zero when the
// failure prevented resolving the window.
type Candidate struct {
	PID    int
	Handle uintptr
	Title  string
	Buffer string
	Err    error
}

// Transition reports an instance moving from one state to another.
// The registry emits edges of the state graph, never repeated polls of a
// steady state.
type Transition struct {
	Handle uintptr
	PID    int
	Old    detect.State
	New    detect.State
}

// Registry tracks instances keyed by console window handle.
//
// The registry is mutated only by the polling orchestrator's single thread
// of control; the mutex exists so accessors may be called concurrently
// (e.g. from a signal handler dumping status) without racing a cycle.
type Registry struct {
	mu         sync.Mutex
	classifier *detect.Classifier
	staleness  uint64
	instances  map[uintptr]*Instance
	logger     *logging.Logger
}

// New creates a Registry. stalenessCycles is how many cycles an instance
// may go without a successful snapshot before it is evicted.
func New(classifier *detect.Classifier, stalenessCycles uint64, logger *logging.Logger) *Registry {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Registry{
		classifier: classifier,
		staleness:  stalenessCycles,
		instances:  make(map[uintptr]*Instance),
		logger:     logger,
	}
}

// Update processes one cycle's worth of candidates and returns the state
// transitions that occurred. For each distinct handle the best classifiable
// snapshot wins; instances whose snapshot failed keep their state and do
// not refresh LastSeenCycle. After processing, instances staler than the
// configured threshold are evicted silently.
func (r *Registry) Update(cycle uint64, candidates []Candidate) []Transition {
	r.mu.Lock()
	defer r.mu.Unlock()

	resolved := r.dedup(candidates)

	var transitions []Transition
	for _, cand := range resolved {
		if t := r.apply(cycle, cand); t != nil {
			transitions = append(transitions, *t)
		}
	}

	r.evict(cycle)
	return transitions
}

// dedup groups candidates by handle and picks one snapshot per handle.
// When a host shell and its child runtime both map to one console, the
// snapshot that classifies to a more informative state wins; ties resolve
// to the higher PID (the spawned runtime is the younger process). Failed
// candidates are kept only when no successful snapshot exists for the
// handle, so the freeze/no-refresh rule applies.
func (r *Registry) dedup(candidates []Candidate) []Candidate {
	byHandle := make(map[uintptr][]Candidate)
	order := make([]uintptr, 0, len(candidates))

	for _, cand := range candidates {
		handle := cand.Handle
		if handle == 0 {
			if cand.Err == nil {
				// A successful snapshot with no window is untrackable.
				continue
			}
			// A failed snapshot may still belong to a tracked instance.
			inst := r.findByPID(cand.PID)
			if inst == nil {
				continue
			}
			handle = inst.Handle
			cand.Handle = handle
		}
		if _, seen := byHandle[handle]; !seen {
			order = append(order, handle)
		}
		byHandle[handle] = append(byHandle[handle], cand)
	}

	resolved := make([]Candidate, 0, len(order))
	for _, handle := range order {
		group := byHandle[handle]
		sort.SliceStable(group, func(i, j int) bool {
			si, sj := r.score(group[i]), r.score(group[j])
			if si != sj {
				return si > sj
			}
			return group[i].PID > group[j].PID
		})
		resolved = append(resolved, group[0])
	}
	return resolved
}

// score ranks a candidate for dedup: failures lose to any readable
// snapshot, and a snapshot that classifies to a concrete activity state
// beats one that resolves to Unknown or Idle.
func (r *Registry) score(c Candidate) int {
	if c.Err != nil {
		return 0
	}
	switch r.classifier.Classify(c.Title, c.Buffer) {
	case detect.StateUnknown:
		return 1
	case detect.StateIdle:
		return 2
	default:
		return 3
	}
}

// apply updates or creates the instance for a resolved candidate and
// returns the transition, if any. Caller holds the mutex.
func (r *Registry) apply(cycle uint64, cand Candidate) *Transition {
	inst, exists := r.instances[cand.Handle]

	if cand.Err != nil {
		// Failed snapshot: state frozen, LastSeenCycle not refreshed.
		if exists {
			r.logger.Debug("snapshot failed, state frozen",
				"handle", cand.Handle,
				"pid", cand.PID,
				"error", cand.Err.Error())
		}
		return nil
	}

	state := r.classifier.Classify(cand.Title, cand.Buffer)

	if !exists {
		inst = &Instance{
			Handle:            cand.Handle,
			PID:               cand.PID,
			State:             detect.StateUnknown,
			LastNotifiedState: detect.StateUnknown,
		}
		r.instances[cand.Handle] = inst
		r.logger.Info("tracking new instance",
			"handle", cand.Handle,
			"pid", cand.PID,
			"state", state.String())
	}

	inst.PID = cand.PID
	inst.LastSeenCycle = cycle

	if state == inst.State {
		return nil
	}

	old := inst.State
	inst.State = state
	r.logger.Info("instance state changed",
		"handle", cand.Handle,
		"pid", cand.PID,
		"old_state", old.String(),
		"new_state", state.String())

	return &Transition{Handle: cand.Handle, PID: cand.PID, Old: old, New: state}
}

// evict removes instances that have not produced a successful snapshot for
// more than the staleness threshold. Eviction emits no transition; a later
// reappearance of the handle is a brand-new instance with fresh history.
func (r *Registry) evict(cycle uint64) {
	for handle, inst := range r.instances {
		if cycle-inst.LastSeenCycle > r.staleness {
			delete(r.instances, handle)
			r.logger.Info("evicting stale instance",
				"handle", handle,
				"pid", inst.PID,
				"last_seen_cycle", inst.LastSeenCycle)
		}
	}
}

// findByPID returns the instance currently read through the given PID.
// Caller holds the mutex.
func (r *Registry) findByPID(pid int) *Instance {
	for _, inst := range r.instances {
		if inst.PID == pid {
			return inst
		}
	}
	return nil
}

// MarkNotified records that a notification for the given state was
// dispatched (or deliberately suppressed) for the instance. This advances
// LastNotifiedState even when dispatch fails, guaranteeing at most one
// notification per state entry.
func (r *Registry) MarkNotified(handle uintptr, state detect.State) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if inst, ok := r.instances[handle]; ok {
		inst.LastNotifiedState = state
	}
}

// Get returns a copy of the instance for the given handle.
func (r *Registry) Get(handle uintptr) (Instance, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if inst, ok := r.instances[handle]; ok {
		return *inst, true
	}
	return Instance{}, false
}

// Len returns the number of tracked instances.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.instances)
}

// Handles returns the handles of all tracked instances.
func (r *Registry) Handles() []uintptr {
	r.mu.Lock()
	defer r.mu.Unlock()

	handles := make([]uintptr, 0, len(r.instances))
	for h := range r.instances {
		handles = append(handles, h)
	}
	return handles
}
