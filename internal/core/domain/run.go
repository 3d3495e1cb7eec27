package domain

import (
	"sync"
	"time"
)

// RunState is the lifecycle state of a single compile/execute run.
type RunState string

const (
	// RunStateIdle indicates the run has been created but not started.
	RunStateIdle RunState = "idle"
	// RunStateAcquiringCompiler indicates the compiler module is being resolved.
	RunStateAcquiringCompiler RunState = "acquiring-compiler"
	// RunStateCompiling indicates the source is being compiled or looked up in the cache.
	RunStateCompiling RunState = "compiling"
	// RunStateExecuting indicates the artifact is running.
	RunStateExecuting RunState = "executing"
	// RunStateCompleted indicates the run finished successfully.
	RunStateCompleted RunState = "completed"
	// RunStateFailed indicates the run stopped at one of its phases.
	RunStateFailed RunState = "failed"
)

// IsTerminal reports whether no further transitions can happen.
func (s RunState) IsTerminal() bool {
	return s == RunStateCompleted || s == RunStateFailed
}

// PlaceholderOutput is shown for a run that has not finished yet.
const PlaceholderOutput = "running..."

// RunRecord is the observable result of one run.
//
// Timing fields hold the elapsed time since the run started, stamped when the
// corresponding phase finished, so they are non-decreasing left to right.
// A field stays nil when its phase never completed.
type RunRecord struct {
	RunNumber   int
	State       RunState
	AcquireTime *time.Duration
	CompileTime *time.Duration
	ExecuteTime *time.Duration
	TotalTime   *time.Duration
	Output      string
	Err         error
	// Cached is set when the artifact came from the cache instead of the compiler.
	Cached bool
}

// Failed reports whether the run ended in an error.
func (r RunRecord) Failed() bool {
	return r.State == RunStateFailed
}

// PhaseDurations holds the cost of each phase of a run.
type PhaseDurations struct {
	Acquire time.Duration
	Compile time.Duration
	Execute time.Duration
	Total   time.Duration
}

// Phases derives per-phase durations from the cumulative timestamps.
// Phases that never completed report zero.
func (r RunRecord) Phases() PhaseDurations {
	var p PhaseDurations
	var prev time.Duration
	if r.AcquireTime != nil {
		p.Acquire = *r.AcquireTime
		prev = *r.AcquireTime
	}
	if r.CompileTime != nil {
		p.Compile = *r.CompileTime - prev
		prev = *r.CompileTime
	}
	if r.ExecuteTime != nil {
		p.Execute = *r.ExecuteTime - prev
	}
	if r.TotalTime != nil {
		p.Total = *r.TotalTime
	}
	return p
}

// RunHistory is the append-only list of runs of a session.
type RunHistory struct {
	mu   sync.RWMutex
	runs []*RunRecord
}

// NewRunHistory creates an empty history.
func NewRunHistory() *RunHistory {
	return &RunHistory{}
}

// Begin appends a new record numbered len(history)+1 and returns its number.
func (h *RunHistory) Begin() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	rec := &RunRecord{
		RunNumber: len(h.runs) + 1,
		State:     RunStateIdle,
		Output:    PlaceholderOutput,
	}
	h.runs = append(h.runs, rec)
	return rec.RunNumber
}

// Update mutates the record with the given number in place.
func (h *RunHistory) Update(runNumber int, fn func(*RunRecord)) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if runNumber < 1 || runNumber > len(h.runs) {
		return
	}
	fn(h.runs[runNumber-1])
}

// Get returns a copy of the record with the given number.
func (h *RunHistory) Get(runNumber int) (RunRecord, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if runNumber < 1 || runNumber > len(h.runs) {
		return RunRecord{}, false
	}
	return *h.runs[runNumber-1], true
}

// Records returns copies of every record in run order.
func (h *RunHistory) Records() []RunRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]RunRecord, len(h.runs))
	for i, r := range h.runs {
		out[i] = *r
	}
	return out
}

// Len returns the number of runs started so far.
func (h *RunHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.runs)
}
