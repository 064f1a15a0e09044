// Package search runs the investor-matching pipeline for one session:
// profile the target, fan the nine category queries out to their providers
// one at a time, then aggregate whatever came back. One logical thread of
// control — no two provider calls are ever in flight at once, by deliberate
// choice to respect provider rate limits.
package search

import (
	"sync"
	"time"

	"github.com/fleveque/investor-scout/internal/model"
)

// State is the session lifecycle:
// Idle → Profiling → Searching → Aggregating → Done | Failed.
// Only invalid input and a failed profile extraction lead to Failed; every
// per-category failure degrades the roster instead of the session.
type State string

const (
	StateIdle        State = "idle"
	StateProfiling   State = "profiling"
	StateSearching   State = "searching"
	StateAggregating State = "aggregating"
	StateDone        State = "done"
	StateFailed      State = "failed"
)

// ProgressStatus marks one progress step.
type ProgressStatus string

const (
	ProgressRunning ProgressStatus = "running"
	ProgressDone    ProgressStatus = "done"
	ProgressError   ProgressStatus = "error"
)

// ProgressEvent is one entry of the session's progress log, consumed by the
// presentation layer (CLI output, API polling).
type ProgressEvent struct {
	Label    string         `json:"label"`
	Provider string         `json:"provider,omitempty"`
	Status   ProgressStatus `json:"status"`
	Elapsed  time.Duration  `json:"elapsed"`
	Count    int            `json:"count"`
}

// Session holds the transient state of one search run. The orchestrator is
// the only writer; HTTP handlers and the CLI read snapshots through the
// accessor methods. Everything here is discarded when the session ends —
// only the audit row in storage survives.
type Session struct {
	ID       string
	Query    string
	DealType model.DealType

	mu         sync.RWMutex
	state      State
	profile    *model.CompanyProfile
	results    []model.CategoryResult
	aggregated *model.AggregatedResults
	progress   []ProgressEvent
	errMsg     string

	// onProgress, when set, receives every progress update. It is invoked
	// inline and must not block — it exists for display, not for control.
	onProgress func(ProgressEvent)
}

// NewSession creates an idle session for a query.
func NewSession(id, query string, dealType model.DealType) *Session {
	return &Session{
		ID:       id,
		Query:    query,
		DealType: dealType,
		state:    StateIdle,
	}
}

// OnProgress registers the progress consumer. Call before Run.
func (s *Session) OnProgress(fn func(ProgressEvent)) { s.onProgress = fn }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Profile returns the extracted company profile, nil before Profiling ends.
func (s *Session) Profile() *model.CompanyProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// Results returns the per-category results collected so far.
func (s *Session) Results() []model.CategoryResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.CategoryResult(nil), s.results...)
}

// Aggregated returns the final roster, nil until the session is Done.
func (s *Session) Aggregated() *model.AggregatedResults {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.aggregated
}

// Progress returns a copy of the progress log.
func (s *Session) Progress() []ProgressEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ProgressEvent(nil), s.progress...)
}

// ErrMsg returns the session-level failure message, empty unless Failed.
func (s *Session) ErrMsg() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Session) fail(msg string) {
	s.mu.Lock()
	s.state = StateFailed
	s.errMsg = msg
	s.mu.Unlock()
}

// startStep appends a running progress entry and returns its index together
// with the start time.
func (s *Session) startStep(label, provider string) (int, time.Time) {
	ev := ProgressEvent{Label: label, Provider: provider, Status: ProgressRunning}
	s.mu.Lock()
	s.progress = append(s.progress, ev)
	idx := len(s.progress) - 1
	s.mu.Unlock()
	s.emit(ev)
	return idx, time.Now()
}

// finishStep marks a progress entry done or errored with its elapsed time
// and result count.
func (s *Session) finishStep(idx int, start time.Time, status ProgressStatus, count int) {
	s.mu.Lock()
	s.progress[idx].Status = status
	s.progress[idx].Elapsed = time.Since(start)
	s.progress[idx].Count = count
	ev := s.progress[idx]
	s.mu.Unlock()
	s.emit(ev)
}

func (s *Session) emit(ev ProgressEvent) {
	if s.onProgress != nil {
		s.onProgress(ev)
	}
}
