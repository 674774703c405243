package scheduler

import (
	"sync"
	"time"

	"github.com/dandantas/keepwarm/internal/model"
	"github.com/dandantas/keepwarm/internal/store"
)

// State holds the in-memory scheduling state: the ping log, the next
// deadline and the most recent result. Nothing here survives a restart.
type State struct {
	mu         sync.RWMutex
	logs       *store.PingLog
	nextPingAt time.Time
	lastResult *model.PingRecord
	interval   IntervalFunc
}

// Snapshot is a consistent read of the scheduling state
type Snapshot struct {
	NextPingAt time.Time
	LastResult *model.PingRecord
	NextPingIn time.Duration // Never negative
}

// NewState creates the state with the first deadline one interval after now
func NewState(logs *store.PingLog, now time.Time, interval IntervalFunc) *State {
	if interval == nil {
		interval = RandomInterval
	}

	return &State{
		logs:       logs,
		nextPingAt: now.Add(interval()),
		interval:   interval,
	}
}

// Due reports whether the next ping deadline has been reached
func (s *State) Due(now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !now.Before(s.nextPingAt)
}

// Complete records a finished ping and reschedules the next one relative to firedAt.
// The log insert, last result and new deadline are updated together.
func (s *State) Complete(record model.PingRecord, firedAt time.Time) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logs.Add(record)
	s.lastResult = &record
	s.nextPingAt = firedAt.Add(s.interval())

	return s.nextPingAt
}

// NextPingAt returns the next scheduled ping time
func (s *State) NextPingAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextPingAt
}

// LastResult returns the most recent ping record, if any
func (s *State) LastResult() (model.PingRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.lastResult == nil {
		return model.PingRecord{}, false
	}
	return *s.lastResult, true
}

// Logs returns the ping log, newest first
func (s *State) Logs() []model.PingRecord {
	return s.logs.List()
}

// Snapshot returns next and last ping information as seen at now
func (s *State) Snapshot(now time.Time) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		NextPingAt: s.nextPingAt,
		NextPingIn: max(s.nextPingAt.Sub(now), 0),
	}
	if s.lastResult != nil {
		last := *s.lastResult
		snap.LastResult = &last
	}

	return snap
}
