package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dandantas/keepwarm/internal/model"
	"github.com/dandantas/keepwarm/internal/scheduler"
)

// Trigger names what started a ping
type Trigger string

const (
	TriggerScheduled Trigger = "scheduled"
	TriggerManual    Trigger = "manual"
)

// Executor runs pings against the configured target and records them in State
type Executor struct {
	pinger    *Pinger
	state     *scheduler.State
	targetURL string
	now       func() time.Time
	mu        sync.Mutex // One ping at a time
}

// NewExecutor creates a new executor
func NewExecutor(pinger *Pinger, state *scheduler.State, targetURL string) *Executor {
	return &Executor{
		pinger:    pinger,
		state:     state,
		targetURL: targetURL,
		now:       time.Now,
	}
}

// TargetURL returns the URL being kept warm
func (e *Executor) TargetURL() string {
	return e.targetURL
}

// Tick pings the target if the scheduled deadline has been reached at now.
// It reports whether a ping was executed.
func (e *Executor) Tick(ctx context.Context, now time.Time) (model.PingRecord, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.state.Due(now) {
		return model.PingRecord{}, false
	}

	return e.run(ctx, TriggerScheduled, now), true
}

// ManualPing pings the target immediately and reschedules from completion time
func (e *Executor) ManualPing(ctx context.Context) model.PingRecord {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.run(ctx, TriggerManual, time.Time{})
}

// run executes one ping and reschedules relative to firedAt, or to the
// completion time when firedAt is zero
func (e *Executor) run(ctx context.Context, trigger Trigger, firedAt time.Time) model.PingRecord {
	record := e.pinger.Ping(ctx, e.targetURL)

	if firedAt.IsZero() {
		firedAt = e.now()
	}
	next := e.state.Complete(record, firedAt)

	slog.Info("Next ping scheduled",
		"trigger", trigger,
		"ping_id", record.ID,
		"next_ping_at", next.UTC().Format(time.RFC3339),
		"in_minutes", int(next.Sub(firedAt).Minutes()),
	)

	return record
}
