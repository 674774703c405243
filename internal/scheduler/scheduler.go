package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dandantas/keepwarm/internal/config"
	"github.com/dandantas/keepwarm/internal/model"
	"github.com/robfig/cron/v3"
)

// Message describes the ping cadence to operators
const Message = "Pinging every 10-14 minutes (randomized)"

// Ticker runs one scheduled check at the given time
type Ticker interface {
	Tick(ctx context.Context, now time.Time) (model.PingRecord, bool)
}

// Scheduler fires the ping check on a cron cadence.
// The cron entry is a cheap frequent check; the jittered deadline lives in State.
type Scheduler struct {
	cfg     *config.Config
	ticker  Ticker
	cron    *cron.Cron
	now     func() time.Time
	running atomic.Bool
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg *config.Config, ticker Ticker) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		ticker: ticker,
		now:    time.Now,
	}
}

// Start registers the cron entry and begins firing ticks
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.cfg.SchedulerEnabled {
		slog.Info("Scheduler is disabled by configuration")
		return nil
	}

	logger := cronLogger{}
	c := cron.New(
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		cron.WithLogger(logger),
	)

	if _, err := c.AddFunc(s.cfg.SchedulerCron, func() { s.tick(ctx) }); err != nil {
		return fmt.Errorf("failed to register cron schedule %q: %w", s.cfg.SchedulerCron, err)
	}
	s.cron = c

	slog.Info("Starting scheduler",
		"cron", s.cfg.SchedulerCron,
		"target_url", s.cfg.TargetURL,
	)

	s.cron.Start()
	s.running.Store(true)

	return nil
}

// Stop halts the cron and waits for an in-flight tick until ctx is done
func (s *Scheduler) Stop(ctx context.Context) {
	if s.cron == nil {
		return
	}

	slog.Info("Stopping scheduler")
	s.running.Store(false)

	done := s.cron.Stop()
	select {
	case <-done.Done():
		slog.Info("Scheduler stopped")
	case <-ctx.Done():
		slog.Warn("Timeout waiting for scheduled ping to complete")
	}
}

// Running reports whether the cron loop is active
func (s *Scheduler) Running() bool {
	return s.running.Load()
}

// tick processes one cron fire
func (s *Scheduler) tick(ctx context.Context) {
	now := s.now()

	slog.Debug("Scheduler tick", "time", now.UTC().Format(time.RFC3339))

	record, fired := s.ticker.Tick(ctx, now)
	if !fired {
		return
	}

	slog.Info("Scheduled ping completed",
		"ping_id", record.ID,
		"status", record.Status,
		"success", record.Success,
	)
}

// cronLogger routes cron's internal logging through slog
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	slog.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
