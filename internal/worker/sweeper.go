package worker

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// DefaultSweepInterval is how often expired disconnections are collected
const DefaultSweepInterval = 60 * time.Second

// Sweepable is anything with periodic expiry work. Sweep returns how many
// items it expired.
type Sweepable interface {
	Sweep() int
}

// Sweeper runs a Sweepable on a fixed interval
type Sweeper struct {
	target    Sweepable
	interval  time.Duration
	scheduler gocron.Scheduler
	logger    *slog.Logger
}

// NewSweeper creates a Sweeper. A non-positive interval uses DefaultSweepInterval.
func NewSweeper(target Sweepable, interval time.Duration, logger *slog.Logger) (*Sweeper, error) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	s := &Sweeper{
		target:    target,
		interval:  interval,
		scheduler: sched,
		logger:    logger.With(slog.String("component", "sweeper")),
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.run),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("schedule sweep: %w", err)
	}
	return s, nil
}

// Start begins running sweeps
func (s *Sweeper) Start() {
	s.scheduler.Start()
	s.logger.Info("sweeper started", slog.Duration("interval", s.interval))
}

// Stop halts the scheduler, waiting for a running sweep to finish
func (s *Sweeper) Stop() error {
	if err := s.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("shutdown scheduler: %w", err)
	}
	s.logger.Info("sweeper stopped")
	return nil
}

func (s *Sweeper) run() {
	if expired := s.target.Sweep(); expired > 0 {
		s.logger.Info("expired disconnected sessions", slog.Int("count", expired))
	}
}
