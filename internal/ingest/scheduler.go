package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/TomasPinedaNaranjo/TomasOceanicPruebaTecnica/internal/observability"
)

// Runner is a single ingest run.
type Runner interface {
	Run(ctx context.Context) (Result, error)
}

// Scheduler runs ingest periodically. Runs never overlap.
type Scheduler struct {
	scheduler *gocron.Scheduler
	runner    Runner
	interval  time.Duration
	logger    *zap.Logger
	cancel    context.CancelFunc
}

// NewScheduler creates a Scheduler that runs runner every interval.
func NewScheduler(runner Runner, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		runner:    runner,
		interval:  interval,
		logger:    observability.OrNop(logger),
	}
}

// Start registers the job, runs it immediately and then every interval.
// Runs receive a context derived from ctx that is cancelled by Stop.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.interval <= 0 {
		return errors.New("scheduler: interval must be positive")
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	_, err := s.scheduler.Every(s.interval).StartImmediately().SingletonMode().Do(func() {
		s.logger.Info("scheduled ingest starting")
		if _, err := s.runner.Run(runCtx); err != nil {
			s.logger.Error("scheduled ingest failed", zap.Error(err))
		}
	})
	if err != nil {
		cancel()
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info("scheduler started", zap.Duration("interval", s.interval))
	return nil
}

// Stop cancels any in-flight run and stops future ones.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	s.logger.Info("scheduler stopped")
}
