package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/autoclose-service/internal/domain"
)

// EngineRunner is the slice of the engine facade the scheduler needs.
type EngineRunner interface {
	Process(ctx context.Context) *domain.EngineResult
}

// SweepLock serializes sweeps across service instances.
type SweepLock interface {
	TryAcquire(ctx context.Context, token string) (bool, error)
	Release(ctx context.Context, token string) error
}

// Scheduler triggers a recurring auto-close sweep. Each tick takes the
// distributed run lock before calling Process; when another instance holds
// the lock the tick is skipped rather than queued.
type Scheduler struct {
	engine   EngineRunner
	lock     SweepLock
	interval time.Duration
	logger   *zap.Logger
}

// NewScheduler constructs the scheduler.
func NewScheduler(engine EngineRunner, lock SweepLock, interval time.Duration, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{engine: engine, lock: lock, interval: interval, logger: logger}
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("auto-close scheduler started", zap.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("auto-close scheduler stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep performs one lock-guarded engine pass.
func (s *Scheduler) Sweep(ctx context.Context) {
	token := uuid.NewString()
	acquired, err := s.lock.TryAcquire(ctx, token)
	if err != nil {
		s.logger.Error("run lock acquisition failed", zap.Error(err))
		return
	}
	if !acquired {
		s.logger.Info("sweep skipped, another instance holds the run lock")
		return
	}
	defer func() {
		if err := s.lock.Release(ctx, token); err != nil {
			s.logger.Warn("run lock release failed", zap.Error(err))
		}
	}()

	result := s.engine.Process(ctx)
	if len(result.Errors) > 0 {
		s.logger.Warn("sweep finished with errors",
			zap.String("run_id", result.RunID),
			zap.Strings("errors", result.Errors))
	}
}
