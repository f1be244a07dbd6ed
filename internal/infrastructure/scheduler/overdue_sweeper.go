package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/quotevoice/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ErrInvalidConfig is returned by NewOverdueSweeper for unusable settings
var ErrInvalidConfig = errors.New("invalid scheduler configuration")

// OverdueChecker flips sent invoices past their due date to overdue
type OverdueChecker interface {
	CheckOverdueInvoices(ctx context.Context, now time.Time) (int64, error)
}

// OverdueSweeper periodically runs the overdue check
type OverdueSweeper struct {
	checker OverdueChecker
	logger  *zap.Logger
	config  config.SchedulerConfig
	now     func() time.Time

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	lastRun   time.Time
	lastCount int64
}

// NewOverdueSweeper creates a new sweeper. The interval and job timeout must be positive.
func NewOverdueSweeper(checker OverdueChecker, cfg config.SchedulerConfig, logger *zap.Logger) (*OverdueSweeper, error) {
	if checker == nil {
		return nil, fmt.Errorf("%w: checker is required", ErrInvalidConfig)
	}
	if cfg.OverdueInterval <= 0 || cfg.JobTimeout <= 0 {
		return nil, fmt.Errorf("%w: interval and job timeout must be positive", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OverdueSweeper{
		checker: checker,
		logger:  logger,
		config:  cfg,
		now:     time.Now,
	}, nil
}

// Start launches the sweep loop. A sweep runs immediately, then every interval.
func (s *OverdueSweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.OverdueEnabled {
		s.mu.Unlock()
		s.logger.Info("Overdue sweeper is disabled")
		return nil
	}
	s.isRunning = true
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	go s.loop(ctx)

	s.logger.Info("Overdue sweeper started",
		zap.Duration("interval", s.config.OverdueInterval),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)
	return nil
}

// Stop cancels the loop and waits for an in-flight sweep to finish
func (s *OverdueSweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Overdue sweeper stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Overdue sweeper stop timed out")
		return ctx.Err()
	}
}

// IsRunning returns whether the sweep loop is active
func (s *OverdueSweeper) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// LastRun returns the time and affected count of the last successful sweep
func (s *OverdueSweeper) LastRun() (time.Time, int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun, s.lastCount
}

// RunOnce performs a single sweep bounded by the job timeout
func (s *OverdueSweeper) RunOnce(ctx context.Context) (int64, error) {
	runCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	started := s.now()
	count, err := s.checker.CheckOverdueInvoices(runCtx, started)
	duration := time.Since(started)
	if err != nil {
		s.logger.Error("Overdue sweep failed",
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return 0, err
	}

	s.mu.Lock()
	s.lastRun = started
	s.lastCount = count
	s.mu.Unlock()

	if count > 0 {
		s.logger.Info("Overdue sweep completed",
			zap.Int64("marked_overdue", count),
			zap.Duration("duration", duration),
		)
	} else {
		s.logger.Debug("Overdue sweep found nothing to update", zap.Duration("duration", duration))
	}
	return count, nil
}

func (s *OverdueSweeper) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.OverdueInterval)
	defer ticker.Stop()

	for {
		// errors are logged by RunOnce; the next tick retries
		_, _ = s.RunOnce(ctx)

		select {
		case <-ctx.Done():
			s.logger.Debug("Overdue sweep loop stopping")
			return
		case <-ticker.C:
		}
	}
}
