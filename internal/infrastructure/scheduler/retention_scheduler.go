package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrSchedulerNotRunning is returned by TriggerImmediateCleanup before Start
	ErrSchedulerNotRunning = errors.New("retention scheduler is not running")
	ErrInvalidConfig       = errors.New("invalid retention configuration")
)

// DocumentCleaner removes stored documents older than a given age
type DocumentCleaner interface {
	CleanupOlderThan(ctx context.Context, age time.Duration) (int, error)
}

// RetentionSchedulerConfig holds configuration for the document retention scheduler
type RetentionSchedulerConfig struct {
	// RetentionDays is how long rendered documents are kept; 0 disables the scheduler
	RetentionDays int

	// CleanupHour is the hour (0-23) when the daily cleanup runs
	CleanupHour int

	// CleanupTimeout is the maximum time for a cleanup run
	CleanupTimeout time.Duration
}

// DefaultRetentionSchedulerConfig returns default configuration
func DefaultRetentionSchedulerConfig() RetentionSchedulerConfig {
	return RetentionSchedulerConfig{
		RetentionDays:  30,
		CleanupHour:    3, // 3 AM, outside the dispatch window
		CleanupTimeout: 15 * time.Minute,
	}
}

// Validate checks the configuration
func (c RetentionSchedulerConfig) Validate() error {
	if c.RetentionDays < 0 {
		return fmt.Errorf("%w: retention days cannot be negative", ErrInvalidConfig)
	}
	if c.CleanupHour < 0 || c.CleanupHour > 23 {
		return fmt.Errorf("%w: cleanup hour must be between 0 and 23", ErrInvalidConfig)
	}
	return nil
}

// RetentionScheduler deletes rendered label/invoice PDFs once a day
type RetentionScheduler struct {
	cleaner   DocumentCleaner
	logger    *zap.Logger
	config    RetentionSchedulerConfig
	now       func() time.Time
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewRetentionScheduler creates a new retention scheduler
func NewRetentionScheduler(cleaner DocumentCleaner, logger *zap.Logger, config RetentionSchedulerConfig) (*RetentionScheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.CleanupTimeout <= 0 {
		config.CleanupTimeout = DefaultRetentionSchedulerConfig().CleanupTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetentionScheduler{
		cleaner: cleaner,
		logger:  logger.Named("retention"),
		config:  config,
		now:     time.Now,
	}, nil
}

// Start starts the daily cleanup loop. A zero retention leaves the scheduler idle.
func (s *RetentionScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if s.config.RetentionDays == 0 || s.cleaner == nil {
		s.mu.Unlock()
		s.logger.Info("Document retention scheduler is disabled")
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runDailyCleanup(ctx)

	s.logger.Info("Document retention scheduler started",
		zap.Int("retention_days", s.config.RetentionDays),
		zap.Int("cleanup_hour", s.config.CleanupHour),
	)
	return nil
}

// Stop gracefully stops the scheduler
func (s *RetentionScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Document retention scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Document retention scheduler stop timed out")
		return ctx.Err()
	}
}

// nextRun returns the next cleanup time strictly after now
func (s *RetentionScheduler) nextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.config.CleanupHour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (s *RetentionScheduler) runDailyCleanup(ctx context.Context) {
	defer s.wg.Done()

	for {
		next := s.nextRun(s.now())
		delay := time.Until(next)

		s.logger.Debug("Document cleanup scheduled",
			zap.Time("next_run", next),
			zap.Duration("delay", delay),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.executeCleanup(ctx)
		}
	}
}

// executeCleanup runs one cleanup pass and returns how many documents were removed
func (s *RetentionScheduler) executeCleanup(ctx context.Context) int {
	cleanupCtx, cancel := context.WithTimeout(ctx, s.config.CleanupTimeout)
	defer cancel()

	age := time.Duration(s.config.RetentionDays) * 24 * time.Hour
	startTime := time.Now()
	deleted, err := s.cleaner.CleanupOlderThan(cleanupCtx, age)
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("Document cleanup failed",
			zap.Duration("duration", duration),
			zap.Int("deleted_count", deleted),
			zap.Error(err),
		)
		return deleted
	}

	s.logger.Info("Document cleanup completed",
		zap.Duration("duration", duration),
		zap.Int("deleted_count", deleted),
	)
	return deleted
}

// TriggerImmediateCleanup runs a cleanup pass in the background
func (s *RetentionScheduler) TriggerImmediateCleanup(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		s.executeCleanup(ctx)
	}()
	return nil
}

// IsRunning returns whether the scheduler is running
func (s *RetentionScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}
