package sweeper

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/mammothos/mamoart-backend/internal/adapter"
	"github.com/mammothos/mamoart-backend/internal/logger"
)

// Task is a unit of periodic work
type Task func(ctx context.Context) error

// PeriodicConfig holds configuration for a periodic sweeper
type PeriodicConfig struct {
	Name     string
	Interval time.Duration
	// RunImmediately runs the task once, synchronously, before the first tick
	RunImmediately bool
}

// periodicSweeper runs a task on a fixed interval.
// Runs never overlap: a tick that fires while the previous run is still in
// progress is skipped, not queued.
type periodicSweeper struct {
	config    *PeriodicConfig
	task      Task
	clock     adapter.Clock
	running   atomic.Bool
	busy      atomic.Bool
	inflight  sync.WaitGroup
	stopOnce  sync.Once
	stopChan  chan struct{}
	stoppedCh chan struct{}
}

// NewPeriodicSweeper creates a sweeper running task every config.Interval
func NewPeriodicSweeper(config *PeriodicConfig, clock adapter.Clock, task Task) Sweeper {
	return &periodicSweeper{
		config:    config,
		task:      task,
		clock:     clock,
		stopChan:  make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Name returns the sweeper's name
func (s *periodicSweeper) Name() string {
	return s.config.Name
}

// Start begins the sweeper's main loop
func (s *periodicSweeper) Start(ctx context.Context) error {
	if s.config.Interval <= 0 {
		return fmt.Errorf("%s: interval must be positive", s.config.Name)
	}
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("sweeper already running")
	}
	defer func() {
		s.inflight.Wait()
		s.running.Store(false)
		close(s.stoppedCh) // Signal that we've stopped
	}()

	logger.InfoCtx(ctx, "Starting sweeper",
		zap.String("name", s.config.Name),
		zap.Duration("interval", s.config.Interval),
	)

	if s.config.RunImmediately && s.busy.CompareAndSwap(false, true) {
		s.run(ctx)
	}

	ticker := s.clock.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Sweeper stopping due to context cancellation", zap.String("name", s.config.Name))
			return nil
		case <-s.stopChan:
			logger.InfoCtx(ctx, "Sweeper stop requested", zap.String("name", s.config.Name))
			return nil
		case <-ticker.C():
			s.dispatch(ctx)
		}
	}
}

// dispatch runs the task in the background unless a previous run is still in progress
func (s *periodicSweeper) dispatch(ctx context.Context) {
	if !s.busy.CompareAndSwap(false, true) {
		logger.DebugCtx(ctx, "Skipping tick, previous run still in progress", zap.String("name", s.config.Name))
		return
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		s.run(ctx)
	}()
}

// run executes the task once; the caller must hold the busy flag
func (s *periodicSweeper) run(ctx context.Context) {
	defer s.busy.Store(false)

	if err := s.task(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		logger.WarnCtx(ctx, "Sweeper run failed",
			zap.String("name", s.config.Name),
			zap.String("error", logger.Truncate(err)),
		)
	}
}

// Stop gracefully stops the sweeper with timeout support
func (s *periodicSweeper) Stop(ctx context.Context) error {
	if !s.running.Load() {
		return nil // Already stopped
	}

	logger.InfoCtx(ctx, "Stopping sweeper", zap.String("name", s.config.Name))

	// Signal stop to the main loop
	s.stopOnce.Do(func() { close(s.stopChan) })

	// Wait for main loop to exit, but respect context cancellation
	select {
	case <-s.stoppedCh:
		logger.InfoCtx(ctx, "Sweeper stopped gracefully", zap.String("name", s.config.Name))
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Sweeper stop interrupted by context timeout", zap.String("name", s.config.Name))
		return ctx.Err()
	}
}
