// Package worker provides a generic poll-loop abstraction for background
// processing: context cancellation, periodic side tasks and error recovery.
package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// ProcessFunc is called each iteration to process work items. It should
// return quickly if no work is available.
type ProcessFunc func(ctx context.Context) error

// PeriodicTask represents a task that runs at regular intervals alongside
// the main loop.
type PeriodicTask struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context)
	lastRun  time.Time
}

// Config configures the worker loop behavior.
type Config struct {
	// Name identifies the worker for logging.
	Name string

	// PollInterval is the time between process iterations.
	PollInterval time.Duration

	// Process is called each iteration to do the main work.
	Process ProcessFunc

	// PeriodicTasks are run at their configured intervals.
	PeriodicTasks []PeriodicTask

	// OnError is called when Process returns an error.
	// Return true to continue, false to exit the loop.
	OnError func(err error) bool

	// Logger for the worker.
	Logger *zerolog.Logger
}

// Loop runs a worker loop with the given configuration until the context is
// canceled or OnError asks to stop. Returns ctx.Err() on cancellation.
func Loop(ctx context.Context, cfg Config) error {
	logger := cfg.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	logger.Info().Str("worker", cfg.Name).Msg("starting worker loop")

	defer logger.Info().Str("worker", cfg.Name).Msg("worker loop stopped")

	periodicTasks := make([]PeriodicTask, len(cfg.PeriodicTasks))
	copy(periodicTasks, cfg.PeriodicTasks)

	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		for i := range periodicTasks {
			task := &periodicTasks[i]
			if time.Since(task.lastRun) >= task.Interval {
				task.Run(ctx)
				task.lastRun = time.Now()
			}
		}

		if err := cfg.Process(ctx); err != nil {
			logger.Error().Err(err).Str("worker", cfg.Name).Msg("process iteration failed")

			if cfg.OnError != nil && !cfg.OnError(err) {
				return err
			}
		}
	}
}
