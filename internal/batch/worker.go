package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/feedbacklab/review-insight/internal/platform/observability"
	"github.com/feedbacklab/review-insight/internal/platform/worker"
	db "github.com/feedbacklab/review-insight/internal/storage"
)

const backlogGaugeInterval = 30 * time.Second

// Queue is the task-queue persistence surface for the worker.
type Queue interface {
	ClaimNextBatchTask(ctx context.Context) (*db.BatchTask, error)
	CompleteBatchTask(ctx context.Context, taskID string, resultJSON []byte) error
	RescheduleBatchTask(ctx context.Context, taskID, errMsg string, retryAt time.Time) error
	FailBatchTask(ctx context.Context, taskID, errMsg string) error
	CountPendingBatchTasks(ctx context.Context) (int64, error)
}

// WorkerConfig bounds the retry behavior of the queue worker.
type WorkerConfig struct {
	PollInterval time.Duration
	MaxAttempts  int
	RetryDelay   time.Duration
}

// Worker polls the batch task queue, runs claimed batches through the
// Runner and stores the aggregate result. Systemic failures reschedule the
// whole batch with a fixed backoff up to MaxAttempts before the task is
// declared permanently failed. Tasks are claimed with FOR UPDATE SKIP
// LOCKED, so redelivery re-runs the batch deterministically; analysis rows
// are append-only and not deduplicated.
type Worker struct {
	cfg    WorkerConfig
	queue  Queue
	runner *Runner
	logger *zerolog.Logger
}

func NewWorker(cfg WorkerConfig, queue Queue, runner *Runner, logger *zerolog.Logger) *Worker {
	return &Worker{
		cfg:    cfg,
		queue:  queue,
		runner: runner,
		logger: logger,
	}
}

// Run blocks until the context is canceled.
func (w *Worker) Run(ctx context.Context) error {
	return worker.Loop(ctx, worker.Config{
		Name:         "batch-analyzer",
		PollInterval: w.cfg.PollInterval,
		Process:      w.processNext,
		PeriodicTasks: []worker.PeriodicTask{
			{
				Name:     "batch-backlog-gauge",
				Interval: backlogGaugeInterval,
				Run:      w.updateBacklogGauge,
			},
		},
		Logger: w.logger,
	})
}

// processNext claims and executes one due task. Returning nil when the queue
// is empty keeps the loop polling.
func (w *Worker) processNext(ctx context.Context) error {
	task, err := w.queue.ClaimNextBatchTask(ctx)
	if err != nil {
		return fmt.Errorf("claim batch task: %w", err)
	}

	if task == nil {
		return nil
	}

	w.logger.Info().
		Str("task_id", task.ID).
		Int("reviews", len(task.ReviewIDs)).
		Int("attempt", task.AttemptCount).
		Msg("processing batch task")

	result, runErr := w.runBatch(ctx, task)
	if runErr != nil {
		return w.handleSystemicFailure(ctx, task, runErr)
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return w.handleSystemicFailure(ctx, task, fmt.Errorf("marshal batch result: %w", err))
	}

	if err := w.queue.CompleteBatchTask(ctx, task.ID, resultJSON); err != nil {
		return fmt.Errorf("complete batch task %s: %w", task.ID, err)
	}

	observability.BatchTasksProcessed.WithLabelValues(db.TaskStatusDone).Inc()

	return nil
}

// runBatch contains whole-batch panics so they count as systemic failures
// eligible for retry rather than crashing the worker.
func (w *Worker) runBatch(ctx context.Context, task *db.BatchTask) (result Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("batch run panicked: %v", rec)
		}
	}()

	return w.runner.Run(ctx, task.ReviewIDs), nil
}

func (w *Worker) handleSystemicFailure(ctx context.Context, task *db.BatchTask, cause error) error {
	if task.AttemptCount >= w.cfg.MaxAttempts {
		w.logger.Error().Err(cause).
			Str("task_id", task.ID).
			Int("attempt", task.AttemptCount).
			Msg("batch task permanently failed")

		observability.BatchTasksProcessed.WithLabelValues(db.TaskStatusFailed).Inc()

		if err := w.queue.FailBatchTask(ctx, task.ID, cause.Error()); err != nil {
			return fmt.Errorf("fail batch task %s: %w", task.ID, err)
		}

		return nil
	}

	retryAt := time.Now().Add(w.cfg.RetryDelay)

	w.logger.Warn().Err(cause).
		Str("task_id", task.ID).
		Int("attempt", task.AttemptCount).
		Time("retry_at", retryAt).
		Msg("batch task failed, scheduling retry")

	if err := w.queue.RescheduleBatchTask(ctx, task.ID, cause.Error(), retryAt); err != nil {
		return fmt.Errorf("reschedule batch task %s: %w", task.ID, err)
	}

	return nil
}

func (w *Worker) updateBacklogGauge(ctx context.Context) {
	count, err := w.queue.CountPendingBatchTasks(ctx)
	if err != nil {
		w.logger.Warn().Err(err).Msg("backlog count failed")

		return
	}

	observability.BatchBacklog.Set(float64(count))
}
