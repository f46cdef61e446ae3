package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// BatchTask is one queued batch analysis job.
type BatchTask struct {
	ID           string
	ReviewIDs    []int64
	Status       string
	AttemptCount int
	Result       []byte
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SubmitBatchTask enqueues a batch of review ids for asynchronous analysis
// and returns the task id.
func (db *DB) SubmitBatchTask(ctx context.Context, reviewIDs []int64) (string, error) {
	var id uuid.UUID

	err := db.Pool.QueryRow(ctx, `
		INSERT INTO batch_tasks (review_ids)
		VALUES ($1)
		RETURNING id
	`, reviewIDs).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("submit batch task: %w", err)
	}

	return id.String(), nil
}

// ClaimNextBatchTask atomically picks the oldest due task, marks it
// processing and increments its attempt counter. Returns nil when no task is
// due.
func (db *DB) ClaimNextBatchTask(ctx context.Context) (*BatchTask, error) {
	var (
		task   BatchTask
		taskID uuid.UUID
	)

	err := db.Pool.QueryRow(ctx, `
		WITH picked AS (
			SELECT id
			FROM batch_tasks
			WHERE status IN ($1, $2)
			  AND (next_retry_at IS NULL OR next_retry_at <= now())
			ORDER BY created_at
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		UPDATE batch_tasks bt
		SET status = $3,
			attempt_count = bt.attempt_count + 1,
			updated_at = now()
		FROM picked
		WHERE bt.id = picked.id
		RETURNING bt.id, bt.review_ids, bt.attempt_count
	`, TaskStatusPending, TaskStatusRetrying, TaskStatusProcessing).Scan(
		&taskID,
		&task.ReviewIDs,
		&task.AttemptCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil //nolint:nilnil // nil,nil indicates no due batch task
		}

		return nil, fmt.Errorf("claim next batch task: %w", err)
	}

	task.ID = taskID.String()
	task.Status = TaskStatusProcessing

	return &task, nil
}

// CompleteBatchTask stores the aggregate result JSON and marks the task done.
func (db *DB) CompleteBatchTask(ctx context.Context, taskID string, resultJSON []byte) error {
	_, err := db.Pool.Exec(ctx, `
		UPDATE batch_tasks
		SET status = $2, result = $3, error_message = NULL, updated_at = now()
		WHERE id = $1
	`, taskID, TaskStatusDone, resultJSON)
	if err != nil {
		return fmt.Errorf("complete batch task: %w", err)
	}

	return nil
}

// RescheduleBatchTask records a systemic failure and schedules the next
// attempt.
func (db *DB) RescheduleBatchTask(ctx context.Context, taskID, errMsg string, retryAt time.Time) error {
	_, err := db.Pool.Exec(ctx, `
		UPDATE batch_tasks
		SET status = $2, error_message = $3, next_retry_at = $4, updated_at = now()
		WHERE id = $1
	`, taskID, TaskStatusRetrying, errMsg, toTimestamptz(retryAt))
	if err != nil {
		return fmt.Errorf("reschedule batch task: %w", err)
	}

	return nil
}

// FailBatchTask marks the task permanently failed after its retry budget is
// exhausted.
func (db *DB) FailBatchTask(ctx context.Context, taskID, errMsg string) error {
	_, err := db.Pool.Exec(ctx, `
		UPDATE batch_tasks
		SET status = $2, error_message = $3, next_retry_at = NULL, updated_at = now()
		WHERE id = $1
	`, taskID, TaskStatusFailed, errMsg)
	if err != nil {
		return fmt.Errorf("fail batch task: %w", err)
	}

	return nil
}

// GetBatchTask returns the task with the given id, or nil if unknown.
func (db *DB) GetBatchTask(ctx context.Context, taskID string) (*BatchTask, error) {
	parsed, err := uuid.Parse(taskID)
	if err != nil {
		return nil, nil //nolint:nilnil // malformed id is treated as unknown task
	}

	var (
		task   BatchTask
		id     uuid.UUID
		errMsg pgtype.Text
	)

	err = db.Pool.QueryRow(ctx, `
		SELECT id, review_ids, status, attempt_count, result, error_message, created_at, updated_at
		FROM batch_tasks
		WHERE id = $1
	`, parsed).Scan(
		&id,
		&task.ReviewIDs,
		&task.Status,
		&task.AttemptCount,
		&task.Result,
		&errMsg,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil //nolint:nilnil // nil,nil indicates unknown task
		}

		return nil, fmt.Errorf("get batch task: %w", err)
	}

	task.ID = id.String()
	task.ErrorMessage = errMsg.String

	return &task, nil
}

// CountPendingBatchTasks reports the current backlog size for metrics.
func (db *DB) CountPendingBatchTasks(ctx context.Context) (int64, error) {
	var count int64

	err := db.Pool.QueryRow(ctx, `
		SELECT count(*)
		FROM batch_tasks
		WHERE status IN ($1, $2)
	`, TaskStatusPending, TaskStatusRetrying).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count pending batch tasks: %w", err)
	}

	return count, nil
}
