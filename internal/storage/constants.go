package db

import "time"

const (
	defaultMaxConns          = int32(10)
	defaultMinConns          = int32(2)
	defaultMaxConnIdleTime   = 5 * time.Minute
	defaultMaxConnLifetime   = time.Hour
	defaultHealthCheckPeriod = 30 * time.Second

	maxConnectionRetries = 10
	connectionRetrySleep = 2 * time.Second
)

// Batch task lifecycle states.
const (
	TaskStatusPending    = "pending"
	TaskStatusProcessing = "processing"
	TaskStatusRetrying   = "retrying"
	TaskStatusDone       = "done"
	TaskStatusFailed     = "failed"
)
