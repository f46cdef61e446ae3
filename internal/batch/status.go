package batch

import (
	"encoding/json"
	"fmt"

	db "github.com/feedbacklab/review-insight/internal/storage"
)

// TaskStatus is the externally visible state of one batch task.
type TaskStatus struct {
	TaskID  string  `json:"task_id"`
	Status  string  `json:"status"`
	Result  *Result `json:"result,omitempty"`
	Ready   bool    `json:"ready"`
	Success *bool   `json:"success,omitempty"`
}

// StatusFromTask maps a stored task row onto the status shape. Result and
// Success are only populated once the task reached a terminal state.
func StatusFromTask(task *db.BatchTask) (TaskStatus, error) {
	status := TaskStatus{
		TaskID: task.ID,
		Status: task.Status,
		Ready:  task.Status == db.TaskStatusDone || task.Status == db.TaskStatusFailed,
	}

	if status.Ready {
		success := task.Status == db.TaskStatusDone
		status.Success = &success
	}

	if len(task.Result) > 0 {
		var result Result
		if err := json.Unmarshal(task.Result, &result); err != nil {
			return TaskStatus{}, fmt.Errorf("unmarshal batch result: %w", err)
		}

		status.Result = &result
	}

	return status, nil
}
