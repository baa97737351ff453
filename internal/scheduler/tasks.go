// Package scheduler runs the retention sweep that purges soft-deleted leads
// after their recovery window, either through asynq workers or an in-process
// ticker when Redis is not configured.
package scheduler

import (
	"github.com/hibiken/asynq"
)

const TaskRetentionSweep = "leads.retention.sweep"

// NewRetentionSweepTask builds the sweep task. The payload is empty on
// purpose: asynq keys task uniqueness on type + payload, and every sweep in a
// uniqueness window must collapse into one task.
func NewRetentionSweepTask() *asynq.Task {
	return asynq.NewTask(TaskRetentionSweep, nil)
}
