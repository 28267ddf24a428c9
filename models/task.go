package models

import "time"

// TaskMode says what a scheduled task launches when it fires.
type TaskMode string

const (
	// TaskModeDirect dials immediately with a fully prepared brief.
	TaskModeDirect TaskMode = "DIRECT"
	// TaskModeBriefStart notifies the user to review the brief before dialing.
	TaskModeBriefStart TaskMode = "BRIEF_START"
)

// TaskStatus is the lifecycle of a scheduled call.
type TaskStatus string

const (
	TaskStatusScheduled TaskStatus = "SCHEDULED"
	TaskStatusRunning   TaskStatus = "RUNNING"
	TaskStatusCompleted TaskStatus = "COMPLETED"
	TaskStatusFailed    TaskStatus = "FAILED"
	TaskStatusCanceled  TaskStatus = "CANCELED"
)

// ScheduledTask is a call queued to run at a future time.
type ScheduledTask struct {
	TaskID    string     `json:"task_id" bson:"task_id"`
	UserID    string     `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Mode      TaskMode   `json:"mode" bson:"mode"`
	Status    TaskStatus `json:"status" bson:"status"`
	Brief     CallBrief  `json:"brief" bson:"brief"`
	RunAt     time.Time  `json:"run_at" bson:"run_at"`
	CallID    string     `json:"call_id,omitempty" bson:"call_id,omitempty"`
	Error     string     `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at"`
}

// CreateTaskRequest schedules a call for later.
type CreateTaskRequest struct {
	Mode  TaskMode  `json:"mode" binding:"required"`
	Brief CallBrief `json:"brief" binding:"required"`
	RunAt time.Time `json:"run_at" binding:"required"`
}

// TaskResponse is the client view of a scheduled task.
type TaskResponse struct {
	Task ScheduledTask `json:"task"`
}

// TaskListResponse lists a user's scheduled tasks.
type TaskListResponse struct {
	Tasks []ScheduledTask `json:"tasks"`
}
