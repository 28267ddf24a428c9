package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TypeCallDispatch = "call:dispatch"

// DispatchPayload carries the task identity into the queue; everything else
// is loaded from Mongo when the task fires, so edits made after scheduling
// still apply.
type DispatchPayload struct {
	TaskID string `json:"taskId"`
}

func NewDispatchTask(taskID string, runAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(DispatchPayload{TaskID: taskID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeCallDispatch, b)
	opts := []asynq.Option{asynq.ProcessAt(runAt)}

	return task, opts, nil
}
