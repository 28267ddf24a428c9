package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	taskRepo "calleroo/database/repository/task"
	"calleroo/models"
	"calleroo/utils"
)

// TaskService schedules calls for later execution. The task document lives
// in Mongo; asynq delivers the trigger at run time.
type TaskService interface {
	CreateTask(ctx context.Context, userID string, req models.CreateTaskRequest) (*models.TaskResponse, error)
	GetTask(ctx context.Context, taskID string) (*models.TaskResponse, error)
	ListTasks(ctx context.Context, userID string) (*models.TaskListResponse, error)
	CancelTask(ctx context.Context, taskID string) error
}

// Enqueuer is the slice of the asynq client the service needs.
// Satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type DefaultTaskService struct {
	repo  taskRepo.ScheduledTaskRepository
	queue Enqueuer
}

func NewTaskService(repo taskRepo.ScheduledTaskRepository, queue Enqueuer) *DefaultTaskService {
	return &DefaultTaskService{repo: repo, queue: queue}
}

func (s *DefaultTaskService) CreateTask(ctx context.Context, userID string, req models.CreateTaskRequest) (*models.TaskResponse, error) {
	if req.RunAt.Before(time.Now().UTC()) {
		return nil, fmt.Errorf("run_at must be in the future")
	}
	if req.Mode != models.TaskModeDirect && req.Mode != models.TaskModeBriefStart {
		return nil, fmt.Errorf("unknown task mode: %s", req.Mode)
	}
	if req.Mode == models.TaskModeDirect && req.Brief.CalleePhone == "" {
		return nil, fmt.Errorf("a direct task needs a callee phone in its brief")
	}

	now := time.Now().UTC()
	task := models.ScheduledTask{
		TaskID:    uuid.New().String(),
		UserID:    userID,
		Mode:      req.Mode,
		Status:    models.TaskStatusScheduled,
		Brief:     req.Brief,
		RunAt:     req.RunAt.UTC(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("store scheduled task: %w", err)
	}

	dispatch, opts, err := NewDispatchTask(task.TaskID, task.RunAt)
	if err != nil {
		return nil, fmt.Errorf("build dispatch task: %w", err)
	}
	if _, err := s.queue.EnqueueContext(ctx, dispatch, opts...); err != nil {
		return nil, fmt.Errorf("enqueue dispatch task: %w", err)
	}

	utils.GetLogger().Info("call scheduled",
		zap.String("taskID", task.TaskID),
		zap.String("mode", string(task.Mode)),
		zap.Time("runAt", task.RunAt))

	return &models.TaskResponse{Task: task}, nil
}

func (s *DefaultTaskService) GetTask(ctx context.Context, taskID string) (*models.TaskResponse, error) {
	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("task not found: %s", taskID)
	}
	return &models.TaskResponse{Task: *task}, nil
}

func (s *DefaultTaskService) ListTasks(ctx context.Context, userID string) (*models.TaskListResponse, error) {
	tasks, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.TaskListResponse{Tasks: tasks}, nil
}

// CancelTask marks a still-pending task canceled. The queue entry is left in
// place; the dispatch handler skips any task no longer SCHEDULED.
func (s *DefaultTaskService) CancelTask(ctx context.Context, taskID string) error {
	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if task == nil {
		return fmt.Errorf("task not found: %s", taskID)
	}
	if task.Status != models.TaskStatusScheduled {
		return fmt.Errorf("task %s is %s, only scheduled tasks can be canceled", taskID, task.Status)
	}
	return s.repo.UpdateStatus(ctx, taskID, models.TaskStatusCanceled, "")
}
