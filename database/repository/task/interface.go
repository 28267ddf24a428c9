package taskRepo

import (
	"calleroo/database"
	"calleroo/models"
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

type ScheduledTaskRepository interface {
	Create(ctx context.Context, task models.ScheduledTask) (string, error)
	GetByID(ctx context.Context, taskID string) (*models.ScheduledTask, error)
	GetByUserID(ctx context.Context, userID string) ([]models.ScheduledTask, error)
	UpdateStatus(ctx context.Context, taskID string, status models.TaskStatus, errMsg string) error
	AttachCall(ctx context.Context, taskID string, callID string) error
	DeleteByID(ctx context.Context, taskID string) error
}

type mongoTaskRepo struct {
	coll *mongo.Collection
}

// NewMongoTaskRepo returns a ScheduledTaskRepository backed by MongoDB.
func NewMongoTaskRepo() ScheduledTaskRepository {
	return &mongoTaskRepo{
		coll: database.Collection("scheduled_tasks"),
	}
}
