package taskRepo

import (
	"calleroo/models"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new scheduled task and returns its ID.
func (r *mongoTaskRepo) Create(ctx context.Context, task models.ScheduledTask) (string, error) {
	if task.TaskID == "" {
		task.TaskID = uuid.New().String()
	}
	if task.Status == "" {
		task.Status = models.TaskStatusScheduled
	}
	task.CreatedAt = time.Now()
	task.UpdatedAt = time.Now()

	_, err := r.coll.InsertOne(ctx, task)
	if err != nil {
		return "", err
	}
	return task.TaskID, nil
}

// GetByID returns a scheduled task by its ID, or nil when none exists.
// Callers rely on the nil result to skip tasks deleted before fire time.
func (r *mongoTaskRepo) GetByID(ctx context.Context, taskID string) (*models.ScheduledTask, error) {
	var task models.ScheduledTask
	err := r.coll.FindOne(ctx, bson.M{"task_id": taskID}).Decode(&task)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// GetByUserID fetches a user's scheduled tasks, soonest first.
func (r *mongoTaskRepo) GetByUserID(ctx context.Context, userID string) ([]models.ScheduledTask, error) {
	opts := options.Find().SetSort(bson.M{"run_at": 1})
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []models.ScheduledTask
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateStatus moves a task to a new lifecycle status.
func (r *mongoTaskRepo) UpdateStatus(ctx context.Context, taskID string, status models.TaskStatus, errMsg string) error {
	set := bson.M{"status": status, "updated_at": time.Now()}
	if errMsg != "" {
		set["error"] = errMsg
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"task_id": taskID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.New("task not found")
	}
	return nil
}

// AttachCall links the launched call to its originating task.
func (r *mongoTaskRepo) AttachCall(ctx context.Context, taskID string, callID string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"task_id": taskID},
		bson.M{"$set": bson.M{"call_id": callID, "updated_at": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.New("task not found")
	}
	return nil
}

// DeleteByID removes a scheduled task.
func (r *mongoTaskRepo) DeleteByID(ctx context.Context, taskID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"task_id": taskID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errors.New("task not found")
	}
	return nil
}
