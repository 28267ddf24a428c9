package callrecordRepo

import (
	"calleroo/database"
	"calleroo/models"
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

type CallRecordRepository interface {
	Create(ctx context.Context, record models.CallRecord) (string, error)
	GetByCallID(ctx context.Context, callID string) (*models.CallRecord, error)
	GetByUserID(ctx context.Context, userID string, limit int64) ([]models.CallRecord, error)
	UpdateStatus(ctx context.Context, callID string, status models.CallStatus) error
	SetResult(ctx context.Context, callID string, result models.CallResult) error
	AppendTranscript(ctx context.Context, callID string, entries []models.TranscriptEntry) error
	SetRecordingURL(ctx context.Context, callID string, url string) error
	DeleteByCallID(ctx context.Context, callID string) error
}

type mongoCallRecordRepo struct {
	coll *mongo.Collection
}

// NewMongoCallRecordRepo returns a CallRecordRepository backed by MongoDB.
func NewMongoCallRecordRepo() CallRecordRepository {
	return &mongoCallRecordRepo{
		coll: database.Collection("call_records"),
	}
}
