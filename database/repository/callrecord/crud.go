package callrecordRepo

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

// Create inserts an archived call record and returns its call ID.
func (r *mongoCallRecordRepo) Create(ctx context.Context, record models.CallRecord) (string, error) {
	if record.CallID == "" {
		record.CallID = uuid.New().String()
	}
	if record.StartedAt.IsZero() {
		record.StartedAt = time.Now()
	}

	_, err := r.coll.InsertOne(ctx, record)
	if err != nil {
		return "", err
	}
	return record.CallID, nil
}

// GetByCallID returns one archived call by its call ID, or nil when none
// exists.
func (r *mongoCallRecordRepo) GetByCallID(ctx context.Context, callID string) (*models.CallRecord, error) {
	var record models.CallRecord
	err := r.coll.FindOne(ctx, bson.M{"call_id": callID}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetByUserID fetches a user's call history, newest first.
func (r *mongoCallRecordRepo) GetByUserID(ctx context.Context, userID string, limit int64) ([]models.CallRecord, error) {
	opts := options.Find().SetSort(bson.M{"started_at": -1})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.CallRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// UpdateStatus moves a call to a new lifecycle status.
func (r *mongoCallRecordRepo) UpdateStatus(ctx context.Context, callID string, status models.CallStatus) error {
	update := bson.M{"$set": bson.M{"status": status}}
	switch status {
	case models.CallStatusCompleted, models.CallStatusFailed,
		models.CallStatusBusy, models.CallStatusNoAnswer, models.CallStatusCanceled:
		update = bson.M{"$set": bson.M{"status": status, "ended_at": time.Now()}}
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"call_id": callID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.New("call record not found")
	}
	return nil
}

// SetResult attaches the post-call outcome summary.
func (r *mongoCallRecordRepo) SetResult(ctx context.Context, callID string, result models.CallResult) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"call_id": callID}, bson.M{"$set": bson.M{"result": result}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.New("call record not found")
	}
	return nil
}

// AppendTranscript adds utterances to the stored transcript.
func (r *mongoCallRecordRepo) AppendTranscript(ctx context.Context, callID string, entries []models.TranscriptEntry) error {
	if len(entries) == 0 {
		return nil
	}
	_, err := r.coll.UpdateOne(ctx, bson.M{"call_id": callID},
		bson.M{"$push": bson.M{"transcript": bson.M{"$each": entries}}})
	return err
}

// SetRecordingURL stores the recording location reported by the voice provider.
func (r *mongoCallRecordRepo) SetRecordingURL(ctx context.Context, callID string, url string) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"call_id": callID},
		bson.M{"$set": bson.M{"recording_url": url}})
	return err
}

// DeleteByCallID removes an archived call record.
func (r *mongoCallRecordRepo) DeleteByCallID(ctx context.Context, callID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"call_id": callID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errors.New("call record not found")
	}
	return nil
}
