package repository

import (
	"context"
	"fmt"

	"baby-namer/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CallLogMongoRepository implements CallLogRepository using MongoDB
type CallLogMongoRepository struct {
	collection *mongo.Collection
}

// NewCallLogMongoRepository creates a new MongoDB call log repository
func NewCallLogMongoRepository(collection *mongo.Collection) *CallLogMongoRepository {
	return &CallLogMongoRepository{
		collection: collection,
	}
}

// EnsureIndexes 按客户端和时间倒序查询
func (r *CallLogMongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "client_key", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create call log index: %w", err)
	}
	return nil
}

// Create creates a new call log entry
func (r *CallLogMongoRepository) Create(ctx context.Context, log *model.CallLog) error {
	if log.ID.IsZero() {
		log.ID = primitive.NewObjectID()
	}

	if _, err := r.collection.InsertOne(ctx, log); err != nil {
		return fmt.Errorf("failed to create call log: %w", err)
	}
	return nil
}

// List retrieves call logs with pagination
func (r *CallLogMongoRepository) List(ctx context.Context, clientKey string, offset, limit int) ([]*model.CallLog, error) {
	filter := bson.M{}
	if clientKey != "" {
		filter["client_key"] = clientKey
	}

	opts := options.Find()
	opts.SetSkip(int64(offset))
	opts.SetLimit(int64(limit))
	opts.SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list call logs: %w", err)
	}
	defer cursor.Close(ctx)

	logs := make([]*model.CallLog, 0, limit)
	for cursor.Next(ctx) {
		var log model.CallLog
		if err := cursor.Decode(&log); err != nil {
			return nil, fmt.Errorf("failed to decode call log: %w", err)
		}
		logs = append(logs, &log)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return logs, nil
}
