package repository

import (
	"context"

	"baby-namer/model"
)

// CallLogRepository defines the interface for call log operations
type CallLogRepository interface {
	// Create creates a new call log entry
	Create(ctx context.Context, log *model.CallLog) error

	// List retrieves call logs newest first, filtered by client key when it is not empty
	List(ctx context.Context, clientKey string, offset, limit int) ([]*model.CallLog, error)
}
