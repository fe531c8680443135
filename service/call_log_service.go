package service

import (
	"context"
	"fmt"

	"baby-namer/model"
	"baby-namer/repository"
)

const (
	defaultLogPageSize = 20
	maxLogPageSize     = 100
)

// CallLogService 调用日志查询
type CallLogService struct {
	callLogRepo repository.CallLogRepository
}

func NewCallLogService(callLogRepo repository.CallLogRepository) *CallLogService {
	return &CallLogService{callLogRepo: callLogRepo}
}

// ListCallLogs 分页查询，limit 超出范围时取默认值或上限
func (s *CallLogService) ListCallLogs(ctx context.Context, clientKey string, offset, limit int) ([]*model.CallLog, error) {
	if offset < 0 {
		offset = 0
	}
	switch {
	case limit <= 0:
		limit = defaultLogPageSize
	case limit > maxLogPageSize:
		limit = maxLogPageSize
	}

	logs, err := s.callLogRepo.List(ctx, clientKey, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list call logs: %w", err)
	}
	return logs, nil
}
