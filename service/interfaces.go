package service

import (
	"context"

	"baby-namer/model"
	"baby-namer/pkg/deepseek"
)

// Completer 对话模型
type Completer interface {
	Complete(ctx context.Context, req deepseek.ChatRequest) (string, error)
}

// NameGeneratorInterface 取名服务
type NameGeneratorInterface interface {
	Generate(ctx context.Context, req *model.NameRequest) (*model.GenerationResult, error)
}

// CallLogServiceInterface 调用日志查询
type CallLogServiceInterface interface {
	ListCallLogs(ctx context.Context, clientKey string, offset, limit int) ([]*model.CallLog, error)
}
