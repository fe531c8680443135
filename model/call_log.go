package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CallLog 一次取名接口调用的记录
type CallLog struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RequestID    string             `json:"request_id" bson:"request_id"`
	ClientKey    string             `json:"client_key" bson:"client_key"` // 限流使用的客户端标识（IP）
	Path         string             `json:"path" bson:"path"`
	Status       int                `json:"status" bson:"status"`                         // HTTP状态码
	Duration     int64              `json:"duration" bson:"duration"`                     // 响应时间(ms)
	RequestBody  string             `json:"request_body" bson:"request_body,omitempty"`   // 请求参数
	ResponseBody string             `json:"response_body" bson:"response_body,omitempty"` // 响应内容
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}

// NewCallLog creates a new call log entry
func NewCallLog(requestID, clientKey, path string, status int, duration int64, requestBody, responseBody string) *CallLog {
	return &CallLog{
		RequestID:    requestID,
		ClientKey:    clientKey,
		Path:         path,
		Status:       status,
		Duration:     duration,
		RequestBody:  requestBody,
		ResponseBody: responseBody,
		CreatedAt:    time.Now(),
	}
}

// Succeeded 是否为成功调用
func (l *CallLog) Succeeded() bool {
	return l.Status >= 200 && l.Status < 300
}
