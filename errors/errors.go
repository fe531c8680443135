package errors

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// 错误码：前三位对应 HTTP 状态码
const (
	// 参数校验
	ErrInvalidBody         = 40001 // 请求体无法解析
	ErrMissingParents      = 40002 // 父母姓名缺失
	ErrInvalidGender       = 40003 // 未选择性别
	ErrInvalidBirthDate    = 40004 // 出生日期格式错误
	ErrExpectationTooLong  = 40005 // 特别期望超长
	ErrNameCountOutOfRange = 40006 // 名字数量超出范围

	ErrUnauthorized    = 40101 // 管理接口令牌缺失或错误
	ErrRequestTooLarge = 41301 // 请求体超出上限

	// 限流
	ErrRateLimitExceeded = 42901 // 调用频率超限

	// 服务端
	ErrServiceUnavailable = 50001 // 服务未就绪（缺少 API Key 等）
	ErrUpstreamError      = 50002 // 上游模型调用失败
	ErrMalformedResponse  = 50003 // 模型返回内容无法解析
	ErrInternal           = 50000
)

// APIError 对外错误响应，message 以 error 字段输出
type APIError struct {
	Code    int            `json:"code"`
	Message string         `json:"error"`
	Data    map[string]any `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("API Error %d: %s", e.Code, e.Message)
}

// Body 将 Data 平铺到响应体顶层
func (e *APIError) Body() gin.H {
	body := gin.H{
		"code":  e.Code,
		"error": e.Message,
	}
	for k, v := range e.Data {
		body[k] = v
	}
	return body
}

// NewAPIError creates a new API error
func NewAPIError(code int, message string, data map[string]any) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// RespondWithError 输出错误并终止后续处理
func RespondWithError(c *gin.Context, httpStatus int, apiError *APIError) {
	c.AbortWithStatusJSON(httpStatus, apiError.Body())
}

// 参数校验错误
func NewValidationError(code int, message string) *APIError {
	return NewAPIError(code, message, nil)
}

func NewInvalidBodyError() *APIError {
	return NewAPIError(ErrInvalidBody, "请求参数格式错误", nil)
}

func NewUnauthorizedError() *APIError {
	return NewAPIError(ErrUnauthorized, "未授权访问", nil)
}

func NewRequestTooLargeError() *APIError {
	return NewAPIError(ErrRequestTooLarge, "请求内容过大", nil)
}

// 限流错误，resetIn 单位为秒
func NewRateLimitExceededError(message string, resetIn, remaining, limit int) *APIError {
	return NewAPIError(ErrRateLimitExceeded, message, map[string]any{
		"resetIn":   resetIn,
		"remaining": remaining,
		"limit":     limit,
	})
}

// 服务端错误统一使用通用提示，不暴露内部细节
func NewServiceUnavailableError() *APIError {
	return NewAPIError(ErrServiceUnavailable, "服务暂时不可用，请稍后重试", nil)
}

func NewUpstreamError() *APIError {
	return NewAPIError(ErrUpstreamError, "名字生成服务暂时不可用，请稍后重试", nil)
}

func NewMalformedResponseError() *APIError {
	return NewAPIError(ErrMalformedResponse, "名字生成失败，请重试", nil)
}

func NewInternalError() *APIError {
	return NewAPIError(ErrInternal, "服务暂时不可用，请稍后重试", nil)
}
