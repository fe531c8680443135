package middleware

import (
	"bytes"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"baby-namer/errors"
	"baby-namer/model"
	"baby-namer/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/zeromicro/go-zero/core/logx"
)

const (
	// 请求体与响应体入库前的截断长度
	maxLoggedBody = 16 << 10
	// 取名表单的请求体上限
	maxRequestBody = 64 << 10
)

// CallLogRecorder 异步保存调用日志，由 worker.WorkerPool 实现
type CallLogRecorder interface {
	Submit(log *model.CallLog) bool
}

// LoggingMiddleware 调用日志记录中间件
type LoggingMiddleware struct {
	recorder CallLogRecorder
}

// NewLoggingMiddleware 创建调用日志记录中间件，recorder 为空时只输出日志不入库
func NewLoggingMiddleware(recorder CallLogRecorder) *LoggingMiddleware {
	return &LoggingMiddleware{
		recorder: recorder,
	}
}

// loggingResponseWriter 包装gin.ResponseWriter以捕获响应状态码和内容
type loggingResponseWriter struct {
	gin.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func newLoggingResponseWriter(w gin.ResponseWriter) *loggingResponseWriter {
	return &loggingResponseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
		body:           bytes.NewBuffer(nil),
	}
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(data []byte) (int, error) {
	if lrw.body.Len() < maxLoggedBody {
		lrw.body.Write(data)
	}
	return lrw.ResponseWriter.Write(data)
}

func (lrw *loggingResponseWriter) WriteString(s string) (int, error) {
	if lrw.body.Len() < maxLoggedBody {
		lrw.body.WriteString(s)
	}
	return lrw.ResponseWriter.WriteString(s)
}

// LogAPICall 记录API调用日志
func (l *LoggingMiddleware) LogAPICall() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		requestBody := ""
		if c.Request.Body != nil {
			bodyBytes, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBody))
			if err != nil {
				logger.Infof("Rejected request body from %s: %v", GetClientKey(c), err)
				errors.RespondWithError(c, http.StatusRequestEntityTooLarge, errors.NewRequestTooLargeError())
				return
			}
			requestBody = clip(string(bodyBytes))
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		lrw := newLoggingResponseWriter(c.Writer)
		c.Writer = lrw

		c.Next()

		duration := time.Since(startTime).Milliseconds()
		callLog := model.NewCallLog(
			GetRequestID(c),
			GetClientKey(c),
			c.Request.URL.Path,
			lrw.statusCode,
			duration,
			requestBody,
			clip(lrw.body.String()),
		)

		fields := []logx.LogField{
			logger.Field("request_id", callLog.RequestID),
			logger.Field("client", callLog.ClientKey),
			logger.Field("path", callLog.Path),
			logger.Field("status", callLog.Status),
			logger.Field("duration_ms", callLog.Duration),
		}
		if callLog.Succeeded() {
			logger.Infow("API call", fields...)
		} else {
			logger.Errorw("API call failed", fields...)
		}

		if l.recorder != nil {
			l.recorder.Submit(callLog)
		}
	}
}

// clip 截断到 maxLoggedBody 字节以内，不切开多字节字符
func clip(s string) string {
	if len(s) <= maxLoggedBody {
		return s
	}
	cut := maxLoggedBody
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
