package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"baby-namer/config"
	"baby-namer/errors"
	"baby-namer/pkg/logger"
	"baby-namer/pkg/metrics"
	"baby-namer/service"

	"github.com/gin-gonic/gin"
)

// ContextKeyClient 上下文中保存客户端标识的 key
const ContextKeyClient = "client_key"

// ClientIP 依次取 CF-Connecting-IP、X-Real-IP、X-Forwarded-For 第一跳，都没有时返回 unknown
func ClientIP(r *http.Request) string {
	if ip := strings.TrimSpace(r.Header.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	return "unknown"
}

// GetClientKey 返回本次请求的客户端标识
func GetClientKey(c *gin.Context) string {
	if v, ok := c.Get(ContextKeyClient); ok {
		if key, ok := v.(string); ok {
			return key
		}
	}
	key := ClientIP(c.Request)
	c.Set(ContextKeyClient, key)
	return key
}

// RateLimitMiddleware 限流中间件
type RateLimitMiddleware struct {
	limiter service.RateLimiter
	metrics *metrics.Metrics
}

// NewRateLimitMiddleware 创建限流中间件
func NewRateLimitMiddleware(limiter service.RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
		metrics: metrics.GetMetrics(),
	}
}

// RateLimit 限流处理函数，存储不可用时放行
func (rl *RateLimitMiddleware) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientKey := GetClientKey(c)
		policy := rl.limiter.Policy()

		dec, err := rl.limiter.CheckAndRecord(c.Request.Context(), clientKey)
		if err != nil {
			logger.Errorf("Rate limit store unavailable for client %s, allowing request: %v", clientKey, err)
			rl.metrics.RateLimitDecisions.WithLabelValues(policy, "fail_open").Inc()
			c.Next()
			return
		}

		if !dec.Allowed {
			resetIn := dec.ResetInSeconds()
			logger.Infof("Rate limit exceeded for client %s (policy: %s, limit: %d)", clientKey, policy, dec.Limit)
			rl.metrics.RateLimitDecisions.WithLabelValues(policy, "denied").Inc()

			c.Header("Retry-After", strconv.Itoa(resetIn))
			errors.RespondWithError(c, http.StatusTooManyRequests,
				errors.NewRateLimitExceededError(denyMessage(policy, dec.Limit, resetIn), resetIn, 0, dec.Limit))
			return
		}

		rl.metrics.RateLimitDecisions.WithLabelValues(policy, "allowed").Inc()
		WriteRateLimitHeaders(c, dec)
		logger.Debugf("Rate limit check passed for client %s, remaining %d", clientKey, dec.Remaining)
		c.Next()
	}
}

// WriteRateLimitHeaders X-RateLimit-Reset 为毫秒时间戳
func WriteRateLimitHeaders(c *gin.Context, dec service.Decision) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(dec.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(dec.Remaining))
	if !dec.ResetAt.IsZero() {
		c.Header("X-RateLimit-Reset", strconv.FormatInt(dec.ResetAt.UnixMilli(), 10))
	}
}

func denyMessage(policy string, limit, resetIn int) string {
	if policy != config.PolicyDaily {
		return fmt.Sprintf("请求过于频繁，请在%d秒后重试", resetIn)
	}

	minutes := (resetIn + 59) / 60
	hours, minutes := minutes/60, minutes%60
	wait := fmt.Sprintf("%d分钟", minutes)
	if hours > 0 {
		wait = fmt.Sprintf("%d小时%s", hours, wait)
	}
	return fmt.Sprintf("今日取名次数已用完（%d次/天），请在%s后重试。", limit, wait)
}
