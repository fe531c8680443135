package handler

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"baby-namer/errors"
	"baby-namer/middleware"
	"baby-namer/model"
	"baby-namer/pkg/deepseek"
	"baby-namer/pkg/logger"
	"baby-namer/service"

	"github.com/gin-gonic/gin"
)

// NameHandler 取名接口
type NameHandler struct {
	generator service.NameGeneratorInterface
	limiter   service.RateLimiter // 未开启限流时为空
}

func NewNameHandler(generator service.NameGeneratorInterface, limiter service.RateLimiter) *NameHandler {
	return &NameHandler{
		generator: generator,
		limiter:   limiter,
	}
}

// Health 健康检查
func (h *NameHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GenerateNames POST /generate-names
func (h *NameHandler) GenerateNames(c *gin.Context) {
	var req model.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Infof("Invalid generate request from %s: %v", middleware.GetClientKey(c), err)
		errors.RespondWithError(c, http.StatusBadRequest, errors.NewInvalidBodyError())
		return
	}

	start := time.Now()
	result, err := h.generator.Generate(c.Request.Context(), &req)
	if err != nil {
		h.respondGenerateError(c, err)
		return
	}

	logger.Infof("Generated %d boy names and %d girl names for %s in %s",
		len(result.Names.BoyNames), len(result.Names.GirlNames), middleware.GetClientKey(c), time.Since(start))
	c.JSON(http.StatusOK, result)
}

// respondGenerateError 校验错误原样返回，其余错误只给出通用提示
func (h *NameHandler) respondGenerateError(c *gin.Context, err error) {
	var ve *service.ValidationError
	if stderrors.As(err, &ve) {
		errors.RespondWithError(c, http.StatusBadRequest, errors.NewValidationError(ve.Code, ve.Message))
		return
	}

	requestID := middleware.GetRequestID(c)
	switch {
	case stderrors.Is(err, deepseek.ErrMissingAPIKey):
		logger.Errorf("[%s] DeepSeek API key is not configured", requestID)
		errors.RespondWithError(c, http.StatusInternalServerError, errors.NewServiceUnavailableError())
	case stderrors.Is(err, service.ErrMalformedCompletion):
		logger.Errorf("[%s] Malformed completion: %v", requestID, err)
		errors.RespondWithError(c, http.StatusInternalServerError, errors.NewMalformedResponseError())
	case stderrors.Is(err, context.Canceled):
		logger.Infof("[%s] Client went away during generation", requestID)
		errors.RespondWithError(c, http.StatusInternalServerError, errors.NewUpstreamError())
	default:
		logger.Errorf("[%s] Name generation failed: %v", requestID, err)
		errors.RespondWithError(c, http.StatusInternalServerError, errors.NewUpstreamError())
	}
}

// RateLimitStatus GET /rate-limit，查询剩余次数，不占用额度
func (h *NameHandler) RateLimitStatus(c *gin.Context) {
	if h.limiter == nil {
		c.JSON(http.StatusOK, gin.H{"enabled": false})
		return
	}

	clientKey := middleware.GetClientKey(c)
	dec, err := h.limiter.Peek(c.Request.Context(), clientKey)
	if err != nil {
		logger.Errorf("Failed to read rate limit for %s: %v", clientKey, err)
	}

	body := gin.H{
		"enabled":   true,
		"policy":    h.limiter.Policy(),
		"allowed":   dec.Allowed,
		"remaining": dec.Remaining,
		"limit":     dec.Limit,
		"resetIn":   dec.ResetInSeconds(),
	}
	if !dec.ResetAt.IsZero() {
		body["resetAt"] = dec.ResetAt.UnixMilli()
	}
	c.JSON(http.StatusOK, body)
}
