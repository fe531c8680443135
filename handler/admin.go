package handler

import (
	"net/http"
	"strconv"

	"baby-namer/errors"
	"baby-namer/pkg/logger"
	"baby-namer/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler handles admin operations
type AdminHandler struct {
	callLogService service.CallLogServiceInterface
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(callLogService service.CallLogServiceInterface) *AdminHandler {
	return &AdminHandler{
		callLogService: callLogService,
	}
}

// ListCallLogs 按客户端查询最近的取名调用记录
func (h *AdminHandler) ListCallLogs(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	client := c.Query("client")

	logs, err := h.callLogService.ListCallLogs(c.Request.Context(), client, offset, limit)
	if err != nil {
		logger.Errorf("Failed to list call logs: %v", err)
		errors.RespondWithError(c, http.StatusInternalServerError, errors.NewInternalError())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":   logs,
		"client": client,
		"offset": offset,
		"limit":  limit,
		"count":  len(logs),
	})
}
