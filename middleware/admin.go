package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"baby-namer/errors"
	"baby-namer/pkg/logger"

	"github.com/gin-gonic/gin"
)

const HeaderAdminToken = "X-Admin-Token"

// AdminAuth 校验管理令牌，支持 X-Admin-Token 或 Authorization: Bearer
func AdminAuth(token string) gin.HandlerFunc {
	expected := []byte(token)
	return func(c *gin.Context) {
		got := c.GetHeader(HeaderAdminToken)
		if got == "" {
			got = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}
		if token == "" || subtle.ConstantTimeCompare([]byte(got), expected) != 1 {
			logger.Infof("Rejected admin request from %s", ClientIP(c.Request))
			errors.RespondWithError(c, http.StatusUnauthorized, errors.NewUnauthorizedError())
			return
		}
		c.Next()
	}
}
