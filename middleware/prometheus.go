package middleware

import (
	"strconv"
	"time"

	"baby-namer/pkg/metrics"

	"github.com/gin-gonic/gin"
)

type PrometheusMiddleware struct {
	metrics *metrics.Metrics
}

func NewPrometheusMiddleware() *PrometheusMiddleware {
	return &PrometheusMiddleware{
		metrics: metrics.GetMetrics(),
	}
}

func (m *PrometheusMiddleware) Monitor() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		// 使用路由模板作为 label，未匹配的路由统一归到 unmatched
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		m.metrics.RequestsInFlight.WithLabelValues(route).Inc()

		c.Next()

		m.metrics.RequestsInFlight.WithLabelValues(route).Dec()

		duration := time.Since(startTime).Milliseconds()
		statusCode := strconv.Itoa(c.Writer.Status())

		m.metrics.RequestsTotal.WithLabelValues(route, statusCode).Inc()
		m.metrics.RequestDuration.WithLabelValues(route).Observe(float64(duration))
	}
}
