package router

import (
	"time"

	"baby-namer/config"
	"baby-namer/handler"
	"baby-namer/middleware"
	"baby-namer/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies 路由依赖，可选组件为空时对应功能不启用
type Dependencies struct {
	Generator  service.NameGeneratorInterface
	Limiter    service.RateLimiter             // 未开启限流时为空
	CallLogs   service.CallLogServiceInterface // 未配置 MongoDB 时为空
	Recorder   middleware.CallLogRecorder      // 未配置 MongoDB 时为空
	AdminToken string                          // 为空时不挂载管理接口
}

func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{
			"Content-Length",
			"Retry-After",
			"X-RateLimit-Limit",
			"X-RateLimit-Remaining",
			"X-RateLimit-Reset",
			middleware.HeaderRequestID,
		},
		MaxAge: 600 * time.Second,
	}))
	r.Use(middleware.NewPrometheusMiddleware().Monitor())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	nameHandler := handler.NewNameHandler(deps.Generator, deps.Limiter)
	loggingMiddleware := middleware.NewLoggingMiddleware(deps.Recorder)

	api := r.Group(cfg.BasePath)
	{
		api.GET("/health", nameHandler.Health)
		api.GET("/rate-limit", nameHandler.RateLimitStatus)

		generate := api.Group("")
		generate.Use(loggingMiddleware.LogAPICall())
		if deps.Limiter != nil {
			generate.Use(middleware.NewRateLimitMiddleware(deps.Limiter).RateLimit())
		}
		generate.POST("/generate-names", nameHandler.GenerateNames)
	}

	if deps.CallLogs != nil && deps.AdminToken != "" {
		adminHandler := handler.NewAdminHandler(deps.CallLogs)
		admin := r.Group("/admin")
		admin.Use(middleware.AdminAuth(deps.AdminToken))
		{
			admin.GET("/logs", adminHandler.ListCallLogs)
		}
	}

	return r
}
