package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"baby-namer/config"
	"baby-namer/database"
	"baby-namer/pkg/deepseek"
	"baby-namer/pkg/logger"
	"baby-namer/pkg/worker"
	"baby-namer/router"
	"baby-namer/service"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Errorf("Failed to load config: %v", err)
		os.Exit(1)
	}

	logger.Init(logger.Config{
		ServiceName: "baby-namer",
		Mode:        cfg.Log.Mode,
		Level:       cfg.Log.Level,
		Encoding:    cfg.Log.Encoding,
	})
	defer logger.Close()

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	dbManager, err := database.NewDatabaseManager(cfg)
	if err != nil {
		logger.Errorf("Failed to initialize database: %v", err)
		os.Exit(1)
	}

	deps := router.Dependencies{
		Generator: service.NewGenerator(deepseek.NewClient(cfg.Upstream), cfg.Generation),
	}

	if cfg.RateLimit.Enabled {
		limiter, err := service.NewRateLimiter(cfg.RateLimit, dbManager.Store)
		if err != nil {
			logger.Errorf("Failed to create rate limiter: %v", err)
			os.Exit(1)
		}
		deps.Limiter = limiter
		logger.Infof("Rate limiting enabled, policy: %s", limiter.Policy())
	}

	var logWorkers *worker.WorkerPool
	if dbManager.CallLogRepo != nil {
		logWorkers = worker.NewWorkerPool(cfg.CallLog.Workers, cfg.CallLog.QueueSize, dbManager.CallLogRepo)
		logWorkers.Start()
		deps.Recorder = logWorkers
		deps.CallLogs = dbManager.CallLogService

		deps.AdminToken = os.Getenv(cfg.Admin.TokenEnv)
		if deps.AdminToken == "" {
			logger.Infof("%s is not set, admin endpoints are disabled", cfg.Admin.TokenEnv)
		}
	}

	if os.Getenv(cfg.Upstream.APIKeyEnv) == "" {
		logger.Errorf("%s is not set, name generation will fail until it is provided", cfg.Upstream.APIKeyEnv)
	}

	r := router.SetupRouter(cfg, deps)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}
	logger.Infof("Baby namer starting on port %d", cfg.Port)
	logger.Infof("Config loaded - Upstream: %s, Model: %s, BasePath: %q", cfg.Upstream.BaseURL, cfg.Upstream.Model, cfg.BasePath)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Failed to start server: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// 取名请求可能持续数十秒，给正在处理的请求留出时间
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	if logWorkers != nil {
		logWorkers.Stop()
	}

	if err := dbManager.Close(ctx); err != nil {
		logger.Errorf("Error closing database: %v", err)
	}

	logger.Info("Server exited")
}
