package database

import (
	"context"
	"fmt"

	"baby-namer/config"
	"baby-namer/pkg/kv"
	"baby-namer/pkg/logger"
	"baby-namer/repository"
	"baby-namer/service"

	"github.com/redis/go-redis/v9"
)

const callLogCollection = "namer_call_logs"

// DatabaseManager manages storage connections and repositories.
// MongoDB 与 Redis 均为可选：未配置 MongoDB 时不记录调用日志，未配置 Redis 时限流计数保存在进程内。
type DatabaseManager struct {
	MongoDB        *MongoDB
	Redis          *redis.Client
	Store          kv.Store
	CallLogRepo    repository.CallLogRepository
	CallLogService *service.CallLogService
}

// NewDatabaseManager creates a new database manager with all repositories
func NewDatabaseManager(cfg *config.Config) (*DatabaseManager, error) {
	dm := &DatabaseManager{}

	if cfg.Redis.Addr != "" {
		logger.Infof("Connecting to Redis: %s/%d", cfg.Redis.Addr, cfg.Redis.DB)
		client, err := NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			// 限流在存储不可用时放行，这里不阻止启动
			logger.Errorf("Redis not reachable, rate limiting will fail open until it recovers: %v", err)
		} else {
			logger.Info("Redis connection established successfully")
		}
		dm.Redis = client
		dm.Store = kv.NewRedisStore(client)
	} else {
		logger.Info("Redis not configured, using in-memory rate limit store")
		dm.Store = kv.NewMemoryStore()
	}

	if cfg.Database.URL != "" {
		logger.Infof("Connecting to MongoDB: %s", cfg.Database.DB)
		mongoDB, err := NewMongoDB(cfg.Database.URL, cfg.Database.DB)
		if err != nil {
			dm.closeRedis()
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		logger.Info("MongoDB connection established successfully")

		repo := repository.NewCallLogMongoRepository(mongoDB.GetCollection(callLogCollection))
		ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
		if err := repo.EnsureIndexes(ctx); err != nil {
			logger.Errorf("Failed to ensure call log indexes: %v", err)
		}
		cancel()

		dm.MongoDB = mongoDB
		dm.CallLogRepo = repo
		dm.CallLogService = service.NewCallLogService(repo)
	} else {
		logger.Info("MongoDB not configured, call logs will not be persisted")
	}

	return dm, nil
}

func (dm *DatabaseManager) closeRedis() {
	if dm.Redis != nil {
		if err := dm.Redis.Close(); err != nil {
			logger.Errorf("Error closing Redis connection: %v", err)
		}
	}
}

// Close closes all database connections
func (dm *DatabaseManager) Close(ctx context.Context) error {
	logger.Info("Closing database connections...")
	dm.closeRedis()

	if dm.MongoDB == nil {
		return nil
	}
	err := dm.MongoDB.Close(ctx)
	if err != nil {
		logger.Errorf("Error closing MongoDB connection: %v", err)
	} else {
		logger.Info("Database connections closed successfully")
	}
	return err
}
