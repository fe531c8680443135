// Package worker 后台批量写入调用日志，避免在请求路径上等待 MongoDB。
package worker

import (
	"context"
	"sync"
	"time"

	"baby-namer/model"
	"baby-namer/pkg/logger"
	"baby-namer/repository"
)

type WorkerPool struct {
	workerCount int
	logs        chan *model.CallLog
	callLogRepo repository.CallLogRepository
	maxRetries  int
	retryDelay  time.Duration

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

type Option func(*WorkerPool)

// WithRetry 写入失败时的重试次数与基础间隔，第 n 次重试等待 n*delay
func WithRetry(maxRetries int, delay time.Duration) Option {
	return func(wp *WorkerPool) {
		wp.maxRetries = maxRetries
		wp.retryDelay = delay
	}
}

func NewWorkerPool(workerCount, queueSize int, callLogRepo repository.CallLogRepository, opts ...Option) *WorkerPool {
	if workerCount < 1 {
		workerCount = 1
	}
	wp := &WorkerPool{
		workerCount: workerCount,
		logs:        make(chan *model.CallLog, queueSize),
		callLogRepo: callLogRepo,
		maxRetries:  3,
		retryDelay:  time.Second,
	}
	for _, opt := range opts {
		opt(wp)
	}
	return wp
}

func (wp *WorkerPool) Start() {
	logger.Infof("Starting call log worker pool with %d workers", wp.workerCount)

	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Submit 非阻塞投递，队列已满或已停止时丢弃并返回 false
func (wp *WorkerPool) Submit(log *model.CallLog) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.stopped {
		return false
	}
	select {
	case wp.logs <- log:
		return true
	default:
		logger.Errorf("Call log queue full, dropping log for request %s", log.RequestID)
		return false
	}
}

// Stop 停止接收并等待队列中的日志写完
func (wp *WorkerPool) Stop() {
	logger.Info("Stopping call log worker pool...")

	wp.mu.Lock()
	if wp.stopped {
		wp.mu.Unlock()
		return
	}
	wp.stopped = true
	close(wp.logs)
	wp.mu.Unlock()

	wp.wg.Wait()
	logger.Info("Call log worker pool stopped")
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for log := range wp.logs {
		wp.persist(id, log)
	}
	logger.Debugf("Call log worker %d stopped", id)
}

func (wp *WorkerPool) persist(workerID int, log *model.CallLog) {
	for i := 0; i <= wp.maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := wp.callLogRepo.Create(ctx, log)
		cancel()

		if err == nil {
			return
		}

		logger.Errorf("Worker %d failed to write call log %s (attempt %d): %v", workerID, log.RequestID, i+1, err)
		if i < wp.maxRetries {
			time.Sleep(time.Duration(i+1) * wp.retryDelay)
		}
	}
}
