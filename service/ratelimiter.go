package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"baby-namer/config"
	"baby-namer/pkg/kv"
)

// Decision 一次限流判断的结果
type Decision struct {
	Allowed   bool
	Remaining int
	Limit     int
	ResetIn   time.Duration // 距离额度恢复的时间，拒绝时一定大于 0
	ResetAt   time.Time
}

// ResetInSeconds 向上取整的秒数
func (d Decision) ResetInSeconds() int {
	if d.ResetIn <= 0 {
		return 0
	}
	return int(math.Ceil(d.ResetIn.Seconds()))
}

// RateLimiter 按客户端标识限流。
// 存储出错时返回 Allowed=true 的决策和错误，由调用方决定放行（fail-open）。
type RateLimiter interface {
	CheckAndRecord(ctx context.Context, clientID string) (Decision, error)
	Peek(ctx context.Context, clientID string) (Decision, error)
	Policy() string
}

type limiterOptions struct {
	now      func() time.Time
	location *time.Location
}

type LimiterOption func(*limiterOptions)

// WithLimiterClock 替换时间来源
func WithLimiterClock(now func() time.Time) LimiterOption {
	return func(o *limiterOptions) { o.now = now }
}

// WithLocation 按日限流使用的时区，默认 time.Local
func WithLocation(loc *time.Location) LimiterOption {
	return func(o *limiterOptions) { o.location = loc }
}

// NewRateLimiter 根据配置创建滑动窗口或按日限流器
func NewRateLimiter(cfg config.RateLimitConfig, store kv.Store, opts ...LimiterOption) (RateLimiter, error) {
	o := limiterOptions{now: time.Now, location: time.Local}
	for _, opt := range opts {
		opt(&o)
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "rate_limit"
	}

	switch cfg.Policy {
	case config.PolicySliding:
		return &SlidingWindowLimiter{
			store:  store,
			window: cfg.Window(),
			max:    cfg.MaxRequests,
			prefix: prefix + ":sliding:",
			now:    o.now,
		}, nil
	case config.PolicyDaily:
		return &DailyLimiter{
			store:  store,
			max:    cfg.DailyMaxRequests,
			prefix: prefix + ":daily:",
			now:    o.now,
			loc:    o.location,
		}, nil
	}
	return nil, fmt.Errorf("unknown rate limit policy %q", cfg.Policy)
}

// SlidingWindowLimiter 记录窗口内每次请求的时间戳，读取时剔除过期记录
type SlidingWindowLimiter struct {
	store  kv.Store
	window time.Duration
	max    int
	prefix string
	now    func() time.Time
}

type slidingRecord struct {
	Timestamps []int64 `json:"timestamps"` // unix 毫秒，按时间升序
}

func (l *SlidingWindowLimiter) Policy() string { return config.PolicySliding }

func (l *SlidingWindowLimiter) CheckAndRecord(ctx context.Context, clientID string) (Decision, error) {
	now := l.now()
	key := l.prefix + clientID

	active, err := l.load(ctx, key, now)
	if err != nil {
		return l.failOpen(), err
	}
	if len(active) >= l.max {
		return l.denied(active, now), nil
	}

	active = append(active, now.UnixMilli())
	dec := l.allowed(active, now)
	if err := l.store.Set(ctx, key, slidingRecord{Timestamps: active}, 2*l.window); err != nil {
		return dec, fmt.Errorf("save sliding window for %s: %w", clientID, err)
	}
	return dec, nil
}

func (l *SlidingWindowLimiter) Peek(ctx context.Context, clientID string) (Decision, error) {
	now := l.now()

	active, err := l.load(ctx, l.prefix+clientID, now)
	if err != nil {
		return l.failOpen(), err
	}
	if len(active) >= l.max {
		return l.denied(active, now), nil
	}
	return l.allowed(active, now), nil
}

func (l *SlidingWindowLimiter) load(ctx context.Context, key string, now time.Time) ([]int64, error) {
	var rec slidingRecord
	if _, err := l.store.Get(ctx, key, &rec); err != nil {
		return nil, fmt.Errorf("load sliding window %s: %w", key, err)
	}

	cutoff := now.Add(-l.window).UnixMilli()
	active := rec.Timestamps[:0]
	for _, ts := range rec.Timestamps {
		if ts > cutoff {
			active = append(active, ts)
		}
	}
	return active, nil
}

func (l *SlidingWindowLimiter) allowed(active []int64, now time.Time) Decision {
	dec := Decision{Allowed: true, Remaining: l.max - len(active), Limit: l.max}
	if len(active) > 0 {
		dec.ResetAt = time.UnixMilli(active[0]).Add(l.window)
		dec.ResetIn = dec.ResetAt.Sub(now)
	}
	return dec
}

func (l *SlidingWindowLimiter) denied(active []int64, now time.Time) Decision {
	oldest := active[0]
	for _, ts := range active[1:] {
		if ts < oldest {
			oldest = ts
		}
	}
	resetAt := time.UnixMilli(oldest).Add(l.window)
	return Decision{
		Allowed: false,
		Limit:   l.max,
		ResetAt: resetAt,
		ResetIn: resetAt.Sub(now),
	}
}

func (l *SlidingWindowLimiter) failOpen() Decision {
	return Decision{Allowed: true, Remaining: l.max, Limit: l.max}
}

// DailyLimiter 固定窗口，每天本地时间零点重置
type DailyLimiter struct {
	store  kv.Store
	max    int
	prefix string
	now    func() time.Time
	loc    *time.Location
}

type dailyRecord struct {
	Count   int   `json:"count"`
	ResetAt int64 `json:"resetAt"` // unix 毫秒
}

func (l *DailyLimiter) Policy() string { return config.PolicyDaily }

func (l *DailyLimiter) CheckAndRecord(ctx context.Context, clientID string) (Decision, error) {
	now := l.now()
	key := l.prefix + clientID

	rec, found, err := l.load(ctx, key)
	if err != nil {
		return l.failOpen(), err
	}

	if !found || now.UnixMilli() >= rec.ResetAt {
		rec = dailyRecord{Count: 1, ResetAt: l.nextMidnight(now).UnixMilli()}
	} else if rec.Count >= l.max {
		return l.decision(rec, now, false), nil
	} else {
		rec.Count++
	}

	dec := l.decision(rec, now, true)
	if err := l.store.Set(ctx, key, rec, dec.ResetIn); err != nil {
		return dec, fmt.Errorf("save daily counter for %s: %w", clientID, err)
	}
	return dec, nil
}

func (l *DailyLimiter) Peek(ctx context.Context, clientID string) (Decision, error) {
	now := l.now()

	rec, found, err := l.load(ctx, l.prefix+clientID)
	if err != nil {
		return l.failOpen(), err
	}
	if !found || now.UnixMilli() >= rec.ResetAt {
		return Decision{Allowed: true, Remaining: l.max, Limit: l.max, ResetAt: l.nextMidnight(now), ResetIn: l.nextMidnight(now).Sub(now)}, nil
	}
	return l.decision(rec, now, rec.Count < l.max), nil
}

func (l *DailyLimiter) load(ctx context.Context, key string) (dailyRecord, bool, error) {
	var rec dailyRecord
	found, err := l.store.Get(ctx, key, &rec)
	if err != nil {
		return rec, false, fmt.Errorf("load daily counter %s: %w", key, err)
	}
	return rec, found, nil
}

func (l *DailyLimiter) decision(rec dailyRecord, now time.Time, allowed bool) Decision {
	resetAt := time.UnixMilli(rec.ResetAt)
	remaining := l.max - rec.Count
	if remaining < 0 || !allowed {
		remaining = 0
	}
	return Decision{
		Allowed:   allowed,
		Remaining: remaining,
		Limit:     l.max,
		ResetAt:   resetAt,
		ResetIn:   resetAt.Sub(now),
	}
}

func (l *DailyLimiter) nextMidnight(now time.Time) time.Time {
	t := now.In(l.loc)
	return time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, l.loc)
}

func (l *DailyLimiter) failOpen() Decision {
	return Decision{Allowed: true, Remaining: l.max, Limit: l.max}
}
