package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "baby_namer"

type Metrics struct {
	RequestsTotal      *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
	RequestsInFlight   *prometheus.GaugeVec
	UpstreamCalls      *prometheus.CounterVec
	UpstreamDuration   *prometheus.HistogramVec
	RateLimitDecisions *prometheus.CounterVec
	GeneratedNames     *prometheus.CounterVec
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

func newMetrics() *Metrics {
	return &Metrics{
		// 请求总数
		// Labels: route, status_code
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"route", "status_code"},
		),

		// 请求耗时（毫秒），取名一次通常在数秒到数十秒
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_milliseconds",
				Help:      "HTTP request duration in milliseconds",
				Buckets:   []float64{10, 50, 100, 500, 1000, 5000, 10000, 30000, 60000, 120000},
			},
			[]string{"route"},
		),

		RequestsInFlight: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "requests_in_flight",
				Help:      "Current number of requests being processed",
			},
			[]string{"route"},
		),

		// 上游模型调用
		// Labels: purpose (names, narrative), outcome (success, error, timeout, missing_key)
		UpstreamCalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_calls_total",
				Help:      "Total number of chat completion calls",
			},
			[]string{"purpose", "outcome"},
		),

		UpstreamDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_duration_milliseconds",
				Help:      "Chat completion call duration in milliseconds",
				Buckets:   []float64{500, 1000, 2000, 5000, 10000, 20000, 40000, 60000, 120000},
			},
			[]string{"purpose"},
		),

		// Labels: policy (sliding, daily), decision (allowed, denied, fail_open)
		RateLimitDecisions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limit_decisions_total",
				Help:      "Rate limit decisions by policy",
			},
			[]string{"policy", "decision"},
		),

		GeneratedNames: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generated_names_total",
				Help:      "Total number of names returned to clients",
			},
			[]string{"gender"},
		),
	}
}

// GetMetrics 返回进程内唯一的指标集合，首次调用时注册
func GetMetrics() *Metrics {
	once.Do(func() {
		defaultMetrics = newMetrics()
	})
	return defaultMetrics
}

// ObserveUpstream 记录一次上游调用
func (m *Metrics) ObserveUpstream(purpose, outcome string, elapsed time.Duration) {
	m.UpstreamCalls.WithLabelValues(purpose, outcome).Inc()
	m.UpstreamDuration.WithLabelValues(purpose).Observe(float64(elapsed.Milliseconds()))
}
