package metrics

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "aime"

// 影响点同步结果
const (
	OutcomeUpserted  = "upserted"
	OutcomeSkipped   = "skipped"
	OutcomeRetracted = "retracted"
	OutcomeFailed    = "failed"
)

// Metrics 汇总服务导出的 Prometheus 指标，nil 接收者上的调用均为空操作
type Metrics struct {
	impactSync    *prometheus.CounterVec
	statsDuration *prometheus.HistogramVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	appErrors     *prometheus.CounterVec
}

// NewMetrics 在 reg 上注册全部指标，已注册的同名指标会被复用
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		impactSync: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "impact_sync_total",
			Help:      "Impact point synchronisations by source type and outcome.",
		}, []string{"type", "outcome"}),
		statsDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "site_stats_duration_seconds",
			Help:      "Latency of site statistics aggregation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		appErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "app_errors_total",
			Help:      "Application errors returned to clients by error code.",
		}, []string{"code"}),
	}

	var err error
	if m.impactSync, err = register(reg, m.impactSync); err != nil {
		return nil, fmt.Errorf("register impact sync counter: %w", err)
	}
	if m.statsDuration, err = register(reg, m.statsDuration); err != nil {
		return nil, fmt.Errorf("register stats histogram: %w", err)
	}
	if m.httpRequests, err = register(reg, m.httpRequests); err != nil {
		return nil, fmt.Errorf("register http counter: %w", err)
	}
	if m.httpDuration, err = register(reg, m.httpDuration); err != nil {
		return nil, fmt.Errorf("register http histogram: %w", err)
	}
	if m.appErrors, err = register(reg, m.appErrors); err != nil {
		return nil, fmt.Errorf("register app error counter: %w", err)
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *Metrics) RecordImpactSync(impactType, outcome string) {
	if m == nil {
		return
	}
	m.impactSync.WithLabelValues(impactType, outcome).Inc()
}

func (m *Metrics) RecordStats(duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.statsDuration.WithLabelValues(status).Observe(duration.Seconds())
}

func (m *Metrics) RecordRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) RecordAppError(code int) {
	if m == nil {
		return
	}
	m.appErrors.WithLabelValues(strconv.Itoa(code)).Inc()
}
