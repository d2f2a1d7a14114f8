// Package metrics Prometheus 指标：HTTP 请求统计与门禁领域计数器。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "building_access"

// Metrics 持有独立的 registry。nil *Metrics 的所有方法都是空操作
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	requestTransitions *prometheus.CounterVec
	lockChanges        *prometheus.CounterVec
	deviceSyncs        *prometheus.CounterVec
	events             *prometheus.CounterVec
}

// New 创建并注册所有指标
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "In-flight HTTP requests.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latencies in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "door_request_transitions_total",
			Help:      "Door request lifecycle transitions by outcome.",
		}, []string{"outcome"}),
		lockChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "door_lock_changes_total",
			Help:      "Door lock status changes by new status and source.",
		}, []string{"new_status", "source"}),
		deviceSyncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "device_sync_total",
			Help:      "Device sync attempts by result.",
		}, []string{"result"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "realtime_events_total",
			Help:      "Realtime events emitted by name.",
		}, []string{"event"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpInFlight,
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.requestTransitions,
		m.lockChanges,
		m.deviceSyncs,
		m.events,
	)
	return m
}

// Registry 暴露 registry，便于测试采集
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler /metrics 处理器
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// GinHandler gin 版本的 /metrics
func (m *Metrics) GinHandler() gin.HandlerFunc {
	return gin.WrapH(m.Handler())
}

// Middleware 记录请求数、时延与在途数；路径使用路由模板避免标签爆炸
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		m.httpInFlight.Inc()
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.httpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		m.httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.httpInFlight.Dec()
	}
}

// RequestTransition 记录申请处理结果：approved、rejected、already_processed
func (m *Metrics) RequestTransition(outcome string) {
	if m == nil {
		return
	}
	m.requestTransitions.WithLabelValues(outcome).Inc()
}

// LockChange 记录锁状态变更；source 为 manual 或 request
func (m *Metrics) LockChange(newStatus, source string) {
	if m == nil {
		return
	}
	m.lockChanges.WithLabelValues(newStatus, source).Inc()
}

// DeviceSync 记录设备同步结果：ok、failed、skipped
func (m *Metrics) DeviceSync(result string) {
	if m == nil {
		return
	}
	m.deviceSyncs.WithLabelValues(result).Inc()
}

// Event 记录一次实时事件
func (m *Metrics) Event(event string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(event).Inc()
}
