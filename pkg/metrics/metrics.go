package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/luminahq/lumina/internal/common/config"
)

type Metrics struct {
	registry      *prometheus.Registry
	namespace     string
	httpReqCnt    *prometheus.CounterVec
	httpDur       *prometheus.HistogramVec
	httpInfl      *prometheus.GaugeVec
	transitionCnt *prometheus.CounterVec
	widgetHitCnt  *prometheus.CounterVec
}

func New(cfg config.MetricsConfig) *Metrics {
	ns := cfg.Namespace
	r := prometheus.NewRegistry()
	// Register standard process and Go collectors
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	httpReqCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "http_requests_total"}, []string{"method", "route", "status"})
	httpDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "http_request_duration_seconds", Buckets: cfg.Buckets}, []string{"method", "route", "status"})
	httpInfl := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: ns, Name: "http_requests_inflight"}, []string{"route"})
	r.MustRegister(httpReqCnt, httpDur, httpInfl)

	transitionCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "workflow_transitions_total"}, []string{"to_status"})
	widgetHitCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "widget_requests_total"}, []string{"source"})
	r.MustRegister(transitionCnt, widgetHitCnt)

	return &Metrics{
		registry:      r,
		namespace:     ns,
		httpReqCnt:    httpReqCnt,
		httpDur:       httpDur,
		httpInfl:      httpInfl,
		transitionCnt: transitionCnt,
		widgetHitCnt:  widgetHitCnt,
	}
}

// WorkflowTransition records a tenant moving into the given status.
func (m *Metrics) WorkflowTransition(toStatus string) {
	m.transitionCnt.WithLabelValues(toStatus).Inc()
}

// WidgetServed records a public widget lookup; source is cache or db.
func (m *Metrics) WidgetServed(source string) {
	m.widgetHitCnt.WithLabelValues(source).Inc()
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		m.httpInfl.WithLabelValues(route).Inc()
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		m.httpReqCnt.WithLabelValues(c.Request.Method, route, status).Inc()
		m.httpDur.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		m.httpInfl.WithLabelValues(route).Dec()
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
