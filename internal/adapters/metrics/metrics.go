// Package metrics exposes sync and API counters to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

const namespace = "kanso_streaks"

// Recorder owns its registry so tests and multiple servers do not collide on
// the global default one.
type Recorder struct {
	registry *prometheus.Registry

	syncRuns      *prometheus.CounterVec
	syncDuration  prometheus.Histogram
	lastSuccess   prometheus.Gauge
	streaks       prometheus.Gauge
	activeStreaks prometheus.Gauge
	observations  prometheus.Gauge
	droppedRows   prometheus.Counter

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		syncRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "runs_total",
			Help:      "Sync runs by reason and final status",
		}, []string{"reason", "status"}),
		syncDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "duration_seconds",
			Help:      "Wall time of a sync run",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		lastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful sync",
		}),
		streaks: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "streaks",
			Help:      "Streak records in the last derived table",
		}),
		activeStreaks: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_streaks",
			Help:      "Active streaks in the last derived table",
		}),
		observations: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "observations",
			Help:      "Observations replayed by the last sync",
		}),
		droppedRows: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "dropped_rows_total",
			Help:      "Tracker rows dropped because their date is not in the calendar",
		}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code",
		}, []string{"method", "route", "code"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// ObserveSync records a finished run. Table gauges only move on success.
func (r *Recorder) ObserveSync(run domain.SyncRun, duration time.Duration) {
	r.syncRuns.WithLabelValues(run.Reason, run.Status).Inc()
	r.syncDuration.Observe(duration.Seconds())
	r.droppedRows.Add(float64(run.DroppedRows))

	if run.Status != domain.SyncStatusSucceeded {
		return
	}
	r.lastSuccess.Set(float64(run.FinishedAt.Unix()))
	r.streaks.Set(float64(run.Streaks))
	r.activeStreaks.Set(float64(run.Active))
	r.observations.Set(float64(run.Observations))
}

// Middleware counts requests by their route template, not the raw path.
func (r *Recorder) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		r.httpRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		r.httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
