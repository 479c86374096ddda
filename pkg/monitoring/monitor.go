package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	ProgressUpserts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "progress_upserts_total",
			Help: "Total number of watch progress upserts accepted by the ledger",
		},
	)

	StaleWritesDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "progress_stale_writes_dropped_total",
			Help: "Progress upserts silently dropped for carrying a stale timestamp",
		},
	)

	LessonCompletions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lesson_completions_total",
			Help: "Lessons promoted to completed",
		},
	)

	ActivePlaybackSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "playback_sessions_active",
			Help: "Currently open playback sessions",
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(ProgressUpserts)
	prometheus.MustRegister(StaleWritesDropped)
	prometheus.MustRegister(LessonCompletions)
	prometheus.MustRegister(ActivePlaybackSessions)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
