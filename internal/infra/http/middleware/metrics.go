package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	pipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_runs_total",
			Help: "Total number of coordinator runs by outcome",
		},
		[]string{"outcome"},
	)

	messagesProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_processed_total",
			Help: "Total number of inbound messages processed by outcome",
		},
		[]string{"outcome"},
	)

	leadsExtractedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_extracted_total",
			Help: "Total number of leads extracted by source",
		},
		[]string{"source"},
	)

	repliesSentTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "replies_sent_total",
			Help: "Total number of acknowledgment replies sent",
		},
	)

	lockContentionTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "run_lock_contention_total",
			Help: "Total number of runs skipped because the lock was held",
		},
	)

	integrationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integration_errors_total",
			Help: "Total number of integration errors",
		},
		[]string{"service"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

func RecordRun(outcome string) {
	pipelineRunsTotal.WithLabelValues(outcome).Inc()
}

func RecordMessageProcessed(outcome string) {
	messagesProcessedTotal.WithLabelValues(outcome).Inc()
}

func RecordLeadExtracted(source string) {
	leadsExtractedTotal.WithLabelValues(source).Inc()
}

func RecordReplySent() {
	repliesSentTotal.Inc()
}

func RecordLockContention() {
	lockContentionTotal.Inc()
}

func RecordIntegrationError(service string) {
	integrationErrors.WithLabelValues(service).Inc()
}
