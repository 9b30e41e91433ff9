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

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadsSyncedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_synced_total",
			Help: "Leads reconciled from CSV imports",
		},
		[]string{"result"},
	)

	importErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lead_import_errors_total",
			Help: "Rejected CSV import batches",
		},
	)

	statusUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_status_updates_total",
			Help: "Bulk status transitions applied",
		},
		[]string{"status"},
	)

	notesAppendedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lead_notes_appended_total",
			Help: "Notes appended to leads",
		},
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
		activeConnections.Inc()
		defer activeConnections.Dec()

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

func RecordSync(added, updated int) {
	leadsSyncedTotal.WithLabelValues("added").Add(float64(added))
	leadsSyncedTotal.WithLabelValues("updated").Add(float64(updated))
}

func RecordImportError() {
	importErrorsTotal.Inc()
}

func RecordStatusUpdate(status string, count int) {
	statusUpdatesTotal.WithLabelValues(status).Add(float64(count))
}

func RecordNotesAppended(count int) {
	notesAppendedTotal.Add(float64(count))
}
