// Package metrics provides Prometheus instrumentation.
//
// It defines the standard HTTP metrics plus the donation-workflow counters.
// Wire it up once in internal/kernel/http.go:
//
//	r.Use(metrics.Middleware())
//	r.HandleFunc("/metrics", metrics.Handler())
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestDuration tracks how long each HTTP request takes,
	// broken down by method, route path, and status code.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sahyog",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts all HTTP requests.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sahyog",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// RequestInFlight tracks how many requests are currently being served.
	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sahyog",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})

	// DonationsSubmitted counts submitted donations (all start pending).
	DonationsSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sahyog",
		Subsystem: "donations",
		Name:      "submitted_total",
		Help:      "Total donations submitted.",
	})

	// DonationsTransitioned counts approval-workflow outcomes.
	DonationsTransitioned = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sahyog",
			Subsystem: "donations",
			Name:      "transitioned_total",
			Help:      "Total donation status transitions.",
		},
		[]string{"status"}, // "approved" | "rejected"
	)

	// AmountApproved sums the amounts of approved donations.
	AmountApproved = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sahyog",
		Subsystem: "donations",
		Name:      "amount_approved_total",
		Help:      "Total amount across approved donations.",
	})

	// FundraisersCreated counts published fundraisers.
	FundraisersCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sahyog",
		Subsystem: "fundraisers",
		Name:      "created_total",
		Help:      "Total fundraisers created.",
	})
)

// DefaultRegistry is the Prometheus registry used by the app.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	DefaultRegistry.MustRegister(
		RequestDuration,
		RequestTotal,
		RequestInFlight,
		DonationsSubmitted,
		DonationsTransitioned,
		AmountApproved,
		FundraisersCreated,
	)
}

// responseRecorder wraps http.ResponseWriter to capture the status code.
type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records Prometheus metrics for every request:
// duration histogram, total counter, in-flight gauge.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			path := r.URL.Path // raw path; route cardinality is small here

			RequestInFlight.Inc()
			defer RequestInFlight.Dec()

			rr := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rr, r)

			status := strconv.Itoa(rr.status)
			RequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
			RequestTotal.WithLabelValues(r.Method, path, status).Inc()
		})
	}
}

// Handler returns an http.HandlerFunc that exposes the Prometheus metrics page.
func Handler() http.HandlerFunc {
	h := promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	return h.ServeHTTP
}
