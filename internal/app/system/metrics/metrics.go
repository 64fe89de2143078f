// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the application's collectors behind one registry so tests
// can build an isolated instance.
type Metrics struct {
	Registry *prometheus.Registry

	DonationsCreated *prometheus.CounterVec   // by payment_method
	OffersConverted  prometheus.Counter       // successful mark-paid
	StatusOverrides  prometheus.Counter       // admin override writes
	LoginFailures    *prometheus.CounterVec   // by reason
	RequestDuration  *prometheus.HistogramVec // by method, route, status
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		DonationsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "donorhub",
			Name:      "donations_created_total",
			Help:      "Donations recorded, by payment method.",
		}, []string{"payment_method"}),
		OffersConverted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "donorhub",
			Name:      "offers_converted_total",
			Help:      "Offers converted into donations.",
		}),
		StatusOverrides: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "donorhub",
			Name:      "donation_status_overrides_total",
			Help:      "Donation status writes that bypassed the transition table.",
		}),
		LoginFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "donorhub",
			Name:      "login_failures_total",
			Help:      "Failed sign-in attempts, by reason.",
		}, []string{"reason"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "donorhub",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.DonationsCreated,
		m.OffersConverted,
		m.StatusOverrides,
		m.LoginFailures,
		m.RequestDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// DonationCreated counts one new donation. A nil *Metrics is a no-op.
func (m *Metrics) DonationCreated(method string) {
	if m == nil {
		return
	}
	m.DonationsCreated.WithLabelValues(method).Inc()
}

// OfferConverted counts one mark-paid conversion.
func (m *Metrics) OfferConverted() {
	if m == nil {
		return
	}
	m.OffersConverted.Inc()
}

// StatusOverride counts one override write.
func (m *Metrics) StatusOverride() {
	if m == nil {
		return
	}
	m.StatusOverrides.Inc()
}

// LoginFailed counts one failed sign-in.
func (m *Metrics) LoginFailed(reason string) {
	if m == nil {
		return
	}
	m.LoginFailures.WithLabelValues(reason).Inc()
}

// Middleware observes request latency labelled by the matched chi route
// pattern, so ids in paths do not explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.RequestDuration.
			WithLabelValues(r.Method, routePattern(r), strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}
