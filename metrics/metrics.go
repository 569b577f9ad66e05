// Package metrics exposes Prometheus counters for the recovery ledger.
//
// Recorder implements emissions.Observer so the ledger reports recorded and
// rejected entries without importing Prometheus itself.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/warp/recovery-ledger/emissions"
)

const namespace = "recovery"

// Recorder owns the ledger's collectors and the registry they live in.
type Recorder struct {
	registry *prometheus.Registry

	EntriesRecorded *prometheus.CounterVec
	EntriesRejected *prometheus.CounterVec
	CO2eRecorded    *prometheus.CounterVec
	StoreErrors     *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

var _ emissions.Observer = (*Recorder)(nil)

// NewRecorder registers all collectors on a fresh registry, alongside the
// standard Go and process collectors.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,

		EntriesRecorded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_recorded_total",
			Help:      "Ledger entries appended, by refrigerant.",
		}, []string{"refrigerant"}),

		EntriesRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_rejected_total",
			Help:      "Record attempts that did not append an entry, by reason.",
		}, []string{"reason"}),

		CO2eRecorded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "co2e_recorded_kg_total",
			Help:      "CO2-equivalent kilograms recorded, by refrigerant.",
		}, []string{"refrigerant"}),

		StoreErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Backing store failures, by operation.",
		}, []string{"op"}),

		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) EntryRecorded(e emissions.Entry) {
	name := e.Refrigerant.String()
	r.EntriesRecorded.WithLabelValues(name).Inc()
	r.CO2eRecorded.WithLabelValues(name).Add(e.CO2eKg.InexactFloat64())
}

func (r *Recorder) EntryRejected(reason string) {
	r.EntriesRejected.WithLabelValues(reason).Inc()
}

func (r *Recorder) StoreFailed(op string) {
	r.StoreErrors.WithLabelValues(op).Inc()
}

// Middleware observes request latency labelled by chi route pattern, so
// path parameters do not explode label cardinality.
func (r *Recorder) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, req)

		route := "unmatched"
		if rctx := chi.RouteContext(req.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		r.RequestDuration.
			WithLabelValues(route, req.Method, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}
