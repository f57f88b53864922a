package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RendersAdmitted counts render requests accepted by a scheduler.
var RendersAdmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "surface_renderer",
	Subsystem: "scheduler",
	Name:      "renders_admitted_total",
}, []string{"surface"})

// RendersRejected counts render requests refused for duplicate keys.
var RendersRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "surface_renderer",
	Subsystem: "scheduler",
	Name:      "renders_rejected_total",
}, []string{"surface"})

// RendersCoalesced counts pending requests replaced by a newer one before being diffed.
var RendersCoalesced = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "surface_renderer",
	Subsystem: "scheduler",
	Name:      "renders_coalesced_total",
}, []string{"surface"})

// RendersApplied counts committed applications, labelled with mode "apply", "reload" or "noop" for empty scripts.
var RendersApplied = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "surface_renderer",
	Subsystem: "scheduler",
	Name:      "renders_applied_total",
}, []string{"surface", "mode"})

// RendersFailed counts applications the view adapter refused.
var RendersFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "surface_renderer",
	Subsystem: "scheduler",
	Name:      "renders_failed_total",
}, []string{"surface"})

// DiffDuration observes the time spent reconciling a request against the snapshot.
var DiffDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "surface_renderer",
	Subsystem: "scheduler",
	Name:      "diff_duration_seconds",
	Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
}, []string{"surface"})

// ScriptOperations observes the operation count of each computed script.
var ScriptOperations = prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "surface_renderer",
	Subsystem: "scheduler",
	Name:      "script_operations",
	Buckets:   []float64{0, 1, 5, 10, 20, 50, 100, 200, 500},
}, []string{"surface"})

// Collectors returns every collector of the package.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		RendersAdmitted,
		RendersRejected,
		RendersCoalesced,
		RendersApplied,
		RendersFailed,
		DiffDuration,
		ScriptOperations,
	}
}

// Register adds the collectors to reg.
func Register(reg prometheus.Registerer) error {
	for _, c := range Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Forget drops every series of a surface.
func Forget(surface string) {
	labels := prometheus.Labels{"surface": surface}
	RendersAdmitted.DeletePartialMatch(labels)
	RendersRejected.DeletePartialMatch(labels)
	RendersCoalesced.DeletePartialMatch(labels)
	RendersApplied.DeletePartialMatch(labels)
	RendersFailed.DeletePartialMatch(labels)
	DiffDuration.DeletePartialMatch(labels)
	ScriptOperations.DeletePartialMatch(labels)
}

// Handler serves reg in the Prometheus exposition format on a Fiber route.
func Handler(reg prometheus.Gatherer) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
}
