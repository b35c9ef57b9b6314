package server

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	gatherer prometheus.Gatherer
	requests *prometheus.CounterVec
}

// newMetrics registers the server collectors on registry, or on a private registry when nil.
func newMetrics(registry *prometheus.Registry) *metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "beakersync",
		Name:      "settings_requests_total",
		Help:      "Settings endpoint requests by operation and outcome.",
	}, []string{"op", "outcome"})
	registry.MustRegister(requests)

	return &metrics{gatherer: registry, requests: requests}
}
