package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the process-wide collectors. Secondary-effect failures that
// the engine swallows (index fan-out, notifications, blob cleanup) are only
// observable here and in logs, never through operation results.
type Metrics struct {
	DependencyFailures *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
}

func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		DependencyFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docflow_dependency_failures_total",
				Help: "Swallowed secondary-effect failures by component.",
			},
			[]string{"component"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docflow_http_requests_total",
				Help: "Total number of HTTP requests processed.",
			},
			[]string{"method", "path", "status"},
		),
	}

	if err := reg.Register(m.DependencyFailures); err != nil {
		return nil, err
	}
	if err := reg.Register(m.HTTPRequests); err != nil {
		return nil, err
	}

	return m, nil
}

// DependencyFailure counts one swallowed collaborator failure.
func (m *Metrics) DependencyFailure(component string) {
	m.DependencyFailures.WithLabelValues(component).Inc()
}
