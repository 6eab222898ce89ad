// Package metrics defines the Prometheus instrumentation for EmberDB.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/emberdb/emberdb/internal/store"
)

// Metrics holds all server metrics, registered on a private registry
// so tests can create as many instances as they need.
type Metrics struct {
	registry *prometheus.Registry

	// Commands counts dispatched commands by command name.
	Commands *prometheus.CounterVec
	// ParseErrors counts requests rejected during parsing.
	ParseErrors prometheus.Counter
	// ConnectedClients tracks the number of open client connections.
	ConnectedClients prometheus.Gauge
}

// New creates a Metrics instance with its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "emberdb",
			Name:      "commands_total",
			Help:      "Commands dispatched, by command name.",
		}, []string{"command"}),
		ParseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "emberdb",
			Name:      "parse_errors_total",
			Help:      "Requests rejected during command parsing.",
		}),
		ConnectedClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "emberdb",
			Name:      "connected_clients",
			Help:      "Currently open client connections.",
		}),
	}
	reg.MustRegister(m.Commands, m.ParseErrors, m.ConnectedClients)
	return m
}

// ObserveStore registers per-namespace key-count gauges for st.
func (m *Metrics) ObserveStore(st *store.Store) {
	keys := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "emberdb",
		Name:      "keys",
		Help:      "Keys across all namespaces.",
	}, func() float64 {
		scalars, hashes, sets := st.Sizes()
		return float64(scalars + hashes + sets)
	})
	m.registry.MustRegister(keys)
}

// Handler returns the HTTP handler serving this registry in the
// Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
