// Package metrics exports lifecycle state and transitions to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ytbean/ubean/pkg/lifecycle"
	"github.com/ytbean/ubean/pkg/log"
)

const (
	namespace = "ubean"
	subsystem = "lifecycle"

	metricsPath = "/metrics"
)

// Metrics holds the lifecycle collectors registered on one registry.
type Metrics struct {
	state       *prometheus.GaugeVec
	transitions *prometheus.CounterVec
	sick        *prometheus.CounterVec
}

// New registers the lifecycle collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		state: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "state",
				Help:      "Current lifecycle state (1 for the current state, 0 otherwise)",
			},
			[]string{"component", "state"},
		),
		transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "transitions_total",
				Help:      "Total number of committed state transitions",
			},
			[]string{"component", "from", "to"},
		),
		sick: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sick_total",
				Help:      "Total number of times the component became sick",
			},
			[]string{"component"},
		),
	}
}

// Listener returns a lifecycle.Listener recording the named component,
// seeded with its current state.
func (m *Metrics) Listener(component string, current lifecycle.State) lifecycle.Listener {
	for _, s := range lifecycle.States() {
		m.state.WithLabelValues(component, s.String()).Set(0)
	}
	m.state.WithLabelValues(component, current.String()).Set(1)
	return &listener{metrics: m, component: component}
}

type listener struct {
	metrics   *Metrics
	component string
}

func (l *listener) OnStateChange(previous, current lifecycle.State) {
	m := l.metrics
	m.state.WithLabelValues(l.component, previous.String()).Set(0)
	m.state.WithLabelValues(l.component, current.String()).Set(1)
	m.transitions.WithLabelValues(l.component, previous.String(), current.String()).Inc()
	if current == lifecycle.StateSick {
		m.sick.WithLabelValues(l.component).Inc()
	}
}

// Serve exposes g on addr under /metrics until ctx ends.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer, logger log.Logger) error {
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	mux := http.NewServeMux()
	mux.Handle(metricsPath, promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics", log.String("addr", addr), log.String("path", metricsPath))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
