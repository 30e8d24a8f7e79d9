package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the game-facing counters. One instance per process,
// registered against its own registry so tests can build throwaway sets.
type Metrics struct {
	registry *prometheus.Registry

	SessionsCreated prometheus.Counter
	SessionsDeleted prometheus.Counter
	SessionsExpired prometheus.Counter
	RoundsStarted   prometheus.Counter
	RoundsEnded     *prometheus.CounterVec
	Guesses         *prometheus.CounterVec

	RequestDuration *prometheus.HistogramVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		SessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "guessparty_sessions_created_total",
			Help: "Number of sessions created.",
		}),
		SessionsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "guessparty_sessions_deleted_total",
			Help: "Number of sessions deleted because the roster emptied.",
		}),
		SessionsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "guessparty_sessions_expired_total",
			Help: "Number of sessions torn down by the idle-expiry timer.",
		}),
		RoundsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "guessparty_rounds_started_total",
			Help: "Number of rounds started.",
		}),
		RoundsEnded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "guessparty_rounds_ended_total",
			Help: "Number of rounds ended, by outcome.",
		}, []string{"outcome"}),
		Guesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "guessparty_guesses_total",
			Help: "Number of guesses submitted, by result.",
		}, []string{"result"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "guessparty_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}

	registry.MustRegister(
		m.SessionsCreated,
		m.SessionsDeleted,
		m.SessionsExpired,
		m.RoundsStarted,
		m.RoundsEnded,
		m.Guesses,
		m.RequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
