package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aliskhannn/concept-review-bot/internal/domain/entities"
)

// Metrics holds the bot's Prometheus collectors. A nil *Metrics is a no-op.
type Metrics struct {
	registry *prometheus.Registry

	AnswersTotal    *prometheus.CounterVec
	SessionsStarted *prometheus.CounterVec
	SyncPushTotal   *prometheus.CounterVec
}

// New creates the collectors and registers them on a dedicated registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		AnswersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "answers_total",
				Help: "Total number of recorded answers",
			},
			[]string{"level", "correct"},
		),
		SessionsStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sessions_started_total",
				Help: "Total number of started quiz sessions",
			},
			[]string{"mode"},
		),
		SyncPushTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sync_push_total",
				Help: "Total number of snapshot pushes to the sync endpoint",
			},
			[]string{"result"},
		),
	}

	m.registry.MustRegister(m.AnswersTotal, m.SessionsStarted, m.SyncPushTotal)

	return m
}

// ObserveAnswer counts one recorded answer.
func (m *Metrics) ObserveAnswer(level entities.Level, correct bool) {
	if m == nil {
		return
	}
	m.AnswersTotal.WithLabelValues(strconv.Itoa(int(level)), strconv.FormatBool(correct)).Inc()
}

// ObserveSession counts one started session.
func (m *Metrics) ObserveSession(mode entities.SessionMode) {
	if m == nil {
		return
	}
	m.SessionsStarted.WithLabelValues(string(mode)).Inc()
}

// ObservePush counts one push attempt.
func (m *Metrics) ObservePush(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.SyncPushTotal.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
