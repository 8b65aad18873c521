package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// Service implements Metrics on top of Prometheus collectors.
type Service struct {
	SessionsCompleted  prometheus.Counter
	CompletionDuration prometheus.Histogram
	BetsPlaced         prometheus.Counter
	BetsSettled        *prometheus.CounterVec
	BetsRefunded       prometheus.Counter
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		SessionsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pickleball_sessions_completed_total",
			Help: "The total number of sessions completed.",
		}),
		CompletionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pickleball_session_completion_duration_seconds",
			Help:    "The duration of session completion runs.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		BetsPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pickleball_bets_placed_total",
			Help: "The total number of bets placed.",
		}),
		BetsSettled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pickleball_bets_settled_total",
			Help: "The total number of bets settled, by outcome.",
		}, []string{"outcome"}),
		BetsRefunded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pickleball_bets_refunded_total",
			Help: "The total number of bets refunded.",
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pickleball_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pickleball_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pickleball_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.SessionsCompleted,
		s.CompletionDuration,
		s.BetsPlaced,
		s.BetsSettled,
		s.BetsRefunded,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncSessionsCompleted() {
	s.SessionsCompleted.Inc()
}

func (s *Service) ObserveCompletionDuration(duration float64) {
	s.CompletionDuration.Observe(duration)
}

func (s *Service) IncBetsPlaced() {
	s.BetsPlaced.Inc()
}

func (s *Service) IncBetsSettled(outcome string) {
	s.BetsSettled.WithLabelValues(outcome).Inc()
}

func (s *Service) IncBetsRefunded() {
	s.BetsRefunded.Inc()
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
