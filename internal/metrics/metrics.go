// Package metrics owns the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "trivia"

// Metrics groups the HTTP and domain collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	questionsCreated prometheus.Counter
	questionsDeleted prometheus.Counter
	quizServed       prometheus.Counter
	quizExhausted    prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		questionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "questions_created_total",
			Help:      "Questions created through the API.",
		}),
		questionsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "questions_deleted_total",
			Help:      "Questions deleted through the API.",
		}),
		quizServed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quiz_questions_served_total",
			Help:      "Quiz requests answered with a question.",
		}),
		quizExhausted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quiz_exhausted_total",
			Help:      "Quiz requests with no unseen question left.",
		}),
	}

	reg.MustRegister(
		m.requests,
		m.requestDuration,
		m.questionsCreated,
		m.questionsDeleted,
		m.quizServed,
		m.quizExhausted,
	)
	return m
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route, method, status string, seconds float64) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, status).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(seconds)
}

func (m *Metrics) QuestionCreated() {
	if m != nil {
		m.questionsCreated.Inc()
	}
}

func (m *Metrics) QuestionDeleted() {
	if m != nil {
		m.questionsDeleted.Inc()
	}
}

// QuizResult counts a quiz draw; served is false when the pool was exhausted.
func (m *Metrics) QuizResult(served bool) {
	if m == nil {
		return
	}
	if served {
		m.quizServed.Inc()
		return
	}
	m.quizExhausted.Inc()
}
