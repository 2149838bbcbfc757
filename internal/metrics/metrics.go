package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "trivia"

// Quiz outcomes.
const (
	QuizServed    = "question"
	QuizExhausted = "exhausted"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route pattern, method and status.",
	}, []string{"route", "method", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route pattern and method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	quizRounds = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quiz_rounds_total",
		Help:      "Quiz rounds by outcome.",
	}, []string{"outcome"})
)

// ObserveRequest records one finished HTTP request.
func ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// ObserveQuiz records a quiz round outcome (QuizServed or QuizExhausted).
func ObserveQuiz(outcome string) {
	quizRounds.WithLabelValues(outcome).Inc()
}
