package metrics

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	prometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

type APIMetrics struct {
	RequestsTotal       metrics.Counter
	RequestErrorsTotal  metrics.Counter
	RequestDurationSecs metrics.Histogram
}

func (a *APIMetrics) AddRequest(path string) {
	a.RequestsTotal.With("path", path).Add(1)
}
func (a *APIMetrics) AddRequestError(path string) {
	a.RequestErrorsTotal.With("path", path).Add(1)
}
func (a *APIMetrics) ObserveRequest(path string, seconds float64) {
	a.RequestDurationSecs.With("path", path).Observe(seconds)
}

func PromAPIMetrics() *APIMetrics {
	return &APIMetrics{
		RequestsTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: APISubsystem,
			Name:      "requests_total",
			Help:      "Total number of API requests.",
		}, []string{"path"}),
		RequestErrorsTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: APISubsystem,
			Name:      "request_errors_total",
			Help:      "Total number of API requests answered with an error.",
		}, []string{"path"}),
		RequestDurationSecs: prometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: APISubsystem,
			Name:      "request_duration_seconds",
			Help:      "Time spent serving API requests.",
		}, []string{"path"}),
	}
}

func NopAPIMetrics() *APIMetrics {
	return &APIMetrics{
		RequestsTotal:       discard.NewCounter(),
		RequestErrorsTotal:  discard.NewCounter(),
		RequestDurationSecs: discard.NewHistogram(),
	}
}
