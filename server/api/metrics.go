package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"gitlab.com/shar-workflow/iflowscan/model"
)

// Metrics counts the work done by the API.
type Metrics struct {
	requests       *prometheus.CounterVec
	artifacts      *prometheus.CounterVec
	headers        *prometheus.CounterVec
	decodeFailures prometheus.Counter
}

// NewMetrics creates and registers the API counters.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "iflowscan",
			Name:      "extract_requests_total",
			Help:      "Extract requests by transport and outcome.",
		}, []string{"transport", "outcome"}),
		artifacts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "iflowscan",
			Name:      "artifacts_total",
			Help:      "Artifacts processed by outcome.",
		}, []string{"outcome"}),
		headers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "iflowscan",
			Name:      "headers_total",
			Help:      "Extracted headers by resolution source.",
		}, []string{"source"}),
		decodeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "iflowscan",
			Name:      "header_table_decode_failures_total",
			Help:      "Header tables whose markup could not be parsed.",
		}),
	}
	for _, c := range []prometheus.Collector{m.requests, m.artifacts, m.headers, m.decodeFailures} {
		if err := reg.Register(c); err != nil {
			return nil, err //nolint:wrapcheck
		}
	}
	return m, nil
}

func (m *Metrics) request(transport string, outcome string) {
	m.requests.WithLabelValues(transport, outcome).Inc()
}

func (m *Metrics) batch(res *model.BatchResult) {
	m.artifacts.WithLabelValues("processed").Add(float64(len(res.Succeeded)))
	m.artifacts.WithLabelValues("failed").Add(float64(len(res.Failed)))
	for _, a := range res.Succeeded {
		s := model.Summarize(a.Records)
		m.headers.WithLabelValues(model.ResolvedFromDirect.String()).Add(float64(s.Direct))
		m.headers.WithLabelValues(model.ResolvedFromMap.String()).Add(float64(s.FromMap))
		m.headers.WithLabelValues(model.ResolvedFromUnresolved.String()).Add(float64(s.Unresolved))
		m.decodeFailures.Add(float64(a.DecodeFailures))
	}
}
