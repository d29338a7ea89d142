package infra

import (
	"context"

	"contact-gateway/middleware/ratelimit/domain"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusStatsStore expõe as decisões como métricas.
//
// Só usa Method/Path como label; a chave do cliente fica de fora para não
// explodir a cardinalidade.
type PrometheusStatsStore struct {
	decisions *prometheus.CounterVec
	remaining *prometheus.HistogramVec
}

func NewPrometheusStatsStore(reg prometheus.Registerer) (*PrometheusStatsStore, error) {
	s := &PrometheusStatsStore{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contact",
			Subsystem: "ratelimit",
			Name:      "decisions_total",
			Help:      "Rate limit decisions by route and outcome.",
		}, []string{"method", "path", "decision"}),
		remaining: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "contact",
			Subsystem: "ratelimit",
			Name:      "remaining",
			Help:      "Requests left in the window after each decision.",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}, []string{"method", "path"}),
	}
	for _, c := range []prometheus.Collector{s.decisions, s.remaining} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *PrometheusStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	decision := "denied"
	if ev.Allowed {
		decision = "allowed"
	}
	s.decisions.WithLabelValues(ev.Method, ev.Path, decision).Inc()
	s.remaining.WithLabelValues(ev.Method, ev.Path).Observe(float64(ev.Remaining))
	return nil
}
