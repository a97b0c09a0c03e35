package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"meal-planner/internal/shared"
)

const namespace = "meal_planner"

// Collectors exposes Prometheus collectors that report generation activity.
type Collectors struct {
	generations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	tokens      *prometheus.CounterVec
}

// MustNewCollectors registers the collectors with reg and panics on a
// registration error. Pass a fresh registry per instance.
func MustNewCollectors(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generations_total",
				Help:      "Meal plan generations by outcome.",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "generation_duration_seconds",
				Help:      "Time spent generating a meal plan.",
				Buckets:   []float64{0.01, 0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"outcome"},
		),
		tokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tokens_total",
				Help:      "Tokens consumed by meal plan generations.",
			},
			[]string{"kind"},
		),
	}
	reg.MustRegister(c.generations, c.duration, c.tokens)
	return c
}

// Observe records one generation.
func (c *Collectors) Observe(meta shared.AgentMeta) {
	if c == nil {
		return
	}
	c.generations.WithLabelValues(meta.Outcome).Inc()
	c.duration.WithLabelValues(meta.Outcome).Observe(meta.Latency.Seconds())
	if meta.Usage.PromptTokens > 0 {
		c.tokens.WithLabelValues("prompt").Add(float64(meta.Usage.PromptTokens))
	}
	if meta.Usage.CompletionTokens > 0 {
		c.tokens.WithLabelValues("completion").Add(float64(meta.Usage.CompletionTokens))
	}
}

