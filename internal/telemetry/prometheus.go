package telemetry

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/magabrotheeeer/autopay/internal/models"
)

// Prometheus считает события в счётчике autopay_events_total.
type Prometheus struct {
	events *prometheus.CounterVec
}

// NewPrometheus создает счётчик и регистрирует его в reg.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "autopay",
		Name:      "events_total",
		Help:      "Auto-Pay telemetry events by name, category and label.",
	}, []string{"event", "category", "label"})
	if err := reg.Register(events); err != nil {
		return nil, err
	}
	return &Prometheus{events: events}, nil
}

// Track увеличивает счётчик события.
func (p *Prometheus) Track(_ context.Context, event models.Event) error {
	p.events.WithLabelValues(event.Name, event.Category, event.Label).Inc()
	return nil
}
