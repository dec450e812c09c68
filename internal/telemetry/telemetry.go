// Package telemetry реализует приёмники событий аналитики Auto-Pay:
// пустой, в лог, в Prometheus, в RabbitMQ и рассылку в несколько приёмников сразу.
package telemetry

import (
	"context"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/autopay/internal/models"
)

// Sink принимает события телеметрии.
type Sink interface {
	Track(ctx context.Context, event models.Event) error
}

// Noop отбрасывает все события.
type Noop struct{}

// Track ничего не делает.
func (Noop) Track(context.Context, models.Event) error { return nil }

// Log пишет события в структурированный лог.
type Log struct {
	log *slog.Logger
}

// NewLog создает приёмник, пишущий в log.
func NewLog(log *slog.Logger) *Log {
	return &Log{log: log}
}

// Track пишет событие на уровне Info.
func (l *Log) Track(ctx context.Context, event models.Event) error {
	l.log.InfoContext(ctx, "telemetry event",
		slog.String("event", event.Name),
		slog.String("event_id", event.ID),
		slog.String("event_category", event.Category),
		slog.String("event_label", event.Label),
	)
	return nil
}

// Multi отправляет событие во все приёмники. Ошибки объединяются, отправка не прерывается.
type Multi []Sink

// Track вызывает Track у каждого приёмника.
func (m Multi) Track(ctx context.Context, event models.Event) error {
	var errs []error
	for _, s := range m {
		if err := s.Track(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
