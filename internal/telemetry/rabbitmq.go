package telemetry

import (
	"context"
	"fmt"
	"sync"

	"github.com/magabrotheeeer/autopay/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/autopay/internal/models"
)

// RabbitMQ публикует события в exchange с заданным ключом маршрутизации.
// amqp.Channel не безопасен для одновременной публикации, поэтому вызовы сериализуются.
type RabbitMQ struct {
	mu         sync.Mutex
	ch         rabbitmq.Publisher
	exchange   string
	routingKey string
}

// NewRabbitMQ создает приёмник поверх открытого канала.
func NewRabbitMQ(ch rabbitmq.Publisher, exchange, routingKey string) *RabbitMQ {
	return &RabbitMQ{ch: ch, exchange: exchange, routingKey: routingKey}
}

// Track публикует событие в формате JSON.
func (r *RabbitMQ) Track(ctx context.Context, event models.Event) error {
	const op = "telemetry.RabbitMQ.Track"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := rabbitmq.PublishMessage(r.ch, r.exchange, r.routingKey, event); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
