package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nishantchy/ecom-microservice/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	amqp "github.com/rabbitmq/amqp091-go"
)

var publishFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "order_publish_failures_total",
	Help: "order.created publishes that failed after the order committed",
})

// RabbitPublisher emits order.created notifications with persistent delivery.
// Each publish owns its own connection lifecycle; a pooled or outbox-backed
// implementation can replace it behind usecase.EventPublisher.
type RabbitPublisher struct {
	url        string
	exchange   string
	routingKey string
}

func NewRabbitPublisher(url, exchange, routingKey string) *RabbitPublisher {
	return &RabbitPublisher{url: url, exchange: exchange, routingKey: routingKey}
}

func (p *RabbitPublisher) Publish(ctx context.Context, n usecase.OrderNotification) error {
	if err := p.publish(ctx, n); err != nil {
		publishFailures.Inc()
		return err
	}
	return nil
}

func (p *RabbitPublisher) publish(ctx context.Context, n usecase.OrderNotification) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	// durable topic exchange
	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	// The consumer queue carries the routing key as its name; declaring and
	// binding it here keeps messages from being dropped before any consumer
	// has started.
	q, err := ch.QueueDeclare(p.routingKey, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, p.routingKey, p.exchange, false, nil); err != nil {
		return fmt.Errorf("queue bind: %w", err)
	}

	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // survive broker restarts
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, p.exchange, p.routingKey, false, false, pub); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

var _ usecase.EventPublisher = (*RabbitPublisher)(nil)
