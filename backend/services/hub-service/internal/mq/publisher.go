package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"roamhub/backend/services/hub-service/internal/service"
)

// channel is the part of *amqp.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends directory changes to a topic exchange.
type Publisher struct {
	channel  channel
	exchange string
	logger   *zap.Logger
}

// Dial connects to the broker.
func Dial(url string, logger *zap.Logger) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		logger.Error("rabbitmq connection failed", zap.Error(err))
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}
	logger.Info("rabbitmq connection established")
	return conn, nil
}

// NewPublisher opens a channel on conn and declares the exchange.
func NewPublisher(conn *amqp.Connection, exchange string, logger *zap.Logger) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	return newPublisher(ch, exchange, logger), nil
}

func newPublisher(ch channel, exchange string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{channel: ch, exchange: exchange, logger: logger}
}

// RoutingKey is evse.<kind>.<operator> with the operator id separators
// removed, e.g. evse.evse_status.DEGEF.
func RoutingKey(e service.ChangeEvent) string {
	operator := strings.NewReplacer("*", "", "+", "").Replace(e.OperatorID)
	return "evse." + e.Kind + "." + operator
}

// Notify publishes one persistent message per event.
func (p *Publisher) Notify(ctx context.Context, events []service.ChangeEvent) error {
	for _, e := range events {
		body, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to marshal event: %w", err)
		}
		key := RoutingKey(e)
		err = p.channel.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    e.At,
			Type:         string(e.Type),
			Body:         body,
		})
		if err != nil {
			return fmt.Errorf("failed to publish event: %w", err)
		}
		p.logger.Debug("published directory change", zap.String("routing_key", key), zap.String("evse_id", e.EVSEID))
	}
	return nil
}

// Close closes the publisher channel.
func (p *Publisher) Close() error {
	if p.channel != nil {
		return p.channel.Close()
	}
	return nil
}
