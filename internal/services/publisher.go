package services

import (
	"fmt"

	"github.com/streadway/amqp"

	"alfredoptarigan/hiremind/internal/logger"
)

// Publisher sends event payloads to a message broker exchange.
type Publisher interface {
	Publish(exchange string, body []byte) error
	Close()
}

type AMQPPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewAMQPPublisher connects to RabbitMQ.
func NewAMQPPublisher(amqpURL string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open broker channel: %w", err)
	}
	return &AMQPPublisher{conn: conn, channel: ch}, nil
}

// Publish declares a durable fanout exchange and publishes a JSON body to it.
func (p *AMQPPublisher) Publish(exchange string, body []byte) error {
	err := p.channel.ExchangeDeclare(
		exchange,
		"fanout",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}
	err = p.channel.Publish(
		exchange,
		"",
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

func (p *AMQPPublisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// NopPublisher drops every message. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(exchange string, body []byte) error {
	logger.Logger.WithField("exchange", exchange).Debug("Broker disabled, event dropped")
	return nil
}

func (NopPublisher) Close() {}

// NewPublisher connects to amqpURL, or returns a NopPublisher when it is empty.
func NewPublisher(amqpURL string) (Publisher, error) {
	if amqpURL == "" {
		logger.Logger.Info("📭 AMQP_URL not set, interview events will not be published")
		return NopPublisher{}, nil
	}
	p, err := NewAMQPPublisher(amqpURL)
	if err != nil {
		return nil, err
	}
	logger.Logger.Info("📬 Connected to message broker")
	return p, nil
}
