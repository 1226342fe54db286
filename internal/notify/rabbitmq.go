package notify

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/aruana-vision/apiserver/config"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQClient publishes events to RabbitMQ queues.
type RabbitMQClient struct {
	conn    *amqp.Connection
	channel *amqp.Channel

	mu       sync.Mutex
	declared map[string]bool
}

// NewRabbitMQClient connects to RabbitMQ from config.
func NewRabbitMQClient(cfg config.RabbitMQConfig) (*RabbitMQClient, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("rabbitmq url is required")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &RabbitMQClient{
		conn:     conn,
		channel:  channel,
		declared: map[string]bool{},
	}, nil
}

func (r *RabbitMQClient) ensureQueue(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.declared[name] {
		return nil
	}
	_, err := r.channel.QueueDeclare(name, true, false, false, false, nil)
	if err != nil {
		return err
	}
	r.declared[name] = true
	return nil
}

// Publish sends one message to the named queue.
func (r *RabbitMQClient) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	if err := r.ensureQueue(channel); err != nil {
		return "", err
	}

	headers := amqp.Table{}
	for k, v := range attrs {
		headers[k] = v
	}

	id := newMessageID()
	err := r.channel.PublishWithContext(ctx, "", channel, false, false, amqp.Publishing{
		MessageId:    id,
		ContentType:  "application/json",
		Body:         data,
		Headers:      headers,
		DeliveryMode: amqp.Persistent,
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// Close tears down the channel and connection.
func (r *RabbitMQClient) Close() error {
	if err := r.channel.Close(); err != nil {
		_ = r.conn.Close()
		return err
	}
	return r.conn.Close()
}
