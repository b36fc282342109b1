// Package mq publishes content change events to a message broker. RabbitMQ
// and Google Pub/Sub are supported; the default backend discards events.
package mq

import (
	"context"
	"fmt"

	"github.com/inkwell-cms/apiserver/config"
)

// Message represents a broker-agnostic payload delivered to subscribers.
type Message struct {
	ID         string
	Data       []byte
	Attributes map[string]string
}

// Handler processes a message. Return an error to signal a retry/nack.
type Handler func(ctx context.Context, msg Message) error

// Backend defines the broker-agnostic operations used by the app.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Subscribe(ctx context.Context, channel string, handler Handler) error
	Close() error
}

// MQ wraps a backend with a stable API.
type MQ struct {
	backend Backend
}

// New constructs an MQ wrapper for the provided backend.
func New(backend Backend) *MQ {
	return &MQ{backend: backend}
}

// Open connects to the backend selected by cfg.MQBackend.
func Open(ctx context.Context, cfg config.Config) (*MQ, error) {
	var (
		backend Backend
		err     error
	)
	switch cfg.MQBackend {
	case config.MQNone, "":
		backend = Discard{}
	case config.MQRabbitMQ:
		backend, err = NewRabbitMQClient(cfg.RabbitMQ)
	case config.MQPubSub:
		backend, err = NewPubSubClient(ctx, cfg.PubSub)
	default:
		return nil, fmt.Errorf("unknown mq backend %q", cfg.MQBackend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s mq: %w", cfg.MQBackend, err)
	}
	return New(backend), nil
}

// Publish sends a message to the named channel.
func (m *MQ) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	return m.backend.Publish(ctx, channel, data, attrs)
}

// Subscribe consumes messages from the named channel until ctx is done.
func (m *MQ) Subscribe(ctx context.Context, channel string, handler Handler) error {
	return m.backend.Subscribe(ctx, channel, handler)
}

// Close closes the underlying backend.
func (m *MQ) Close() error {
	return m.backend.Close()
}

// Discard is a Backend that drops every message.
type Discard struct{}

func (Discard) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	return "", nil
}

// Subscribe blocks until ctx is done; nothing is ever delivered.
func (Discard) Subscribe(ctx context.Context, channel string, handler Handler) error {
	<-ctx.Done()
	return ctx.Err()
}

func (Discard) Close() error { return nil }
