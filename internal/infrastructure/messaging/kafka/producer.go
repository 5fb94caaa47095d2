// Package kafka publishes the service's domain events: three-day-rule scan
// summaries and alert-delivery confirmations.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/lexwatch/lexwatch/internal/application/deadline"
	"github.com/lexwatch/lexwatch/internal/config"
	"github.com/lexwatch/lexwatch/internal/infrastructure/monitoring/logging"
	"github.com/lexwatch/lexwatch/pkg/errors"
)

// eventSource identifies this service in event envelopes.
const eventSource = "lexwatch"

// EventEnvelope is the wire shape of every published event.
type EventEnvelope struct {
	EventID   string          `json:"event_id"`
	Topic     string          `json:"topic"`
	Source    string          `json:"source"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// writerInterface abstracts kafka.Writer for testing.
type writerInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer implements deadline.EventPublisher over a kafka writer.  Topics
// are chosen per message, so one writer serves every event type.
type Producer struct {
	writer writerInterface
	log    logging.Logger
}

var _ deadline.EventPublisher = (*Producer)(nil)

// NewProducer builds a Producer from configuration.
func NewProducer(cfg config.KafkaConfig, log logging.Logger) *Producer {
	if log == nil {
		log = logging.NewNopLogger()
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  cfg.ProducerRetries + 1,
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return &Producer{writer: w, log: log.Named("kafka")}
}

// newProducerWithWriter injects a writer.  Used by tests.
func newProducerWithWriter(w writerInterface, log logging.Logger) *Producer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Producer{writer: w, log: log}
}

// Publish wraps payload in an envelope and writes it to topic, keyed so
// related events preserve partition order.
func (p *Producer) Publish(ctx context.Context, topic string, key string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode event payload")
	}

	env := EventEnvelope{
		EventID:   uuid.NewString(),
		Topic:     topic,
		Source:    eventSource,
		Timestamp: time.Now().UTC(),
		Payload:   raw,
	}
	value, err := json.Marshal(env)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode event envelope")
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return errors.Wrap(err, errors.ErrCodeAlertEventError, "failed to publish event to "+topic)
	}

	p.log.Debug("event published", logging.String("topic", topic), logging.String("key", key))
	return nil
}

// Close flushes and closes the writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
