package notify

import (
	"context"
	"fmt"
	"log/slog"

	"dispatch/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes one message per event keyed by order id, so all changes of
// an order land on the same partition in commit order.
type Kafka struct {
	writer messageWriter
	topic  string
}

func NewKafka(brokers []string, topic string, logger *slog.Logger) *Kafka {
	log := kafkaLogger{logger: logger.With("component", "kafka-writer")}
	return newKafka(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		Logger:       log,
		ErrorLogger:  kafkaErrorLogger(log),
	}, topic)
}

func newKafka(writer messageWriter, topic string) *Kafka {
	return &Kafka{writer: writer, topic: topic}
}

func (k *Kafka) Notify(ctx context.Context, event ports.OrderEvent) error {
	value, err := encode(event)
	if err != nil {
		return fmt.Errorf("encode %s: %w", event.Type, err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID.String()),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	}
	if err = k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish to %s: %w", k.topic, err)
	}
	return nil
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}

type kafkaLogger struct {
	logger *slog.Logger
}

func (k kafkaLogger) Printf(msg string, args ...any) {
	k.logger.Debug(fmt.Sprintf(msg, args...))
}

type kafkaErrorLogger kafkaLogger

func (k kafkaErrorLogger) Printf(msg string, args ...any) {
	k.logger.Error(fmt.Sprintf(msg, args...))
}
