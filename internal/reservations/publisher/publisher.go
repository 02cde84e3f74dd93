package publisher

import (
	"context"
	"time"

	"deskly/pkg/kafka"
	kafka_config "deskly/pkg/kafka/config"
	kafka_middleware "deskly/pkg/kafka/middleware"
	"deskly/pkg/logger"
	"deskly/pkg/model"
)

// Publisher emits reservation lifecycle events after a state change has
// committed. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event *model.ReservationEvent) error
	Close() error
}

type kafkaPublisher struct {
	producer *kafka.Producer
}

// NewKafkaPublisher wires a producer for the reservation-events topic with a
// DLQ fallback. Messages are keyed by desk id so per-desk ordering holds.
func NewKafkaPublisher(cfg *kafka_config.Config, log *logger.Logger) (Publisher, error) {
	producer, err := kafka.NewProducer(cfg, cfg.EventsTopic, cfg.EventsDLQTopic, log)
	if err != nil {
		return nil, err
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(log))

	return &kafkaPublisher{producer: producer}, nil
}

func (p *kafkaPublisher) Publish(ctx context.Context, event *model.ReservationEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	msg := kafka.NewMessage().
		WithKey(event.Reservation.DeskID).
		WithValue(event).
		WithEventType(event.Type).
		WithSource("reservations").
		Build()

	return p.producer.Publish(ctx, msg)
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

type nopPublisher struct{}

// NewNopPublisher is used when Kafka is not configured; reservation writes
// proceed without emitting events.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, *model.ReservationEvent) error { return nil }

func (nopPublisher) Close() error { return nil }
