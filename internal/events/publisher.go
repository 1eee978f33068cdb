package events

import (
	"context"
	"encoding/json"
	"time"

	"storefront-be/internal/logger"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher emits domain events after they have been committed to the
// store. Publication is best-effort: a broker failure never affects the
// order that triggered it.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, payload OrderPlacedPayload)
	Close() error
}

type kafkaPublisher struct {
	w       *kafka.Writer
	service string
}

func NewKafkaPublisher(brokers []string, service string) Publisher {
	return &kafkaPublisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        TopicOrders,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		service: service,
	}
}

func (p *kafkaPublisher) PublishOrderPlaced(ctx context.Context, payload OrderPlacedPayload) {
	raw, err := json.Marshal(payload)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to marshal event payload", zap.Error(err))
		return
	}

	ev := Envelope{
		EventID:      uuid.NewString(),
		EventType:    EventOrderPlaced,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     p.service,
		RequestID:    logger.RequestIDFrom(ctx),
		Payload:      raw,
	}

	value, err := json.Marshal(ev)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to marshal event envelope", zap.Error(err))
		return
	}

	err = p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(payload.OrderID),
		Value: value,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "x-event-type", Value: []byte(EventOrderPlaced)},
			{Key: "x-event-version", Value: []byte("1")},
		},
	})
	if err != nil {
		logger.FromCtx(ctx).Error("failed to publish order event",
			zap.String("order_id", payload.OrderID),
			zap.Error(err),
		)
	}
}

func (p *kafkaPublisher) Close() error {
	return p.w.Close()
}
