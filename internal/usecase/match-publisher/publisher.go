package matchpublisher

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	marketv1 "github.com/muhammadchandra19/hftx/internal/domain/market/v1"
	"github.com/muhammadchandra19/hftx/pkg/config"
	"github.com/muhammadchandra19/hftx/pkg/errors"
	"github.com/muhammadchandra19/hftx/pkg/logger"
)

// Publisher represents a Kafka publisher for match events.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      logger.Interface
}

// NewPublisher creates a new Kafka publisher for publishing match events.
func NewPublisher(cfg config.KafkaConfig, log logger.Interface) *Publisher {
	kafkaWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		Balancer: &kafka.Hash{},
	})

	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      log,
	}
}

// PublishMatchEvent publishes a match event to the match topic. The
// symbol keys the message so one symbol's trades stay ordered within
// a partition.
func (p *Publisher) PublishMatchEvent(ctx context.Context, event *marketv1.TradeEvent) error {
	buf, err := json.Marshal(event)
	if err != nil {
		return errors.NewTracer(string(errors.KafkaPublishError)).Wrap(err)
	}

	msg := kafka.Message{
		Key:   []byte(event.Symbol),
		Value: buf,
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.ErrorContext(ctx, err,
			logger.Field{Key: "eventId", Value: event.EventID},
			logger.Field{Key: "symbol", Value: event.Symbol},
		)
		return errors.NewTracer("failed to publish match event").Wrap(err)
	}
	return nil
}

// Close properly closes the Kafka writer.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
