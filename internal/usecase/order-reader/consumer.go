package orderreader

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	marketv1 "github.com/muhammadchandra19/hftx/internal/domain/market/v1"
	"github.com/muhammadchandra19/hftx/pkg/config"
	"github.com/muhammadchandra19/hftx/pkg/logger"
)

// Reader represents a Kafka reader for consuming messages from the
// order topic.
type Reader struct {
	kafkaReader *kafka.Reader
	logger      logger.Interface
}

// NewReader creates a new Kafka reader for consuming messages from the order topic.
// It returns an implementation of the OrderReader interface.
func NewReader(cfg config.KafkaConfig, log logger.Interface) *Reader {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		GroupID:     cfg.GroupID,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})

	return &Reader{
		kafkaReader: kafkaReader,
		logger:      log,
	}
}

// SetOffset sets the offset for the Kafka reader.
func (r *Reader) SetOffset(offset int64) error {
	if err := r.kafkaReader.SetOffset(offset); err != nil {
		r.logError(err, "SetOffset")
		return err
	}
	return nil
}

// ReadMessage reads one message from the order topic and parses it as
// a PlaceOrderPayload.
func (r *Reader) ReadMessage(ctx context.Context) (kafka.Message, *marketv1.PlaceOrderPayload, error) {
	msg, err := r.kafkaReader.ReadMessage(ctx)
	if err != nil {
		r.logError(err, "ReadMessage")
		return kafka.Message{}, nil, err
	}

	var payload marketv1.PlaceOrderPayload
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		r.logError(err, "UnmarshalOrder")
		return kafka.Message{}, nil, err
	}

	r.logger.Debug("ReadMessage",
		logger.Field{Key: "symbol", Value: payload.Symbol},
		logger.Field{Key: "type", Value: payload.Type},
		logger.Field{Key: "side", Value: payload.Side},
		logger.Field{Key: "price", Value: payload.Price},
		logger.Field{Key: "quantity", Value: payload.Quantity},
		logger.Field{Key: "offset", Value: msg.Offset},
	)

	payload.Offset = msg.Offset

	return msg, &payload, nil
}

// Close properly closes the Kafka reader.
func (r *Reader) Close() error {
	if err := r.kafkaReader.Close(); err != nil {
		r.logError(err, "Close")
		return err
	}
	return nil
}

// logError is a helper method to log errors consistently
func (r *Reader) logError(err error, operation string) {
	r.logger.Error(err,
		logger.Field{Key: "operation", Value: operation},
	)
}
