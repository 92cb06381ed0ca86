package orderreaderv1

import (
	"context"

	"github.com/segmentio/kafka-go"

	marketv1 "github.com/muhammadchandra19/hftx/internal/domain/market/v1"
)

// OrderReader consumes order intake messages from the order stream.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=orderreader_mock
type OrderReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, *marketv1.PlaceOrderPayload, error)
	SetOffset(offset int64) error
	Close() error
}
