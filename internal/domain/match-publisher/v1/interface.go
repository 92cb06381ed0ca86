package matchpublisherv1

import (
	"context"

	marketv1 "github.com/muhammadchandra19/hftx/internal/domain/market/v1"
)

// MatchPublisher publishes trade events to the match stream.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=matchpublisher_mock
type MatchPublisher interface {
	PublishMatchEvent(ctx context.Context, event *marketv1.TradeEvent) error
	Close() error
}
