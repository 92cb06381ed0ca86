package depthcachev1

import (
	"context"

	orderbookv1 "github.com/muhammadchandra19/hftx/internal/domain/orderbook/v1"
)

// Store caches per-symbol depth snapshots for market-data consumers.
// The engine only writes; readers live outside this service.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=depthcache_mock
type Store interface {
	Store(ctx context.Context, symbol string, snapshot *orderbookv1.DepthSnapshot) error
	Load(ctx context.Context, symbol string) (*orderbookv1.DepthSnapshot, error)
}
