package depthcache

import (
	"context"
	"encoding/json"

	orderbookv1 "github.com/muhammadchandra19/hftx/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/hftx/pkg/errors"
	"github.com/muhammadchandra19/hftx/pkg/logger"
	"github.com/muhammadchandra19/hftx/pkg/redis"
)

const keyPrefix = "depth:"

// Store keeps the latest depth snapshot per symbol in Redis so
// market-data consumers can read the current book without touching
// the engine. The engine only ever writes: this is a cache of live
// state, not recovery state.
type Store struct {
	logger      logger.Interface
	redisclient redis.Client
}

// NewStore creates a depth cache backed by the given Redis client.
func NewStore(redisclient redis.Client, log logger.Interface) *Store {
	return &Store{
		logger:      log,
		redisclient: redisclient,
	}
}

// Store writes the snapshot under the symbol's key and announces it
// on the symbol's channel for pub/sub consumers.
func (s *Store) Store(ctx context.Context, symbol string, snapshot *orderbookv1.DepthSnapshot) error {
	buf, err := json.Marshal(snapshot)
	if err != nil {
		return errors.NewTracer("depth_snapshot_marshal_error").Wrap(err)
	}

	if err := s.redisclient.Set(ctx, keyPrefix+symbol, buf, 0); err != nil {
		s.logger.ErrorContext(ctx, err,
			logger.Field{Key: "symbol", Value: symbol},
		)
		return errors.NewTracer("depth_snapshot_store_error").Wrap(err)
	}

	if _, err := s.redisclient.Publish(ctx, keyPrefix+symbol, buf); err != nil {
		s.logger.ErrorContext(ctx, err,
			logger.Field{Key: "symbol", Value: symbol},
		)
		return errors.NewTracer("depth_snapshot_publish_error").Wrap(err)
	}

	s.logger.DebugContext(ctx, "depth snapshot stored",
		logger.Field{Key: "symbol", Value: symbol},
		logger.Field{Key: "bidLevels", Value: snapshot.BidLevelCount},
		logger.Field{Key: "askLevels", Value: snapshot.AskLevelCount},
	)
	return nil
}

// Load reads the latest snapshot for a symbol.
func (s *Store) Load(ctx context.Context, symbol string) (*orderbookv1.DepthSnapshot, error) {
	data, err := s.redisclient.Get(ctx, keyPrefix+symbol)
	if err != nil {
		return nil, errors.NewTracer("depth_snapshot_load_error").Wrap(err)
	}

	var snapshot orderbookv1.DepthSnapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		return nil, errors.NewTracer("depth_snapshot_unmarshal_error").Wrap(err)
	}
	return &snapshot, nil
}
