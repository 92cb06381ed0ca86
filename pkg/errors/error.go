package errors

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal server error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"
	// GeneralNotFoundError represents a generic not found error.
	GeneralNotFoundError ErrorCode = "general_not_found_error"

	// ErrOrderRejected represents an order rejected by book validation.
	ErrOrderRejected ErrorCode = "order_rejected"
	// ErrOrderNotFound represents a cancel targeting an unknown order id.
	ErrOrderNotFound ErrorCode = "order_not_found"
	// ErrSymbolNotFound represents a request for a symbol the exchange does not list.
	ErrSymbolNotFound ErrorCode = "symbol_not_found"
	// ErrPriceOffTick represents a decimal price that is not a whole number of ticks.
	ErrPriceOffTick ErrorCode = "price_off_tick"
	// ErrInvalidSide represents an unrecognized side token.
	ErrInvalidSide ErrorCode = "invalid_side"

	// KafkaReadError represents an error when reading from the order topic.
	KafkaReadError ErrorCode = "kafka_read_error"
	// KafkaPublishError represents an error when publishing to the match topic.
	KafkaPublishError ErrorCode = "kafka_publish_error"

	// RedisConfigError represents an error when the Redis configuration is invalid or nil.
	RedisConfigError ErrorCode = "redis_config_error"
	// RedisConnectionError represents an error when connecting to Redis.
	RedisConnectionError ErrorCode = "redis_connection_error"
	// RedisDisconnectionError represents an error when disconnecting from Redis.
	RedisDisconnectionError ErrorCode = "redis_disconnection_error"
	// RedisPingError represents an error when pinging Redis.
	RedisPingError ErrorCode = "redis_pinging_error"
	// RedisGetError represents an error when getting a value from Redis.
	RedisGetError ErrorCode = "redis_get_error"
	// RedisSetError represents an error when setting a value in Redis.
	RedisSetError ErrorCode = "redis_set_error"
	// RedisDelError represents an error when deleting a value from Redis.
	RedisDelError ErrorCode = "redis_del_error"
	// RedisPublishError represents an error when publishing messages to channels in Redis.
	RedisPublishError ErrorCode = "redis_publish_error"
)
