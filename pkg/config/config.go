package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/muhammadchandra19/hftx/pkg/redis"
)

// KafkaConfig holds the connection settings for one Kafka topic.
type KafkaConfig struct {
	Brokers []string `env:"BROKERS" envDefault:"localhost:9092"`
	Topic   string   `env:"TOPIC"`
	GroupID string   `env:"GROUP_ID"`
}

// Config holds the full configuration of the exchange service.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"hftx-exchange"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`

	// Symbols traded at startup. More can be added at runtime.
	Symbols []string `env:"SYMBOLS" envDefault:"AAPL,TSLA,MSFT,NVDA,GOOGL"`

	// TickSize is the currency value of one price tick, as a decimal
	// string. All wire prices must be whole multiples of it.
	TickSize string `env:"TICK_SIZE" envDefault:"0.01"`

	DepthLevels      int           `env:"DEPTH_LEVELS" envDefault:"10"`
	SnapshotInterval time.Duration `env:"SNAPSHOT_INTERVAL" envDefault:"30s"`

	OrderReader    KafkaConfig  `envPrefix:"KAFKA_ORDER_"`
	MatchPublisher KafkaConfig  `envPrefix:"KAFKA_MATCH_"`
	Redis          redis.Config `envPrefix:"REDIS_"`
}

// Load reads configuration from the environment, honoring a local
// .env file when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
