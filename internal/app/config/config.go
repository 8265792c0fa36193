package config

import (
	"time"

	eventpublisher "github.com/52tanbivv/coin-exchange-backend/internal/usecase/event-publisher"
	"github.com/52tanbivv/coin-exchange-backend/internal/usecase/marketdata"
	orderreader "github.com/52tanbivv/coin-exchange-backend/internal/usecase/order-reader"
	"github.com/52tanbivv/coin-exchange-backend/pkg/postgresql"
)

// Config is the matching engine's process configuration, loaded from the
// environment and an optional .env file.
type Config struct {
	Pairs            []string      `env:"EXCHANGE_PAIRS" envDefault:"BTC-USD" envSeparator:","`
	DepthLevels      int           `env:"DEPTH_LEVELS" envDefault:"5"`
	CreateMissing    bool          `env:"CREATE_MISSING_PAIRS" envDefault:"false"`
	InputBuffer      int           `env:"INPUT_BUFFER" envDefault:"1024"`
	OutputBuffer     int           `env:"OUTPUT_BUFFER" envDefault:"4096"`
	SnapshotInterval time.Duration `env:"SNAPSHOT_INTERVAL" envDefault:"30s"`
	TradeHistory     int           `env:"TRADE_HISTORY" envDefault:"100"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`

	Redis       RedisConfig       `envPrefix:"REDIS_"`
	Postgres    postgresql.Config `envPrefix:"POSTGRES_"`
	OrderReader orderreader.Config
	Publisher   eventpublisher.Config
	Server      marketdata.ServerConfig
}

// RedisConfig holds the snapshot store connection settings.
type RedisConfig struct {
	Addrs    []string `env:"ADDRS" envDefault:"localhost:6379" envSeparator:","`
	Username string   `env:"USERNAME" envDefault:""`
	Password string   `env:"PASSWORD" envDefault:""`
	DB       int      `env:"DB" envDefault:"0"`
}
