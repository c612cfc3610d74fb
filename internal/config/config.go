// internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	_ "github.com/joho/godotenv/autoload"
)

// Config is the full server configuration, loaded from the environment. A
// .env file in the working directory is folded in before parsing.
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	PostgresUser     string `env:"POSTGRES_USER" envDefault:"postgres"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	PostgresHost     string `env:"PG_HOST" envDefault:"localhost"`
	PostgresPort     string `env:"PG_PORT" envDefault:"5432"`
	PostgresDatabase string `env:"PG_DATABASE" envDefault:"ludo"`

	RedisAddr    string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisDB      int    `env:"REDIS_DB" envDefault:"0"`
	HistoryQueue string `env:"HISTORY_QUEUE_NAME" envDefault:"ludo_actions"`

	// Room economics and pacing.
	CommissionRate   float64       `env:"COMMISSION_RATE" envDefault:"0.10"`
	TurnTimeout      time.Duration `env:"TURN_TIMEOUT" envDefault:"20s"`
	StartDelay       time.Duration `env:"START_DELAY" envDefault:"1s"`
	BotThinkDelay    time.Duration `env:"BOT_THINK_DELAY" envDefault:"1200ms"`
	TwoSeatDuration  time.Duration `env:"TWO_SEAT_DURATION" envDefault:"8m"`
	FourSeatDuration time.Duration `env:"FOUR_SEAT_DURATION" envDefault:"15m"`
	FillWait         time.Duration `env:"FILL_WAIT" envDefault:"15s"`

	// Guest accounts.
	GuestStartingWallet int64         `env:"GUEST_STARTING_WALLET" envDefault:"1000"`
	SessionExpiry       time.Duration `env:"SESSION_EXPIRY" envDefault:"720h"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.CommissionRate < 0 || cfg.CommissionRate >= 1 {
		return nil, fmt.Errorf("COMMISSION_RATE must be in [0, 1), got %v", cfg.CommissionRate)
	}
	return &cfg, nil
}

// DatabaseURL assembles the Postgres connection string.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		c.PostgresUser, c.PostgresPassword,
		c.PostgresHost, c.PostgresPort, c.PostgresDatabase,
	)
}
