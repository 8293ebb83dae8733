// Package config loads the process configuration from environment variables
// so main stays lean. Every knob has a development-friendly default; the only
// values production must set are the storage DSN, the Kafka brokers, and a
// real JWT signing key.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	contracts "almoner/contracts/audit"
	pstrings "almoner/pkg/platform/strings"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// App names the process and its runtime environment.
type App struct {
	Name string `env:"APP_NAME" envDefault:"almoner"`
	Env  string `env:"ENV" envDefault:"development"`
}

// IsProduction reports whether the process runs with production defaults
// (JSON logs, no dev seeding).
func (a App) IsProduction() bool {
	return a.Env == "production"
}

// HTTP configures the public listener.
type HTTP struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Auth configures principal extraction. The signing key verifies caller
// identity tokens only; ledger authorization is capability-based and does
// not use JWTs.
type Auth struct {
	JWTSigningKey string `env:"JWT_SIGNING_KEY" envDefault:"dev-secret-key-change-in-production"`
}

// Storage selects and configures the persistence substrate.
type Storage struct {
	Driver      string `env:"DRIVER" envDefault:"memory"`
	PostgresDSN string `env:"POSTGRES_DSN"`
	SeedDevData bool   `env:"SEED_DEV_DATA" envDefault:"false"`
}

// Redis configures the epoch source. An empty URL disables Redis and the
// process falls back to a process-local epoch counter.
type Redis struct {
	URL          string        `env:"URL"`
	PoolSize     int           `env:"POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"3s"`
}

// Kafka configures the audit stream. Empty Brokers disable the outbox relay;
// records still persist to the audit store and publish once brokers return.
type Kafka struct {
	Brokers       []string `env:"BROKERS" envSeparator:","`
	Topic         string   `env:"TOPIC"`
	ConsumerGroup string   `env:"CONSUMER_GROUP" envDefault:"almoner-auditwatch"`
}

// Relay configures the audit outbox drain loop.
type Relay struct {
	Interval         time.Duration `env:"INTERVAL" envDefault:"1s"`
	BatchSize        int           `env:"BATCH_SIZE" envDefault:"100"`
	BreakerThreshold int           `env:"BREAKER_THRESHOLD" envDefault:"5"`
	BreakerCooldown  time.Duration `env:"BREAKER_COOLDOWN" envDefault:"30s"`
}

// Config is the full process configuration.
type Config struct {
	App     App     `envPrefix:"ALMONER_"`
	HTTP    HTTP    `envPrefix:"ALMONER_HTTP_"`
	Auth    Auth    `envPrefix:"ALMONER_AUTH_"`
	Storage Storage `envPrefix:"ALMONER_STORAGE_"`
	Redis   Redis   `envPrefix:"ALMONER_REDIS_"`
	Kafka   Kafka   `envPrefix:"ALMONER_KAFKA_"`
	Relay   Relay   `envPrefix:"ALMONER_RELAY_"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	// A trailing comma in ALMONER_KAFKA_BROKERS must not yield a phantom
	// empty broker address.
	cfg.Kafka.Brokers = pstrings.DedupeAndTrim(cfg.Kafka.Brokers)
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = contracts.Topic
	}
	if cfg.Storage.Driver != DriverMemory && cfg.Storage.Driver != DriverPostgres {
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	if cfg.Storage.Driver == DriverPostgres && cfg.Storage.PostgresDSN == "" {
		return nil, fmt.Errorf("storage driver %q requires ALMONER_STORAGE_POSTGRES_DSN", DriverPostgres)
	}
	return cfg, nil
}
