package config_test

import (
	"strings"
	"testing"
	"time"

	contracts "almoner/contracts/audit"
	"almoner/internal/platform/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.App.Name != "almoner" {
		t.Fatalf("App.Name mismatch: got %q want %q", cfg.App.Name, "almoner")
	}
	if cfg.App.IsProduction() {
		t.Fatalf("default environment must not be production, got %q", cfg.App.Env)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("HTTP.Addr mismatch: got %q want %q", cfg.HTTP.Addr, ":8080")
	}
	if cfg.Storage.Driver != config.DriverMemory {
		t.Fatalf("Storage.Driver mismatch: got %q want %q", cfg.Storage.Driver, config.DriverMemory)
	}
	if cfg.Redis.URL != "" {
		t.Fatalf("Redis.URL must default to empty, got %q", cfg.Redis.URL)
	}
	if len(cfg.Kafka.Brokers) != 0 {
		t.Fatalf("Kafka.Brokers must default to empty, got %#v", cfg.Kafka.Brokers)
	}
	if cfg.Relay.Interval != time.Second {
		t.Fatalf("Relay.Interval mismatch: got %v want %v", cfg.Relay.Interval, time.Second)
	}
}

func TestLoadKafkaTopicDefaultsToContract(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Kafka.Topic != contracts.Topic {
		t.Fatalf("Kafka.Topic mismatch: got %q want %q", cfg.Kafka.Topic, contracts.Topic)
	}
}

func TestLoadReadsPrefixedVariables(t *testing.T) {
	t.Setenv("ALMONER_ENV", "production")
	t.Setenv("ALMONER_HTTP_ADDR", ":9090")
	t.Setenv("ALMONER_HTTP_REQUEST_TIMEOUT", "25s")
	t.Setenv("ALMONER_STORAGE_DRIVER", "postgres")
	t.Setenv("ALMONER_STORAGE_POSTGRES_DSN", "postgres://almoner@localhost/almoner")
	t.Setenv("ALMONER_KAFKA_BROKERS", "one:9092,two:9092")
	t.Setenv("ALMONER_KAFKA_TOPIC", "almoner.audit.staging")
	t.Setenv("ALMONER_REDIS_URL", "redis://localhost:6379/0")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !cfg.App.IsProduction() {
		t.Fatalf("App.Env mismatch: got %q want production", cfg.App.Env)
	}
	if cfg.HTTP.Addr != ":9090" {
		t.Fatalf("HTTP.Addr mismatch: got %q want %q", cfg.HTTP.Addr, ":9090")
	}
	if cfg.HTTP.RequestTimeout != 25*time.Second {
		t.Fatalf("HTTP.RequestTimeout mismatch: got %v want %v", cfg.HTTP.RequestTimeout, 25*time.Second)
	}
	if cfg.Storage.PostgresDSN != "postgres://almoner@localhost/almoner" {
		t.Fatalf("Storage.PostgresDSN mismatch: got %q", cfg.Storage.PostgresDSN)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[0] != "one:9092" || cfg.Kafka.Brokers[1] != "two:9092" {
		t.Fatalf("Kafka.Brokers mismatch: %#v", cfg.Kafka.Brokers)
	}
	if cfg.Kafka.Topic != "almoner.audit.staging" {
		t.Fatalf("Kafka.Topic mismatch: got %q", cfg.Kafka.Topic)
	}
	if cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Fatalf("Redis.URL mismatch: got %q", cfg.Redis.URL)
	}
}

func TestLoadNormalizesBrokerList(t *testing.T) {
	t.Setenv("ALMONER_KAFKA_BROKERS", " one:9092 ,two:9092,one:9092, ")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[0] != "one:9092" || cfg.Kafka.Brokers[1] != "two:9092" {
		t.Fatalf("Kafka.Brokers mismatch: %#v", cfg.Kafka.Brokers)
	}
}

func TestLoadRejectsUnknownStorageDriver(t *testing.T) {
	t.Setenv("ALMONER_STORAGE_DRIVER", "sqlite")

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error for unknown storage driver")
	}
	if !strings.Contains(err.Error(), "unknown storage driver") {
		t.Fatalf("error mismatch: %v", err)
	}
}

func TestLoadRequiresDSNForPostgres(t *testing.T) {
	t.Setenv("ALMONER_STORAGE_DRIVER", "postgres")
	t.Setenv("ALMONER_STORAGE_POSTGRES_DSN", "")

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error when postgres driver has no DSN")
	}
	if !strings.Contains(err.Error(), "ALMONER_STORAGE_POSTGRES_DSN") {
		t.Fatalf("error mismatch: %v", err)
	}
}
