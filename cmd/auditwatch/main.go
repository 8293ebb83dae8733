// Command auditwatch tails the audit stream and logs every record. It is the
// reference consumer for the audit topic: operators run it to watch ledger
// activity live, and it doubles as the template for real downstream
// consumers.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"almoner/internal/platform/config"
	"almoner/internal/platform/kafka"
	"almoner/internal/platform/logger"
	"almoner/pkg/platform/audit/consumer"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.App.Env, "auditwatch")

	if len(cfg.Kafka.Brokers) == 0 {
		log.Error("no kafka brokers configured, set ALMONER_KAFKA_BROKERS")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	router := consumer.NewRouter(log, nil)
	router.Register(cfg.Kafka.Topic, consumer.NewLogHandler(log))

	c, err := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.ConsumerGroup, router.Topics(), router, log)
	if err != nil {
		log.Error("failed to join consumer group", "error", err)
		os.Exit(1)
	}
	defer c.Close()

	log.Info("watching audit stream",
		"topic", cfg.Kafka.Topic,
		"group", cfg.Kafka.ConsumerGroup,
	)
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("consumer stopped", "error", err)
		os.Exit(1)
	}
	log.Info("auditwatch stopped")
}
