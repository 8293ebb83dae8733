// Command server runs the almoner ledger API: pooled charitable funds with
// capability-authorized transfers and a fail-closed audit trail.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	httpapi "almoner/internal/http"
	ledgerhandler "almoner/internal/ledger/handler"
	ledgermetrics "almoner/internal/ledger/metrics"
	"almoner/internal/ledger/service"
	ledgerstore "almoner/internal/ledger/store"
	"almoner/internal/ledger/store/capability"
	"almoner/internal/ledger/store/center"
	"almoner/internal/ledger/store/credit"
	"almoner/internal/platform/config"
	"almoner/internal/platform/epoch"
	"almoner/internal/platform/httpserver"
	"almoner/internal/platform/kafka"
	"almoner/internal/platform/logger"
	"almoner/internal/platform/metrics"
	"almoner/internal/platform/middleware"
	platformredis "almoner/internal/platform/redis"
	"almoner/pkg/platform/audit"
	"almoner/pkg/platform/audit/relay"
	auditmemory "almoner/pkg/platform/audit/store/memory"
	auditpostgres "almoner/pkg/platform/audit/store/postgres"
	"almoner/pkg/platform/tx"
)

// auditStore is the full audit persistence surface: Append for the emitter,
// the outbox reads for the relay.
type auditStore interface {
	audit.Store
	relay.Store
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.App.Env, cfg.App.Name)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		centers      service.CenterStore
		capabilities service.CapabilityStore
		credits      service.CreditStore
		records      auditStore
		svcOpts      []service.Option
	)

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := sql.Open("postgres", cfg.Storage.PostgresDSN)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		defer db.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			return fmt.Errorf("ping postgres: %w", err)
		}

		centers = center.NewPostgres(db)
		capabilities = capability.NewPostgres(db)
		credits = credit.NewPostgres(db)
		records = auditpostgres.New(db)
		svcOpts = append(svcOpts, service.WithTx(tx.NewRunner(db)))
	default:
		memCenters := center.NewInMemory()
		memCapabilities := capability.NewInMemory()
		centers, capabilities = memCenters, memCapabilities
		credits = credit.NewInMemory()
		records = auditmemory.NewInMemoryStore()

		if cfg.Storage.SeedDevData && !cfg.App.IsProduction() {
			seeded, err := ledgerstore.SeedDemoCenters(memCenters, memCapabilities)
			if err != nil {
				return fmt.Errorf("seed dev data: %w", err)
			}
			for _, s := range seeded {
				log.Info("seeded demo center",
					"center_id", s.Center.ID,
					"name", s.Center.Name,
					"capability_token", fmt.Sprintf("%s.%s", s.Capability.ID, s.Secret),
				)
			}
		}
	}
	log.Info("storage ready", "driver", cfg.Storage.Driver)

	emitter := audit.NewEmitter(records,
		audit.WithLogger(log),
		audit.WithMetrics(audit.NewMetrics()),
	)

	svc, err := service.New(centers, capabilities, credits, emitter,
		append(svcOpts, service.WithLogger(log), service.WithMetrics(ledgermetrics.New()))...)
	if err != nil {
		return fmt.Errorf("construct ledger service: %w", err)
	}

	// Epoch source: Redis when configured so epochs order operations across
	// replicas, a process-local counter otherwise.
	var epochs epoch.Source = epoch.NewCounter()
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		epochs = epoch.NewRedisSource(redisClient.Client)
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Ledger:   ledgerhandler.New(svc, log),
		Verifier: middleware.NewJWTVerifier(cfg.Auth.JWTSigningKey),
		Epochs:   epochs,
		Metrics:  metrics.New(),
		Logger:   log,
		Timeout:  cfg.HTTP.RequestTimeout,
	})
	srv := httpserver.New(cfg.HTTP, router)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http server listening", "addr", cfg.HTTP.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if len(cfg.Kafka.Brokers) > 0 {
		if err := kafka.EnsureTopics(ctx, cfg.Kafka.Brokers, 3, 1, cfg.Kafka.Topic); err != nil {
			return fmt.Errorf("ensure audit topic: %w", err)
		}
		producer, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			return fmt.Errorf("kafka producer: %w", err)
		}
		defer producer.Close()

		rel := relay.New(records, producer,
			relay.WithLogger(log),
			relay.WithMetrics(relay.NewMetrics()),
			relay.WithInterval(cfg.Relay.Interval),
			relay.WithBatchSize(cfg.Relay.BatchSize),
			relay.WithBreaker(relay.NewCircuitBreaker(cfg.Relay.BreakerThreshold, cfg.Relay.BreakerCooldown)),
		)
		g.Go(func() error {
			if err := rel.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("audit relay: %w", err)
			}
			return nil
		})
		log.Info("audit relay started", "topic", cfg.Kafka.Topic)
	} else {
		log.Info("audit relay disabled, no kafka brokers configured")
	}

	return g.Wait()
}
