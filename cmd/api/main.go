package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"example.com/timewealth/internal/api"
	"example.com/timewealth/internal/auth"
	"example.com/timewealth/internal/config"
	"example.com/timewealth/internal/domain"
	"example.com/timewealth/internal/logging"
	"example.com/timewealth/internal/outbox"
	"example.com/timewealth/internal/persistence/file"
	"example.com/timewealth/internal/persistence/memory"
	"example.com/timewealth/internal/persistence/postgres"
	"example.com/timewealth/internal/reflection"
	"example.com/timewealth/internal/tracker"
	httptransport "example.com/timewealth/internal/transport/http"
)

func main() {
	configPath := flag.String("config", os.Getenv("TIMEWEALTH_CONFIG"), "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, cleanup, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer cleanup()

	catalog, err := reflection.DefaultCatalog()
	if err != nil {
		logger.Fatal("failed to load reflection catalog", zap.Error(err))
	}

	service := tracker.NewService(store, tracker.WithLogger(logger.Named("tracker")))
	handler := api.NewHandler(service, catalog, logger.Named("api"))

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	authMiddleware := auth.NewMiddleware(auth.Config{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})
	chain := authMiddleware.Wrap(mux)
	chain = httptransport.CORS(cfg.HTTP.CORSOrigin)(chain)
	chain = httptransport.RequestLogger(logger.Named("http"))(chain)

	serverCfg := httptransport.DefaultServerConfig(cfg.HTTP.Address)
	serverCfg.ShutdownTimeout = cfg.HTTP.ShutdownTimeout
	server := httptransport.NewServer(serverCfg, chain)

	if err := httptransport.Serve(ctx, server, serverCfg.ShutdownTimeout, logger); err != nil {
		logger.Error("server error", zap.Error(err))
	}
	stop()
	logger.Info("timewealth api stopped")
}

// openStore selects the backend named by store.driver. The postgres driver
// also runs the outbox dispatcher until ctx is cancelled.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (domain.Store, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverFile:
		logger.Info("using snapshot store", zap.String("path", cfg.Store.SnapshotPath))
		return file.NewStore(cfg.Store.SnapshotPath), func() {}, nil

	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, err
		}
		producer := outbox.NewKafkaProducer(cfg.Kafka.Brokers, outbox.WithProducerLogger(logger.Named("kafka")))
		registry := outbox.NewSchemaRegistryClient(cfg.Schema.RegistryURL)
		dispatcher := outbox.NewDispatcher(pool, producer, registry, cfg.Outbox.PollInterval, cfg.Outbox.BatchSize,
			outbox.WithLogger(logger.Named("outbox")))
		go dispatcher.Start(ctx)

		cleanup := func() {
			dispatcher.Wait()
			if err := producer.Close(); err != nil {
				logger.Warn("kafka producer close failed", zap.Error(err))
			}
			pool.Close()
		}
		return postgres.NewRepository(pool), cleanup, nil

	default:
		store := memory.NewStore()
		if user := cfg.Store.SeedDemoUser; user != "" {
			if err := memory.Seed(ctx, store, user, time.Now(), 1); err != nil {
				return nil, nil, err
			}
			logger.Info("seeded demo history", zap.String("user_id", user), zap.Int("days", memory.SeedDays))
		}
		return store, func() {}, nil
	}
}
