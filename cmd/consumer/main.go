package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"example.com/timewealth/internal/config"
	"example.com/timewealth/internal/consumer"
	"example.com/timewealth/internal/logging"
	"example.com/timewealth/internal/persistence/postgres"
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

	pool, err := pgxpool.New(ctx, cfg.Postgres.URL)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	service := tracker.NewService(postgres.NewRepository(pool), tracker.WithLogger(logger.Named("tracker")))
	handler := consumer.NewRouter(service, consumer.NewPersistenceHandler(pool))

	metricsSrv := &http.Server{Addr: cfg.Metrics.Address, Handler: promhttp.Handler()}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := httptransport.Serve(ctx, metricsSrv, 10*time.Second, logger.Named("metrics")); err != nil {
			logger.Error("metrics server error", zap.Error(err))
		}
	}()

	for _, topic := range cfg.Consumer.Topics {
		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:         cfg.Kafka.Brokers,
			GroupID:         cfg.Consumer.GroupID,
			Topic:           topic,
			MinBytes:        1e3,
			MaxBytes:        10e6,
			CommitInterval:  time.Second,
			RetentionTime:   24 * time.Hour,
			ReadLagInterval: -1,
		})

		log := logger.With(zap.String("topic", topic), zap.String("group", cfg.Consumer.GroupID))
		proc := consumer.NewProcessor(reader, handler, consumer.WithLogger(log))

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer reader.Close()

			log.Info("consumer started")
			if err := proc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("consumer stopped with error", zap.Error(err))
			}
		}()
	}

	<-ctx.Done()
	logger.Info("consumer shutdown requested")
	wg.Wait()
}
