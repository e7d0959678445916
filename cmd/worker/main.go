package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/lib/pq"

	"github.com/inkstone/bookstore-api/internal/domain"
	"github.com/inkstone/bookstore-api/internal/messaging"
	"github.com/inkstone/bookstore-api/internal/telemetry"
	"github.com/inkstone/bookstore-api/internal/worker"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	kafkaBrokers := os.Getenv("KAFKA_BROKERS")
	if kafkaBrokers == "" {
		logger.Error("KAFKA_BROKERS environment variable is required")
		os.Exit(1)
	}

	postgresURL := os.Getenv("POSTGRES_URL")
	if postgresURL == "" {
		logger.Error("POSTGRES_URL environment variable is required")
		os.Exit(1)
	}

	db, err := telemetry.OpenDB("postgres", postgresURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	brokers := strings.Split(kafkaBrokers, ",")

	createdConsumer := messaging.NewConsumer(brokers, domain.TopicOrderCreated, "order-audit-worker")
	defer func() { _ = createdConsumer.Close() }()

	paidConsumer := messaging.NewConsumer(brokers, domain.TopicOrderPaid, "order-audit-worker")
	defer func() { _ = paidConsumer.Close() }()

	recorder := worker.NewAuditRecorder(worker.NewOrderEventRepository(db), logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	logger.Info("starting order audit worker", "brokers", brokers)

	errs := make(chan error, 2)
	go func() { errs <- createdConsumer.Consume(ctx, recorder.HandleOrderCreated) }()
	go func() { errs <- paidConsumer.Consume(ctx, recorder.HandleOrderPaid) }()

	if err := <-errs; err != nil {
		if ctx.Err() == context.Canceled {
			logger.Info("consumer stopped")
			return
		}
		logger.Error("consumer error", "error", err)
		os.Exit(1)
	}
}
