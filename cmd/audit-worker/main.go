package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"deskly/internal/audit"
	"deskly/pkg/kafka"
	kafka_config "deskly/pkg/kafka/config"
	kafka_middleware "deskly/pkg/kafka/middleware"
	"deskly/pkg/logger"
)

const ServiceName = "audit-worker"

func main() {
	log := logger.New(logger.Config{
		Level:   os.Getenv("LOG_LEVEL"),
		Format:  logger.JSON,
		Service: ServiceName,
	})

	cfg, err := kafka_config.Load()
	if err != nil {
		log.Fatal("Invalid Kafka configuration", "error", err)
	}

	auditor := audit.NewAuditor(log)

	consumer, err := kafka.NewConsumer(
		cfg,
		cfg.EventsTopic,
		cfg.AuditGroupID,
		cfg.EventsDLQTopic,
		auditor.HandleMessage,
		log,
	)
	if err != nil {
		log.Fatal("Failed to create consumer", "error", err)
	}
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(log))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		sig := <-quit
		log.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	log.Info("Audit worker started",
		"topic", cfg.EventsTopic,
		"group_id", cfg.AuditGroupID,
	)

	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Consumer stopped", "error", err)
	}

	if err := consumer.Close(); err != nil {
		log.Error("Failed to close consumer", "error", err)
	}
	log.Info("Audit worker stopped")
}
