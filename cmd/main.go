package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/mini-maxit/anticheat/internal/config"
	"github.com/mini-maxit/anticheat/internal/logger"
	"github.com/mini-maxit/anticheat/internal/rabbitmq"
	"github.com/mini-maxit/anticheat/internal/rabbitmq/consumer"
	"github.com/mini-maxit/anticheat/internal/rabbitmq/responder"
	"github.com/mini-maxit/anticheat/internal/services"
)

func main() {
	logger := logger.NewNamedLogger("main")
	defer logger.Sync() //nolint:errcheck

	logger.Info("Starting anticheat worker")

	config := config.NewConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn := rabbitmq.NewRabbitMqConnection(config)
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Errorf("Failed to close RabbitMQ connection: %s", err)
		}
	}()

	workerChannel := rabbitmq.NewRabbitMQChannel(conn)

	detectionService := services.NewDetectionService(config, nil)
	defer func() {
		if err := detectionService.Close(); err != nil {
			logger.Errorf("Failed to close detection service: %s", err)
		}
	}()

	resp := responder.NewResponder(workerChannel, config.PublishChanSize)
	defer func() {
		if err := resp.Close(); err != nil {
			logger.Errorf("Failed to close responder: %s", err)
		}
	}()

	queueListener := consumer.NewConsumer(
		workerChannel,
		config.ConsumeQueueName,
		config.ResponseQueueName,
		config.MaxWorkers,
		detectionService,
		resp,
	)

	logger.Infof("Checking languages %v with up to %d concurrent comparisons",
		config.EnabledLanguages, config.MaxWorkers)
	if err := queueListener.Listen(ctx); err != nil {
		logger.Errorf("Consumer stopped: %s", err)
	}
	logger.Info("Anticheat worker stopped")
}
