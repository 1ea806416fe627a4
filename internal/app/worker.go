package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"hris-admin/internal/messaging/kafka"
	"hris-admin/internal/messaging/kafka/producer"
	"hris-admin/internal/shared/config"
	"hris-admin/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker menjalankan relay outbox directory ke Kafka sampai menerima sinyal.
func RunWorker(cfg config.Worker) error {
	logger := zap.L().Named("app.worker")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB, 5)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(connection.BrokerAddr(cfg.KafkaBroker), 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		cfg.PollInterval,
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}
