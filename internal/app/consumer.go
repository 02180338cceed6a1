package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/kaleaditya28897-linux/gatepass/internal/audit"
	"github.com/kaleaditya28897-linux/gatepass/internal/events"
	"github.com/kaleaditya28897-linux/gatepass/internal/messaging/kafka/consumer"
	"github.com/kaleaditya28897-linux/gatepass/internal/notification"
	"github.com/kaleaditya28897-linux/gatepass/internal/shared/connection"
)

// RunConsumer reads the notification and audit topics and applies them
// through the respective services.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	frontendBaseURL := os.Getenv("FRONTEND_BASE_URL")
	if frontendBaseURL == "" {
		frontendBaseURL = "http://localhost:5173"
	}

	notificationRepo := notification.NewRepository(gormDB)
	notificationService := notification.NewService(
		notificationRepo,
		notification.NewConsoleDispatcher(),
		frontendBaseURL,
	)

	auditRepo := audit.NewRepository(gormDB)
	auditService := audit.NewService(auditRepo)

	notificationReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.NotificationTopic,
		GroupID:        "gatepass-notifications",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer notificationReader.Close()

	auditReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.AuditTopic,
		GroupID:        "gatepass-audit",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer auditReader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeNotifications(ctx, notificationReader, notificationService, logger)
	go consumer.ConsumeAuditTrail(ctx, auditReader, auditService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
