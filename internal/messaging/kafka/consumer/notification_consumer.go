package consumer

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/kaleaditya28897-linux/gatepass/internal/events"
	"github.com/kaleaditya28897-linux/gatepass/internal/notification"
)

// ConsumeNotifications turns workflow events into persisted, dispatched
// notifications. Undecodable messages are committed and skipped; service
// failures leave the message uncommitted for redelivery.
func ConsumeNotifications(
	ctx context.Context,
	reader *kafkago.Reader,
	notificationService notification.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.notifications")
	log.Info("notification consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("notification consumer stopped")
				return
			}
			log.Error("fetch notification message failed", zap.Error(err))
			continue
		}

		eventType := headerValue(msg, "event_type")

		switch eventType {
		case events.EventPassApproved:
			var event events.PassApprovedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Error("decode pass approved event failed", zap.Error(err))
				_ = reader.CommitMessages(ctx, msg)
				continue
			}
			err = notificationService.HandlePassApproved(ctx, event)
		case events.EventVisitorCheckedIn:
			var event events.VisitorCheckedInEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Error("decode visitor checked in event failed", zap.Error(err))
				_ = reader.CommitMessages(ctx, msg)
				continue
			}
			err = notificationService.HandleVisitorCheckedIn(ctx, event)
		case events.EventDeliveryArrived:
			var event events.DeliveryArrivedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Error("decode delivery arrived event failed", zap.Error(err))
				_ = reader.CommitMessages(ctx, msg)
				continue
			}
			err = notificationService.HandleDeliveryArrived(ctx, event)
		default:
			log.Warn("unknown notification event type, skipping",
				zap.String("event_type", eventType),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err != nil {
			log.Error("handle notification event failed",
				zap.String("event_type", eventType),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit notification message failed", zap.Error(err))
			continue
		}

		log.Info("notification event handled", zap.String("event_type", eventType))
	}
}

func headerValue(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
