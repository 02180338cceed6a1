package consumer

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/kaleaditya28897-linux/gatepass/internal/audit"
	"github.com/kaleaditya28897-linux/gatepass/internal/events"
)

func ConsumeAuditTrail(
	ctx context.Context,
	reader *kafkago.Reader,
	auditService audit.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.audit")
	log.Info("audit trail consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("audit trail consumer stopped")
				return
			}
			log.Error("fetch audit message failed", zap.Error(err))
			continue
		}

		var event events.AuditEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode audit event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := auditService.Record(ctx, event); err != nil {
			log.Error("record audit event failed",
				zap.String("action", event.Action),
				zap.String("resource_id", event.ResourceID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit audit message failed", zap.Error(err))
			continue
		}

		log.Info("audit event recorded",
			zap.String("action", event.Action),
			zap.String("resource_type", event.ResourceType),
			zap.String("resource_id", event.ResourceID),
		)
	}
}
