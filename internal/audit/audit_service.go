package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kaleaditya28897-linux/gatepass/internal/events"
)

type Service interface {
	Record(ctx context.Context, event events.AuditEvent) error
	GetAll(ctx context.Context, filter ListAuditFilter) ([]AuditLogResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("audit.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Record(ctx context.Context, event events.AuditEvent) error {
	log := &AuditLog{
		ID:           uuid.New(),
		ActorID:      event.ActorID,
		ActorRole:    event.ActorRole,
		Action:       event.Action,
		ResourceType: event.ResourceType,
		ResourceID:   event.ResourceID,
		Description:  event.Description,
		OccurredAt:   event.OccurredAt,
	}
	if log.OccurredAt.IsZero() {
		log.OccurredAt = time.Now().UTC()
	}

	if err := s.repo.Create(ctx, log); err != nil {
		s.logger.Error("audit record failed",
			zap.String("action", event.Action),
			zap.String("resource_id", event.ResourceID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) GetAll(ctx context.Context, filter ListAuditFilter) ([]AuditLogResponse, error) {
	rows, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]AuditLogResponse, len(rows))
	for i, log := range rows {
		resp[i] = AuditLogResponse{
			ID:           log.ID.String(),
			ActorID:      log.ActorID,
			ActorRole:    log.ActorRole,
			Action:       log.Action,
			ResourceType: log.ResourceType,
			ResourceID:   log.ResourceID,
			Description:  log.Description,
			OccurredAt:   log.OccurredAt.Format(time.RFC3339),
		}
	}
	return resp, nil
}
