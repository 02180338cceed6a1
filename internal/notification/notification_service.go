package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kaleaditya28897-linux/gatepass/internal/events"
)

type Service interface {
	HandlePassApproved(ctx context.Context, event events.PassApprovedEvent) error
	HandleVisitorCheckedIn(ctx context.Context, event events.VisitorCheckedInEvent) error
	HandleDeliveryArrived(ctx context.Context, event events.DeliveryArrivedEvent) error
	GetAll(ctx context.Context, filter ListNotificationFilter) ([]NotificationResponse, error)
}

type service struct {
	repo            Repository
	dispatcher      Dispatcher
	frontendBaseURL string
	logger          *zap.Logger
}

func NewService(repo Repository, dispatcher Dispatcher, frontendBaseURL string, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{
		repo:            repo,
		dispatcher:      dispatcher,
		frontendBaseURL: frontendBaseURL,
		logger:          l,
	}
}

// HandlePassApproved messages the visitor on every channel they provided.
func (s *service) HandlePassApproved(ctx context.Context, event events.PassApprovedEvent) error {
	passURL := fmt.Sprintf("%s/pass/%s", s.frontendBaseURL, event.PassCode)
	message := fmt.Sprintf(
		"Your visitor pass for %s has been approved. Show this QR code at the gate: %s",
		event.CompanyName, passURL,
	)

	if event.VisitorPhone != "" {
		n := &Notification{
			ID:             uuid.New(),
			RecipientPhone: event.VisitorPhone,
			Channel:        ChannelSMS,
			Message:        message,
			Status:         StatusPending,
		}
		if err := s.repo.Create(ctx, n); err != nil {
			return err
		}
		s.deliver(ctx, n)
	}

	if event.VisitorEmail != "" {
		n := &Notification{
			ID:             uuid.New(),
			RecipientEmail: event.VisitorEmail,
			Channel:        ChannelEmail,
			Subject:        "Your Visitor Pass is Approved",
			Message:        message,
			Status:         StatusPending,
		}
		if err := s.repo.Create(ctx, n); err != nil {
			return err
		}
		s.deliver(ctx, n)
	}

	return nil
}

func (s *service) HandleVisitorCheckedIn(ctx context.Context, event events.VisitorCheckedInEvent) error {
	if event.HostPhone == "" {
		return nil
	}

	n := &Notification{
		ID:             uuid.New(),
		RecipientPhone: event.HostPhone,
		Channel:        ChannelSMS,
		Message:        fmt.Sprintf("Your visitor %s has checked in at the gate.", event.VisitorName),
		Status:         StatusPending,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	s.deliver(ctx, n)
	return nil
}

func (s *service) HandleDeliveryArrived(ctx context.Context, event events.DeliveryArrivedEvent) error {
	if event.EmployeePhone == "" {
		return nil
	}

	platform := event.PlatformName
	if platform == "" {
		platform = "unknown"
	}

	n := &Notification{
		ID:             uuid.New(),
		RecipientPhone: event.EmployeePhone,
		Channel:        ChannelSMS,
		Message: fmt.Sprintf(
			"Your %s from %s has arrived at the gate. OTP: %s",
			event.DeliveryType, platform, event.OTPCode,
		),
		Status: StatusPending,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	s.deliver(ctx, n)
	return nil
}

func (s *service) GetAll(ctx context.Context, filter ListNotificationFilter) ([]NotificationResponse, error) {
	rows, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]NotificationResponse, len(rows))
	for i, n := range rows {
		resp[i] = mapToResponse(n)
	}
	return resp, nil
}

// deliver attempts the send and records the outcome on the row. A failed
// dispatch never bubbles up; the ledger transition it reacts to already
// committed.
func (s *service) deliver(ctx context.Context, n *Notification) {
	var err error
	switch n.Channel {
	case ChannelSMS:
		err = s.dispatcher.SendSMS(ctx, n.RecipientPhone, n.Message)
	case ChannelEmail:
		err = s.dispatcher.SendEmail(ctx, n.RecipientEmail, n.Subject, n.Message)
	}

	if err != nil {
		n.Status = StatusFailed
		n.ErrorMessage = err.Error()
		s.logger.Warn("notification dispatch failed",
			zap.String("notification_id", n.ID.String()),
			zap.String("channel", n.Channel),
			zap.Error(err),
		)
	} else {
		now := time.Now().UTC()
		n.Status = StatusSent
		n.SentAt = &now
	}

	if err := s.repo.Update(ctx, n); err != nil {
		s.logger.Error("notification status update failed",
			zap.String("notification_id", n.ID.String()),
			zap.Error(err),
		)
	}
}

func mapToResponse(n Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:             n.ID.String(),
		RecipientPhone: n.RecipientPhone,
		RecipientEmail: n.RecipientEmail,
		Channel:        n.Channel,
		Subject:        n.Subject,
		Message:        n.Message,
		Status:         n.Status,
		ErrorMessage:   n.ErrorMessage,
		CreatedAt:      n.CreatedAt.Format(time.RFC3339),
	}
	if n.SentAt != nil {
		v := n.SentAt.Format(time.RFC3339)
		resp.SentAt = &v
	}
	return resp
}
