package notification

import (
	"context"

	"go.uber.org/zap"
)

// Dispatcher delivers a single message over one channel. Delivery is
// best-effort; failures are recorded on the notification row, never
// propagated to the workflow that triggered them.
type Dispatcher interface {
	SendSMS(ctx context.Context, phone, message string) error
	SendEmail(ctx context.Context, email, subject, message string) error
}

// ConsoleDispatcher logs messages instead of sending them. It is the
// default backend; a real SMS/email provider plugs in behind the same
// interface.
type ConsoleDispatcher struct {
	logger *zap.Logger
}

func NewConsoleDispatcher(logger ...*zap.Logger) *ConsoleDispatcher {
	l := zap.L().Named("notification.console")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.console")
	}
	return &ConsoleDispatcher{logger: l}
}

func (d *ConsoleDispatcher) SendSMS(_ context.Context, phone, message string) error {
	d.logger.Info("sms dispatched",
		zap.String("to", phone),
		zap.String("message", message),
	)
	return nil
}

func (d *ConsoleDispatcher) SendEmail(_ context.Context, email, subject, message string) error {
	d.logger.Info("email dispatched",
		zap.String("to", email),
		zap.String("subject", subject),
		zap.String("message", message),
	)
	return nil
}
