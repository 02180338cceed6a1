package delivery

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	deliveryerrors "github.com/kaleaditya28897-linux/gatepass/internal/delivery/errors"
	"github.com/kaleaditya28897-linux/gatepass/internal/directory"
	"github.com/kaleaditya28897-linux/gatepass/internal/events"
	"github.com/kaleaditya28897-linux/gatepass/internal/identity"
	"github.com/kaleaditya28897-linux/gatepass/internal/messaging/kafka"
	"github.com/kaleaditya28897-linux/gatepass/internal/shared/apperror"
)

//go:generate mockgen -source=delivery_service.go -destination=mock/delivery_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor identity.Identity, req CreateDeliveryRequest) (DeliveryResponse, error)
	MarkArrived(ctx context.Context, actor identity.Identity, id string) (DeliveryResponse, error)
	MarkDelivered(ctx context.Context, actor identity.Identity, id string) (DeliveryResponse, error)
	VerifyOTP(ctx context.Context, id, otp string) (VerifyOTPResponse, error)
	PendingForGate(ctx context.Context) ([]DeliveryGateResponse, error)
	GetAll(ctx context.Context, actor identity.Identity, filter ListDeliveryFilter) ([]DeliveryResponse, error)
	GetByID(ctx context.Context, actor identity.Identity, id string) (DeliveryResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	directory directory.Repository
	outbox    kafka.OutboxRepository
	throttle  *OTPThrottle
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	directoryRepo directory.Repository,
	outboxRepo kafka.OutboxRepository,
	throttle *OTPThrottle,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("delivery.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("delivery.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		directory: directoryRepo,
		outbox:    outboxRepo,
		throttle:  throttle,
		logger:    l,
	}
}

func (s *service) Create(ctx context.Context, actor identity.Identity, req CreateDeliveryRequest) (DeliveryResponse, error) {
	companyID, employeeID, err := s.resolveRecipient(ctx, actor, req.CompanyID, req.EmployeeID)
	if err != nil {
		return DeliveryResponse{}, err
	}

	var expectedAt *time.Time
	if req.ExpectedAt != "" {
		t, err := time.Parse(time.RFC3339, req.ExpectedAt)
		if err != nil {
			return DeliveryResponse{}, deliveryerrors.ErrInvalidExpectedAt
		}
		utc := t.UTC()
		expectedAt = &utc
	}

	deliveryType := req.DeliveryType
	if deliveryType == "" {
		deliveryType = TypeFoodOrder
	}

	otp, err := generateOTP()
	if err != nil {
		s.logger.Error("otp generation failed", zap.Error(err))
		return DeliveryResponse{}, err
	}

	d := &Delivery{
		ID:                  uuid.New(),
		CompanyID:           companyID,
		EmployeeID:          employeeID,
		DeliveryType:        deliveryType,
		Status:              StatusExpected,
		PlatformName:        req.PlatformName,
		OrderID:             req.OrderID,
		DeliveryPersonName:  req.DeliveryPersonName,
		DeliveryPersonPhone: req.DeliveryPersonPhone,
		ExpectedAt:          expectedAt,
		OTPCode:             otp,
		Notes:               req.Notes,
	}

	if err := s.repo.Create(ctx, d); err != nil {
		s.logger.Error("create delivery persist failed", zap.Error(err))
		return DeliveryResponse{}, err
	}

	s.logger.Info("delivery created",
		zap.String("delivery_id", d.ID.String()),
		zap.String("company_id", companyID.String()),
	)

	full, err := s.repo.FindByID(ctx, d.ID.String())
	if err != nil {
		return mapToResponse(*d), nil
	}
	return mapToResponse(*full), nil
}

func (s *service) MarkArrived(ctx context.Context, actor identity.Identity, id string) (DeliveryResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return DeliveryResponse{}, deliveryerrors.ErrInvalidDeliveryID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DeliveryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	d, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DeliveryResponse{}, deliveryerrors.ErrDeliveryNotFound
		}
		return DeliveryResponse{}, err
	}
	if d.Status != StatusExpected {
		s.logger.Warn("mark arrived rejected by state",
			zap.String("delivery_id", id),
			zap.String("status", d.Status),
		)
		return DeliveryResponse{}, deliveryerrors.ErrNotExpected
	}

	d.Status = StatusArrived
	if err := qtx.Update(ctx, d); err != nil {
		s.logger.Error("mark arrived persist failed", zap.String("delivery_id", id), zap.Error(err))
		return DeliveryResponse{}, err
	}

	if err := EnqueueArrivedEvent(ctx, s.outbox.WithTx(tx), d); err != nil {
		return DeliveryResponse{}, err
	}
	if err := s.enqueueAudit(ctx, tx, actor, "delivery.arrived", id, "delivery marked arrived at gate"); err != nil {
		return DeliveryResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return DeliveryResponse{}, err
	}

	s.logger.Info("delivery arrived",
		zap.String("delivery_id", id),
		zap.String("guard_id", actor.UserID),
	)
	return mapToResponse(*d), nil
}

func (s *service) MarkDelivered(ctx context.Context, actor identity.Identity, id string) (DeliveryResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return DeliveryResponse{}, deliveryerrors.ErrInvalidDeliveryID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DeliveryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	d, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DeliveryResponse{}, deliveryerrors.ErrDeliveryNotFound
		}
		return DeliveryResponse{}, err
	}
	if d.Status != StatusArrived {
		return DeliveryResponse{}, deliveryerrors.ErrNotArrived
	}

	d.Status = StatusDelivered
	if err := qtx.Update(ctx, d); err != nil {
		s.logger.Error("mark delivered persist failed", zap.String("delivery_id", id), zap.Error(err))
		return DeliveryResponse{}, err
	}

	if err := s.enqueueAudit(ctx, tx, actor, "delivery.delivered", id, "delivery handed over"); err != nil {
		return DeliveryResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return DeliveryResponse{}, err
	}

	s.logger.Info("delivery completed",
		zap.String("delivery_id", id),
		zap.String("guard_id", actor.UserID),
	)
	return mapToResponse(*d), nil
}

// VerifyOTP never mutates the delivery; a mismatch is a normal false result,
// not an error. Attempts are throttled per delivery id.
func (s *service) VerifyOTP(ctx context.Context, id, otp string) (VerifyOTPResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return VerifyOTPResponse{}, deliveryerrors.ErrInvalidDeliveryID
	}

	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return VerifyOTPResponse{}, deliveryerrors.ErrDeliveryNotFound
		}
		return VerifyOTPResponse{}, err
	}

	if !s.throttle.Allow(ctx, id) {
		s.logger.Warn("otp attempts exceeded", zap.String("delivery_id", id))
		return VerifyOTPResponse{}, deliveryerrors.ErrTooManyOTPAttempts
	}

	if !otpMatches(d.OTPCode, otp) {
		return VerifyOTPResponse{Verified: false}, nil
	}

	s.throttle.Reset(ctx, id)
	return VerifyOTPResponse{Verified: true}, nil
}

func (s *service) PendingForGate(ctx context.Context) ([]DeliveryGateResponse, error) {
	rows, err := s.repo.FindPendingGate(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]DeliveryGateResponse, len(rows))
	for i, d := range rows {
		resp[i] = mapToGateResponse(d)
	}
	return resp, nil
}

func (s *service) GetAll(ctx context.Context, actor identity.Identity, filter ListDeliveryFilter) ([]DeliveryResponse, error) {
	scope, err := scopeFor(actor)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.FindAll(ctx, scope, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]DeliveryResponse, len(rows))
	for i, d := range rows {
		resp[i] = mapToResponse(d)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, actor identity.Identity, id string) (DeliveryResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return DeliveryResponse{}, deliveryerrors.ErrInvalidDeliveryID
	}
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DeliveryResponse{}, deliveryerrors.ErrDeliveryNotFound
		}
		return DeliveryResponse{}, err
	}
	if !visibleTo(actor, d) {
		return DeliveryResponse{}, deliveryerrors.ErrDeliveryNotFound
	}
	return mapToResponse(*d), nil
}

// EnqueueArrivedEvent writes the arrival notification to the outbox within
// the caller's transaction. The entry ledger reuses it when check-in moves a
// delivery to arrived.
func EnqueueArrivedEvent(ctx context.Context, outbox kafka.OutboxRepository, d *Delivery) error {
	phone := ""
	if d.Employee != nil {
		phone = d.Employee.Phone
	}
	event, err := kafka.NewEvent(ctx, events.NotificationTopic, "delivery", d.ID.String(),
		events.EventDeliveryArrived, events.DeliveryArrivedEvent{
			EventType:     events.EventDeliveryArrived,
			DeliveryID:    d.ID.String(),
			DeliveryType:  d.DeliveryType,
			PlatformName:  d.PlatformName,
			OTPCode:       d.OTPCode,
			EmployeePhone: phone,
			OccurredAt:    time.Now().UTC(),
		})
	if err != nil {
		return err
	}
	return outbox.Create(ctx, event)
}

func (s *service) enqueueAudit(ctx context.Context, tx *sql.Tx, actor identity.Identity, action, resourceID, description string) error {
	event, err := kafka.NewEvent(ctx, events.AuditTopic, "delivery", resourceID, action, events.AuditEvent{
		EventType:    action,
		ActorID:      actor.UserID,
		ActorRole:    string(actor.Role),
		Action:       action,
		ResourceType: "delivery",
		ResourceID:   resourceID,
		Description:  description,
		OccurredAt:   time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, event)
}

func (s *service) resolveRecipient(ctx context.Context, actor identity.Identity, companyID, employeeID string) (uuid.UUID, uuid.UUID, error) {
	if actor.Role == identity.RoleEmployee {
		emp, err := s.directory.FindEmployeeByID(ctx, actor.EmployeeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return uuid.Nil, uuid.Nil, apperror.ErrForbidden
			}
			return uuid.Nil, uuid.Nil, err
		}
		return emp.CompanyID, emp.ID, nil
	}

	if actor.Role == identity.RoleCompanyAdmin {
		companyID = actor.CompanyID
	}
	if companyID == "" || employeeID == "" {
		return uuid.Nil, uuid.Nil, deliveryerrors.ErrInvalidEmployee
	}

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return uuid.Nil, uuid.Nil, deliveryerrors.ErrInvalidEmployee
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return uuid.Nil, uuid.Nil, deliveryerrors.ErrInvalidEmployee
	}

	belongs, err := s.directory.EmployeeBelongsToCompany(ctx, companyID, employeeID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if !belongs {
		return uuid.Nil, uuid.Nil, deliveryerrors.ErrEmployeeNotInCompany
	}
	return companyUUID, employeeUUID, nil
}

func visibleTo(actor identity.Identity, d *Delivery) bool {
	switch actor.Role {
	case identity.RoleAdmin, identity.RoleGuard:
		return true
	case identity.RoleCompanyAdmin:
		return d.CompanyID.String() == actor.CompanyID
	case identity.RoleEmployee:
		return d.EmployeeID.String() == actor.EmployeeID
	}
	return false
}

func scopeFor(actor identity.Identity) (DeliveryScope, error) {
	switch actor.Role {
	case identity.RoleAdmin:
		return DeliveryScope{}, nil
	case identity.RoleCompanyAdmin:
		return DeliveryScope{CompanyID: actor.CompanyID}, nil
	case identity.RoleEmployee:
		return DeliveryScope{EmployeeID: actor.EmployeeID}, nil
	}
	return DeliveryScope{}, apperror.ErrForbidden
}

func mapToResponse(d Delivery) DeliveryResponse {
	resp := DeliveryResponse{
		ID:                  d.ID.String(),
		CompanyID:           d.CompanyID.String(),
		EmployeeID:          d.EmployeeID.String(),
		DeliveryType:        d.DeliveryType,
		Status:              d.Status,
		PlatformName:        d.PlatformName,
		OrderID:             d.OrderID,
		DeliveryPersonName:  d.DeliveryPersonName,
		DeliveryPersonPhone: d.DeliveryPersonPhone,
		OTPCode:             d.OTPCode,
		Notes:               d.Notes,
	}
	if d.Company != nil {
		resp.CompanyName = d.Company.Name
	}
	if d.Employee != nil {
		resp.EmployeeName = d.Employee.FullName
	}
	if d.ExpectedAt != nil {
		v := d.ExpectedAt.Format(time.RFC3339)
		resp.ExpectedAt = &v
	}
	return resp
}

func mapToGateResponse(d Delivery) DeliveryGateResponse {
	resp := DeliveryGateResponse{
		ID:                 d.ID.String(),
		DeliveryType:       d.DeliveryType,
		Status:             d.Status,
		PlatformName:       d.PlatformName,
		OrderID:            d.OrderID,
		DeliveryPersonName: d.DeliveryPersonName,
	}
	if d.Company != nil {
		resp.CompanyName = d.Company.Name
	}
	if d.Employee != nil {
		resp.EmployeeName = d.Employee.FullName
	}
	if d.ExpectedAt != nil {
		v := d.ExpectedAt.Format(time.RFC3339)
		resp.ExpectedAt = &v
	}
	return resp
}
