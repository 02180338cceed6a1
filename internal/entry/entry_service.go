package entry

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kaleaditya28897-linux/gatepass/internal/delivery"
	deliveryerrors "github.com/kaleaditya28897-linux/gatepass/internal/delivery/errors"
	"github.com/kaleaditya28897-linux/gatepass/internal/directory"
	entryerrors "github.com/kaleaditya28897-linux/gatepass/internal/entry/errors"
	"github.com/kaleaditya28897-linux/gatepass/internal/events"
	"github.com/kaleaditya28897-linux/gatepass/internal/gate"
	gateerrors "github.com/kaleaditya28897-linux/gatepass/internal/gate/errors"
	"github.com/kaleaditya28897-linux/gatepass/internal/identity"
	"github.com/kaleaditya28897-linux/gatepass/internal/messaging/kafka"
	"github.com/kaleaditya28897-linux/gatepass/internal/pass"
	passerrors "github.com/kaleaditya28897-linux/gatepass/internal/pass/errors"
	"github.com/kaleaditya28897-linux/gatepass/internal/shared/apperror"
)

//go:generate mockgen -source=entry_service.go -destination=mock/entry_service_mock.go -package=mock
type Service interface {
	CheckIn(ctx context.Context, actor identity.Identity, req CheckInRequest) (EntryResponse, error)
	CheckOut(ctx context.Context, actor identity.Identity, id string) (EntryResponse, error)
	Active(ctx context.Context, actor identity.Identity) ([]EntryResponse, error)
	GetAll(ctx context.Context, actor identity.Identity, filter ListEntryFilter) ([]EntryResponse, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	passes     pass.Repository
	deliveries delivery.Repository
	gates      gate.Repository
	directory  directory.Repository
	outbox     kafka.OutboxRepository
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	passRepo pass.Repository,
	deliveryRepo delivery.Repository,
	gateRepo gate.Repository,
	directoryRepo directory.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("entry.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("entry.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		passes:     passRepo,
		deliveries: deliveryRepo,
		gates:      gateRepo,
		directory:  directoryRepo,
		outbox:     outboxRepo,
		logger:     l,
	}
}

func (s *service) CheckIn(ctx context.Context, actor identity.Identity, req CheckInRequest) (EntryResponse, error) {
	if (req.PassCode == "") == (req.DeliveryID == "") {
		return EntryResponse{}, entryerrors.ErrExactlyOneSubject
	}

	g, err := s.gates.FindByID(ctx, req.GateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EntryResponse{}, gateerrors.ErrGateNotFound
		}
		return EntryResponse{}, err
	}
	if !g.IsActive {
		return EntryResponse{}, gateerrors.ErrGateInactive
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EntryResponse{}, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	e := &EntryLog{
		ID:          uuid.New(),
		GateID:      &g.ID,
		CheckedInBy: actorRef(actor),
		CheckInTime: now,
	}

	if req.PassCode != "" {
		if err := s.checkInPass(ctx, tx, req.PassCode, now, g, e); err != nil {
			return EntryResponse{}, err
		}
	} else {
		if err := s.checkInDelivery(ctx, tx, req.DeliveryID, e); err != nil {
			return EntryResponse{}, err
		}
	}

	if err := s.repo.WithTx(tx).Create(ctx, e); err != nil {
		s.logger.Error("check-in persist failed", zap.Error(err))
		return EntryResponse{}, err
	}

	if err := s.enqueueAudit(ctx, tx, actor, "entry.checked_in", e.ID.String(),
		e.VisitorName+" checked in at "+g.Name); err != nil {
		return EntryResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return EntryResponse{}, err
	}

	s.logger.Info("checked in",
		zap.String("entry_id", e.ID.String()),
		zap.String("entry_type", e.EntryType),
		zap.String("gate", g.Code),
		zap.String("guard_id", actor.UserID),
	)

	e.Gate = &GateRef{ID: g.ID, Name: g.Name, Code: g.Code}
	return mapToResponse(*e), nil
}

// checkInPass validates and admits a visitor, mutating the pass inside the
// caller's transaction and filling the entry snapshot.
func (s *service) checkInPass(ctx context.Context, tx *sql.Tx, code string, now time.Time, g *gate.Gate, e *EntryLog) error {
	qpass := s.passes.WithTx(tx)

	p, err := qpass.FindByCodeForUpdate(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return passerrors.ErrPassNotFound
		}
		return err
	}

	// Expiry wins over any status check.
	if now.After(p.ValidUntil) {
		return passerrors.ErrPassExpired
	}
	if p.Status != pass.StatusApproved && p.Status != pass.StatusCheckedIn {
		return passerrors.ErrNotCheckable
	}

	open, err := s.repo.WithTx(tx).HasOpenForPass(ctx, p.ID.String())
	if err != nil {
		return err
	}
	if open {
		return entryerrors.ErrAlreadyInside
	}

	p.Status = pass.StatusCheckedIn
	if err := qpass.Update(ctx, p); err != nil {
		return err
	}

	e.EntryType = TypeVisitor
	e.VisitorPassID = &p.ID
	e.VisitorName = p.VisitorName
	e.Phone = p.VisitorPhone
	if p.HostCompany != nil {
		e.CompanyName = p.HostCompany.Name
	}

	hostPhone := ""
	if p.HostEmployee != nil {
		hostPhone = p.HostEmployee.Phone
	}
	event, err := kafka.NewEvent(ctx, events.NotificationTopic, "visitor_pass", p.ID.String(),
		events.EventVisitorCheckedIn, events.VisitorCheckedInEvent{
			EventType:   events.EventVisitorCheckedIn,
			PassID:      p.ID.String(),
			VisitorName: p.VisitorName,
			HostPhone:   hostPhone,
			GateName:    g.Name,
			OccurredAt:  now,
		})
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, event)
}

// checkInDelivery admits a delivery, advancing expected deliveries to
// arrived. Already-arrived deliveries check in without a second arrival
// notification.
func (s *service) checkInDelivery(ctx context.Context, tx *sql.Tx, id string, e *EntryLog) error {
	if _, err := uuid.Parse(id); err != nil {
		return deliveryerrors.ErrInvalidDeliveryID
	}

	qdel := s.deliveries.WithTx(tx)

	d, err := qdel.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return deliveryerrors.ErrDeliveryNotFound
		}
		return err
	}
	if d.Status != delivery.StatusExpected && d.Status != delivery.StatusArrived {
		return deliveryerrors.ErrNotCheckable
	}

	open, err := s.repo.WithTx(tx).HasOpenForDelivery(ctx, d.ID.String())
	if err != nil {
		return err
	}
	if open {
		return entryerrors.ErrAlreadyInside
	}

	if d.Status == delivery.StatusExpected {
		d.Status = delivery.StatusArrived
		if err := qdel.Update(ctx, d); err != nil {
			return err
		}
		if err := delivery.EnqueueArrivedEvent(ctx, s.outbox.WithTx(tx), d); err != nil {
			return err
		}
	}

	e.EntryType = TypeDelivery
	e.DeliveryID = &d.ID
	e.VisitorName = d.DeliveryPersonName
	e.Phone = d.DeliveryPersonPhone
	if d.Company != nil {
		e.CompanyName = d.Company.Name
	}
	return nil
}

func (s *service) CheckOut(ctx context.Context, actor identity.Identity, id string) (EntryResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EntryResponse{}, entryerrors.ErrInvalidEntryID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EntryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	e, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EntryResponse{}, entryerrors.ErrEntryNotFound
		}
		return EntryResponse{}, err
	}
	// A closed entry is indistinguishable from a missing one.
	if e.CheckOutTime != nil {
		return EntryResponse{}, entryerrors.ErrEntryNotFound
	}

	now := time.Now().UTC()
	e.CheckOutTime = &now
	e.CheckedOutBy = actorRef(actor)
	if err := qtx.Update(ctx, e); err != nil {
		s.logger.Error("check-out persist failed", zap.String("entry_id", id), zap.Error(err))
		return EntryResponse{}, err
	}

	if e.VisitorPassID != nil {
		if err := s.closePass(ctx, tx, e.VisitorPassID.String()); err != nil {
			return EntryResponse{}, err
		}
	}

	if err := s.enqueueAudit(ctx, tx, actor, "entry.checked_out", e.ID.String(),
		e.VisitorName+" checked out"); err != nil {
		return EntryResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return EntryResponse{}, err
	}

	s.logger.Info("checked out",
		zap.String("entry_id", id),
		zap.String("guard_id", actor.UserID),
	)
	return mapToResponse(*e), nil
}

// closePass cascades check-out to the linked pass. A pass deleted since
// check-in is not an error; the entry stays closed either way.
func (s *service) closePass(ctx context.Context, tx *sql.Tx, passID string) error {
	qpass := s.passes.WithTx(tx)

	p, err := qpass.FindByIDForUpdate(ctx, passID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if p.Status != pass.StatusCheckedIn {
		return nil
	}
	p.Status = pass.StatusCheckedOut
	return qpass.Update(ctx, p)
}

func (s *service) Active(ctx context.Context, actor identity.Identity) ([]EntryResponse, error) {
	companyName, err := s.scopeName(ctx, actor)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.FindActive(ctx, companyName)
	if err != nil {
		return nil, err
	}
	return mapAll(rows), nil
}

func (s *service) GetAll(ctx context.Context, actor identity.Identity, filter ListEntryFilter) ([]EntryResponse, error) {
	companyName, err := s.scopeName(ctx, actor)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.FindAll(ctx, companyName, filter)
	if err != nil {
		return nil, err
	}
	return mapAll(rows), nil
}

// scopeName resolves the company-name filter for the actor. Entries only
// carry the snapshot name, so company admins are scoped by it.
func (s *service) scopeName(ctx context.Context, actor identity.Identity) (string, error) {
	switch actor.Role {
	case identity.RoleAdmin, identity.RoleGuard:
		return "", nil
	case identity.RoleCompanyAdmin:
		c, err := s.directory.FindCompanyByID(ctx, actor.CompanyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", apperror.ErrForbidden
			}
			return "", err
		}
		return c.Name, nil
	}
	return "", apperror.ErrForbidden
}

func (s *service) enqueueAudit(ctx context.Context, tx *sql.Tx, actor identity.Identity, action, resourceID, description string) error {
	event, err := kafka.NewEvent(ctx, events.AuditTopic, "entry_log", resourceID, action, events.AuditEvent{
		EventType:    action,
		ActorID:      actor.UserID,
		ActorRole:    string(actor.Role),
		Action:       action,
		ResourceType: "entry_log",
		ResourceID:   resourceID,
		Description:  description,
		OccurredAt:   time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, event)
}

func actorRef(actor identity.Identity) *uuid.UUID {
	id, err := uuid.Parse(actor.UserID)
	if err != nil {
		return nil
	}
	return &id
}

func mapAll(rows []EntryLog) []EntryResponse {
	resp := make([]EntryResponse, len(rows))
	for i, e := range rows {
		resp[i] = mapToResponse(e)
	}
	return resp
}

func mapToResponse(e EntryLog) EntryResponse {
	resp := EntryResponse{
		ID:          e.ID.String(),
		EntryType:   e.EntryType,
		VisitorName: e.VisitorName,
		Phone:       e.Phone,
		CompanyName: e.CompanyName,
		CheckInTime: e.CheckInTime.Format(time.RFC3339),
	}
	if e.VisitorPassID != nil {
		v := e.VisitorPassID.String()
		resp.VisitorPassID = &v
	}
	if e.DeliveryID != nil {
		v := e.DeliveryID.String()
		resp.DeliveryID = &v
	}
	if e.GateID != nil {
		v := e.GateID.String()
		resp.GateID = &v
	}
	if e.Gate != nil {
		resp.GateName = e.Gate.Name
	}
	if e.CheckOutTime != nil {
		v := e.CheckOutTime.Format(time.RFC3339)
		resp.CheckOutTime = &v
	}
	return resp
}
