package pass

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kaleaditya28897-linux/gatepass/internal/directory"
	"github.com/kaleaditya28897-linux/gatepass/internal/events"
	"github.com/kaleaditya28897-linux/gatepass/internal/identity"
	"github.com/kaleaditya28897-linux/gatepass/internal/messaging/kafka"
	passerrors "github.com/kaleaditya28897-linux/gatepass/internal/pass/errors"
	"github.com/kaleaditya28897-linux/gatepass/internal/shared/apperror"
)

//go:generate mockgen -source=pass_service.go -destination=mock/pass_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor identity.Identity, req CreatePassRequest) (PassResponse, error)
	WalkIn(ctx context.Context, actor identity.Identity, req WalkInPassRequest) (PassResponse, error)
	Approve(ctx context.Context, actor identity.Identity, id string) (PassResponse, error)
	Reject(ctx context.Context, actor identity.Identity, id, reason string) (PassResponse, error)
	VerifyByCode(ctx context.Context, code string) (PassVerifyResponse, error)
	GetAll(ctx context.Context, actor identity.Identity, filter ListPassFilter) ([]PassResponse, error)
	GetByID(ctx context.Context, actor identity.Identity, id string) (PassResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	directory directory.Repository
	outbox    kafka.OutboxRepository
	qr        QRGenerator
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	directoryRepo directory.Repository,
	outboxRepo kafka.OutboxRepository,
	qr QRGenerator,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("pass.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("pass.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		directory: directoryRepo,
		outbox:    outboxRepo,
		qr:        qr,
		logger:    l,
	}
}

func (s *service) Create(ctx context.Context, actor identity.Identity, req CreatePassRequest) (PassResponse, error) {
	s.logger.Debug("create pass requested",
		zap.String("actor_id", actor.UserID),
		zap.String("role", string(actor.Role)),
		zap.String("visitor_name", req.VisitorName),
	)

	validFrom, validUntil, err := parseValidityWindow(req.ValidFrom, req.ValidUntil)
	if err != nil {
		return PassResponse{}, err
	}

	hostCompanyID, hostEmployeeID, err := s.resolveHost(ctx, actor, req.HostCompanyID, req.HostEmployeeID)
	if err != nil {
		return PassResponse{}, err
	}

	createdBy, err := uuid.Parse(actor.UserID)
	if err != nil {
		return PassResponse{}, passerrors.ErrInvalidActorID
	}

	passType := req.PassType
	if passType == "" {
		passType = TypePreApproved
	}

	p := &VisitorPass{
		ID:             uuid.New(),
		VisitorName:    req.VisitorName,
		VisitorPhone:   req.VisitorPhone,
		VisitorEmail:   req.VisitorEmail,
		VisitorCompany: req.VisitorCompany,
		IDType:         req.IDType,
		IDNumber:       req.IDNumber,
		VehicleNumber:  req.VehicleNumber,
		Purpose:        req.Purpose,
		HostCompanyID:  hostCompanyID,
		HostEmployeeID: hostEmployeeID,
		PassCode:       uuid.New().String(),
		PassType:       passType,
		Status:         StatusPending,
		ValidFrom:      validFrom,
		ValidUntil:     validUntil,
		CreatedBy:      &createdBy,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error("create pass persist failed", zap.Error(err))
		return PassResponse{}, err
	}

	s.logger.Info("pass created",
		zap.String("pass_id", p.ID.String()),
		zap.String("host_company_id", hostCompanyID.String()),
	)
	return s.reload(ctx, p)
}

func (s *service) WalkIn(ctx context.Context, actor identity.Identity, req WalkInPassRequest) (PassResponse, error) {
	validFrom, validUntil, err := parseValidityWindow(req.ValidFrom, req.ValidUntil)
	if err != nil {
		return PassResponse{}, err
	}

	hostCompanyID, hostEmployeeID, err := s.resolveHost(ctx, actor, req.HostCompanyID, req.HostEmployeeID)
	if err != nil {
		return PassResponse{}, err
	}

	guardID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return PassResponse{}, passerrors.ErrInvalidActorID
	}

	now := time.Now().UTC()
	p := &VisitorPass{
		ID:             uuid.New(),
		VisitorName:    req.VisitorName,
		VisitorPhone:   req.VisitorPhone,
		VisitorEmail:   req.VisitorEmail,
		VisitorCompany: req.VisitorCompany,
		IDType:         req.IDType,
		IDNumber:       req.IDNumber,
		VehicleNumber:  req.VehicleNumber,
		Purpose:        req.Purpose,
		HostCompanyID:  hostCompanyID,
		HostEmployeeID: hostEmployeeID,
		PassCode:       uuid.New().String(),
		PassType:       TypeWalkIn,
		Status:         StatusApproved,
		ValidFrom:      validFrom,
		ValidUntil:     validUntil,
		CreatedBy:      &guardID,
		ApprovedBy:     &guardID,
		ApprovedAt:     &now,
	}

	// The artifact is deterministic from the pass code, so it is produced
	// in-call; a write failure is logged and leaves the reference empty
	// without failing the issuance.
	if path, qrErr := s.qr.Generate(p.PassCode); qrErr != nil {
		s.logger.Error("walk-in qr generation failed",
			zap.String("pass_id", p.ID.String()),
			zap.Error(qrErr),
		)
	} else {
		p.QRCodePath = &path
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PassResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, p); err != nil {
		s.logger.Error("walk-in pass persist failed", zap.Error(err))
		return PassResponse{}, err
	}

	if err := s.enqueueAudit(ctx, tx, actor, "pass.walk_in", p.ID.String(),
		"Walk-in pass issued for "+p.VisitorName); err != nil {
		return PassResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PassResponse{}, err
	}

	s.logger.Info("walk-in pass issued",
		zap.String("pass_id", p.ID.String()),
		zap.String("guard_id", actor.UserID),
	)
	return s.reload(ctx, p)
}

func (s *service) Approve(ctx context.Context, actor identity.Identity, id string) (PassResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return PassResponse{}, passerrors.ErrInvalidPassID
	}
	approverID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return PassResponse{}, passerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PassResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PassResponse{}, passerrors.ErrPassNotFound
		}
		return PassResponse{}, err
	}
	if !visibleTo(actor, p) {
		return PassResponse{}, passerrors.ErrPassNotFound
	}
	if p.Status != StatusPending {
		s.logger.Warn("approve pass rejected by state",
			zap.String("pass_id", id),
			zap.String("status", p.Status),
		)
		return PassResponse{}, passerrors.ErrNotPending
	}

	now := time.Now().UTC()
	p.Status = StatusApproved
	p.ApprovedBy = &approverID
	p.ApprovedAt = &now

	if path, qrErr := s.qr.Generate(p.PassCode); qrErr != nil {
		s.logger.Error("approve qr generation failed",
			zap.String("pass_id", id),
			zap.Error(qrErr),
		)
	} else {
		p.QRCodePath = &path
	}

	if err := qtx.Update(ctx, p); err != nil {
		s.logger.Error("approve pass persist failed", zap.String("pass_id", id), zap.Error(err))
		return PassResponse{}, err
	}

	companyName := ""
	if p.HostCompany != nil {
		companyName = p.HostCompany.Name
	}
	approvedEvent, err := kafka.NewEvent(ctx, events.NotificationTopic, "visitor_pass", p.ID.String(),
		events.EventPassApproved, events.PassApprovedEvent{
			EventType:    events.EventPassApproved,
			PassID:       p.ID.String(),
			PassCode:     p.PassCode,
			VisitorName:  p.VisitorName,
			VisitorPhone: p.VisitorPhone,
			VisitorEmail: p.VisitorEmail,
			CompanyName:  companyName,
			OccurredAt:   now,
		})
	if err != nil {
		return PassResponse{}, err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, approvedEvent); err != nil {
		return PassResponse{}, err
	}

	if err := s.enqueueAudit(ctx, tx, actor, "pass.approved", p.ID.String(),
		"Pass approved for "+p.VisitorName); err != nil {
		return PassResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PassResponse{}, err
	}

	s.logger.Info("pass approved",
		zap.String("pass_id", id),
		zap.String("approved_by", actor.UserID),
	)
	return mapToResponse(*p), nil
}

func (s *service) Reject(ctx context.Context, actor identity.Identity, id, reason string) (PassResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return PassResponse{}, passerrors.ErrInvalidPassID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PassResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PassResponse{}, passerrors.ErrPassNotFound
		}
		return PassResponse{}, err
	}
	if !visibleTo(actor, p) {
		return PassResponse{}, passerrors.ErrPassNotFound
	}
	if p.Status != StatusPending {
		return PassResponse{}, passerrors.ErrNotPending
	}

	p.Status = StatusRejected
	p.RejectedReason = reason

	if err := qtx.Update(ctx, p); err != nil {
		s.logger.Error("reject pass persist failed", zap.String("pass_id", id), zap.Error(err))
		return PassResponse{}, err
	}

	if err := s.enqueueAudit(ctx, tx, actor, "pass.rejected", p.ID.String(),
		"Pass rejected: "+reason); err != nil {
		return PassResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PassResponse{}, err
	}

	s.logger.Info("pass rejected", zap.String("pass_id", id))
	return mapToResponse(*p), nil
}

func (s *service) VerifyByCode(ctx context.Context, code string) (PassVerifyResponse, error) {
	p, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PassVerifyResponse{}, passerrors.ErrPassNotFound
		}
		return PassVerifyResponse{}, err
	}
	return mapToVerifyResponse(*p), nil
}

func (s *service) GetAll(ctx context.Context, actor identity.Identity, filter ListPassFilter) ([]PassResponse, error) {
	scope, err := scopeFor(actor)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.FindAll(ctx, scope, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]PassResponse, len(rows))
	for i, p := range rows {
		resp[i] = mapToResponse(p)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, actor identity.Identity, id string) (PassResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return PassResponse{}, passerrors.ErrInvalidPassID
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PassResponse{}, passerrors.ErrPassNotFound
		}
		return PassResponse{}, err
	}
	if !visibleTo(actor, p) {
		return PassResponse{}, passerrors.ErrPassNotFound
	}
	return mapToResponse(*p), nil
}

// resolveHost determines the host company/employee for a new pass. Employees
// always host their own visitors; other roles supply the host explicitly.
func (s *service) resolveHost(ctx context.Context, actor identity.Identity, hostCompanyID, hostEmployeeID string) (uuid.UUID, *uuid.UUID, error) {
	if actor.Role == identity.RoleEmployee {
		emp, err := s.directory.FindEmployeeByID(ctx, actor.EmployeeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return uuid.Nil, nil, apperror.ErrForbidden
			}
			return uuid.Nil, nil, err
		}
		empID := emp.ID
		return emp.CompanyID, &empID, nil
	}

	if hostCompanyID == "" {
		return uuid.Nil, nil, passerrors.ErrInvalidHostCompany
	}
	companyUUID, err := uuid.Parse(hostCompanyID)
	if err != nil {
		return uuid.Nil, nil, passerrors.ErrInvalidHostCompany
	}
	if actor.Role == identity.RoleCompanyAdmin && actor.CompanyID != hostCompanyID {
		return uuid.Nil, nil, apperror.ErrForbidden
	}

	if _, err := s.directory.FindCompanyByID(ctx, hostCompanyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, nil, passerrors.ErrInvalidHostCompany
		}
		return uuid.Nil, nil, err
	}

	if hostEmployeeID == "" {
		return companyUUID, nil, nil
	}
	employeeUUID, err := uuid.Parse(hostEmployeeID)
	if err != nil {
		return uuid.Nil, nil, passerrors.ErrHostEmployeeNotInCompany
	}
	belongs, err := s.directory.EmployeeBelongsToCompany(ctx, hostCompanyID, hostEmployeeID)
	if err != nil {
		return uuid.Nil, nil, err
	}
	if !belongs {
		return uuid.Nil, nil, passerrors.ErrHostEmployeeNotInCompany
	}
	return companyUUID, &employeeUUID, nil
}

func (s *service) enqueueAudit(ctx context.Context, tx *sql.Tx, actor identity.Identity, action, resourceID, description string) error {
	event, err := kafka.NewEvent(ctx, events.AuditTopic, "visitor_pass", resourceID, action, events.AuditEvent{
		EventType:    action,
		ActorID:      actor.UserID,
		ActorRole:    string(actor.Role),
		Action:       action,
		ResourceType: "visitor_pass",
		ResourceID:   resourceID,
		Description:  description,
		OccurredAt:   time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, event)
}

// reload re-reads a freshly created pass so host display names are populated.
func (s *service) reload(ctx context.Context, p *VisitorPass) (PassResponse, error) {
	full, err := s.repo.FindByID(ctx, p.ID.String())
	if err != nil {
		// The row was committed; fall back to what we have.
		return mapToResponse(*p), nil
	}
	return mapToResponse(*full), nil
}

func visibleTo(actor identity.Identity, p *VisitorPass) bool {
	switch actor.Role {
	case identity.RoleAdmin, identity.RoleGuard:
		return true
	case identity.RoleCompanyAdmin:
		return p.HostCompanyID.String() == actor.CompanyID
	case identity.RoleEmployee:
		return p.HostEmployeeID != nil && p.HostEmployeeID.String() == actor.EmployeeID
	}
	return false
}

func scopeFor(actor identity.Identity) (PassScope, error) {
	switch actor.Role {
	case identity.RoleAdmin:
		return PassScope{}, nil
	case identity.RoleCompanyAdmin:
		return PassScope{HostCompanyID: actor.CompanyID}, nil
	case identity.RoleEmployee:
		return PassScope{HostEmployeeID: actor.EmployeeID}, nil
	}
	return PassScope{}, apperror.ErrForbidden
}

func parseValidityWindow(from, until string) (time.Time, time.Time, error) {
	validFrom, err := time.Parse(time.RFC3339, from)
	if err != nil {
		return time.Time{}, time.Time{}, passerrors.ErrInvalidValidityFormat
	}
	validUntil, err := time.Parse(time.RFC3339, until)
	if err != nil {
		return time.Time{}, time.Time{}, passerrors.ErrInvalidValidityFormat
	}
	if validFrom.After(validUntil) {
		return time.Time{}, time.Time{}, passerrors.ErrInvalidValidityWindow
	}
	return validFrom.UTC(), validUntil.UTC(), nil
}

func mapToResponse(p VisitorPass) PassResponse {
	resp := PassResponse{
		ID:             p.ID.String(),
		PassCode:       p.PassCode,
		VisitorName:    p.VisitorName,
		VisitorPhone:   p.VisitorPhone,
		VisitorEmail:   p.VisitorEmail,
		VisitorCompany: p.VisitorCompany,
		IDType:         p.IDType,
		IDNumber:       p.IDNumber,
		VehicleNumber:  p.VehicleNumber,
		Purpose:        p.Purpose,
		HostCompanyID:  p.HostCompanyID.String(),
		QRCodePath:     p.QRCodePath,
		PassType:       p.PassType,
		Status:         p.Status,
		ValidFrom:      p.ValidFrom.Format(time.RFC3339),
		ValidUntil:     p.ValidUntil.Format(time.RFC3339),
		RejectedReason: p.RejectedReason,
	}
	if p.HostCompany != nil {
		resp.HostCompanyName = p.HostCompany.Name
	}
	if p.HostEmployeeID != nil {
		v := p.HostEmployeeID.String()
		resp.HostEmployeeID = &v
	}
	if p.HostEmployee != nil {
		resp.HostEmployeeName = p.HostEmployee.FullName
	}
	if p.CreatedBy != nil {
		v := p.CreatedBy.String()
		resp.CreatedBy = &v
	}
	if p.ApprovedBy != nil {
		v := p.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if p.ApprovedAt != nil {
		v := p.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	return resp
}

func mapToVerifyResponse(p VisitorPass) PassVerifyResponse {
	resp := PassVerifyResponse{
		PassCode:       p.PassCode,
		VisitorName:    p.VisitorName,
		VisitorCompany: p.VisitorCompany,
		PassType:       p.PassType,
		Status:         p.Status,
		ValidFrom:      p.ValidFrom.Format(time.RFC3339),
		ValidUntil:     p.ValidUntil.Format(time.RFC3339),
		Purpose:        p.Purpose,
	}
	if p.HostCompany != nil {
		resp.HostCompanyName = p.HostCompany.Name
	}
	if p.HostEmployee != nil {
		resp.HostEmployeeName = p.HostEmployee.FullName
	}
	return resp
}
