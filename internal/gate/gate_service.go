package gate

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	gateerrors "github.com/kaleaditya28897-linux/gatepass/internal/gate/errors"
)

//go:generate mockgen -source=gate_service.go -destination=mock/gate_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateGateRequest) (GateResponse, error)
	GetAll(ctx context.Context) ([]GateResponse, error)
	GetByID(ctx context.Context, id string) (GateResponse, error)
	Deactivate(ctx context.Context, id string) (GateResponse, error)
	GetShifts(ctx context.Context, gateID string) ([]GuardShiftResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("gate.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("gate.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateGateRequest) (GateResponse, error) {
	gateType := req.GateType
	if gateType == "" {
		gateType = TypePedestrian
	}

	g := &Gate{
		ID:       uuid.New(),
		Name:     req.Name,
		Code:     req.Code,
		Location: req.Location,
		GateType: gateType,
		IsActive: true,
	}

	if err := s.repo.Create(ctx, g); err != nil {
		if isUniqueViolation(err) {
			return GateResponse{}, gateerrors.ErrDuplicateGateCode
		}
		s.logger.Error("create gate persist failed", zap.Error(err))
		return GateResponse{}, err
	}

	s.logger.Info("gate created",
		zap.String("gate_id", g.ID.String()),
		zap.String("code", g.Code),
	)
	return mapToResponse(*g), nil
}

func (s *service) GetAll(ctx context.Context) ([]GateResponse, error) {
	gates, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]GateResponse, len(gates))
	for i, g := range gates {
		resp[i] = mapToResponse(g)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (GateResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return GateResponse{}, gateerrors.ErrInvalidGateID
	}
	g, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GateResponse{}, gateerrors.ErrGateNotFound
		}
		return GateResponse{}, err
	}
	return mapToResponse(*g), nil
}

func (s *service) Deactivate(ctx context.Context, id string) (GateResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return GateResponse{}, gateerrors.ErrInvalidGateID
	}
	g, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GateResponse{}, gateerrors.ErrGateNotFound
		}
		return GateResponse{}, err
	}

	g.IsActive = false
	if err := s.repo.Update(ctx, g); err != nil {
		return GateResponse{}, err
	}

	s.logger.Info("gate deactivated", zap.String("gate_id", id))
	return mapToResponse(*g), nil
}

func (s *service) GetShifts(ctx context.Context, gateID string) ([]GuardShiftResponse, error) {
	if _, err := uuid.Parse(gateID); err != nil {
		return nil, gateerrors.ErrInvalidGateID
	}
	shifts, err := s.repo.FindShiftsByGate(ctx, gateID)
	if err != nil {
		return nil, err
	}

	resp := make([]GuardShiftResponse, len(shifts))
	for i, sh := range shifts {
		resp[i] = GuardShiftResponse{
			ID:         sh.ID.String(),
			GuardID:    sh.GuardID.String(),
			GateID:     sh.GateID.String(),
			ShiftStart: sh.ShiftStart.Format(time.RFC3339),
			ShiftEnd:   sh.ShiftEnd.Format(time.RFC3339),
			IsActive:   sh.IsActive,
		}
		if sh.Guard != nil {
			resp[i].BadgeNumber = sh.Guard.BadgeNumber
		}
	}
	return resp, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func mapToResponse(g Gate) GateResponse {
	return GateResponse{
		ID:       g.ID.String(),
		Name:     g.Name,
		Code:     g.Code,
		Location: g.Location,
		GateType: g.GateType,
		IsActive: g.IsActive,
	}
}
