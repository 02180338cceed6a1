package gate

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=gate_repo.go -destination=mock/gate_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, g *Gate) error
	FindByID(ctx context.Context, id string) (*Gate, error)
	FindAll(ctx context.Context) ([]Gate, error)
	Update(ctx context.Context, g *Gate) error
	FindShiftsByGate(ctx context.Context, gateID string) ([]GuardShift, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, g *Gate) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Gate, error) {
	var g Gate
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&g).Error
	return &g, err
}

func (r *repository) FindAll(ctx context.Context) ([]Gate, error) {
	var rows []Gate
	err := r.db.WithContext(ctx).
		Order("code ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, g *Gate) error {
	return r.db.WithContext(ctx).Save(g).Error
}

func (r *repository) FindShiftsByGate(ctx context.Context, gateID string) ([]GuardShift, error) {
	var rows []GuardShift
	err := r.db.WithContext(ctx).
		Preload("Guard").
		Where("gate_id = ?", gateID).
		Order("shift_start DESC").
		Find(&rows).Error
	return rows, err
}
