package pass

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PassScope narrows list queries to what the caller may see. Zero values mean
// no restriction on that axis.
type PassScope struct {
	HostCompanyID  string
	HostEmployeeID string
}

//go:generate mockgen -source=pass_repo.go -destination=mock/pass_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *VisitorPass) error
	FindByID(ctx context.Context, id string) (*VisitorPass, error)
	FindByIDForUpdate(ctx context.Context, id string) (*VisitorPass, error)
	FindByCode(ctx context.Context, code string) (*VisitorPass, error)
	FindByCodeForUpdate(ctx context.Context, code string) (*VisitorPass, error)
	Update(ctx context.Context, p *VisitorPass) error
	FindAll(ctx context.Context, scope PassScope, filter ListPassFilter) ([]VisitorPass, error)
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// conn routes queries through the surrounding sql.Tx when one is set, so the
// row locks taken below hold until the service commits.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	if r.tx != nil {
		db := r.db.Session(&gorm.Session{Context: ctx, NewDB: true})
		db.Statement.ConnPool = r.tx
		return db
	}
	return r.db.WithContext(ctx)
}

func (r *repository) Create(ctx context.Context, p *VisitorPass) error {
	return r.conn(ctx).Create(p).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*VisitorPass, error) {
	var p VisitorPass
	err := r.conn(ctx).
		Preload("HostCompany").
		Preload("HostEmployee").
		Where("id = ?", id).
		First(&p).Error
	return &p, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*VisitorPass, error) {
	var p VisitorPass
	err := r.conn(ctx).
		Preload("HostCompany").
		Preload("HostEmployee").
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&p).Error
	return &p, err
}

func (r *repository) FindByCode(ctx context.Context, code string) (*VisitorPass, error) {
	var p VisitorPass
	err := r.conn(ctx).
		Preload("HostCompany").
		Preload("HostEmployee").
		Where("pass_code = ?", code).
		First(&p).Error
	return &p, err
}

func (r *repository) FindByCodeForUpdate(ctx context.Context, code string) (*VisitorPass, error) {
	var p VisitorPass
	err := r.conn(ctx).
		Preload("HostCompany").
		Preload("HostEmployee").
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("pass_code = ?", code).
		First(&p).Error
	return &p, err
}

func (r *repository) Update(ctx context.Context, p *VisitorPass) error {
	return r.conn(ctx).Save(p).Error
}

func (r *repository) FindAll(ctx context.Context, scope PassScope, filter ListPassFilter) ([]VisitorPass, error) {
	q := r.conn(ctx).
		Preload("HostCompany").
		Preload("HostEmployee")

	if scope.HostCompanyID != "" {
		q = q.Where("host_company_id = ?", scope.HostCompanyID)
	}
	if scope.HostEmployeeID != "" {
		q = q.Where("host_employee_id = ?", scope.HostEmployeeID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.PassType != "" {
		q = q.Where("pass_type = ?", filter.PassType)
	}

	var rows []VisitorPass
	err := q.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// ExpireOverdue advances every pending or approved pass whose window has
// closed. The predicate makes the sweep idempotent under concurrent runs.
func (r *repository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	res := r.conn(ctx).
		Model(&VisitorPass{}).
		Where("status IN ?", []string{StatusPending, StatusApproved}).
		Where("valid_until < ?", now).
		Update("status", StatusExpired)
	return res.RowsAffected, res.Error
}
