package entry

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=entry_repo.go -destination=mock/entry_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *EntryLog) error
	FindByIDForUpdate(ctx context.Context, id string) (*EntryLog, error)
	HasOpenForPass(ctx context.Context, passID string) (bool, error)
	HasOpenForDelivery(ctx context.Context, deliveryID string) (bool, error)
	Update(ctx context.Context, e *EntryLog) error
	FindActive(ctx context.Context, companyName string) ([]EntryLog, error)
	FindAll(ctx context.Context, companyName string, filter ListEntryFilter) ([]EntryLog, error)
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

func (r *repository) conn(ctx context.Context) *gorm.DB {
	if r.tx != nil {
		db := r.db.Session(&gorm.Session{Context: ctx, NewDB: true})
		db.Statement.ConnPool = r.tx
		return db
	}
	return r.db.WithContext(ctx)
}

func (r *repository) Create(ctx context.Context, e *EntryLog) error {
	return r.conn(ctx).Create(e).Error
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*EntryLog, error) {
	var e EntryLog
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&e).Error
	return &e, err
}

func (r *repository) HasOpenForPass(ctx context.Context, passID string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&EntryLog{}).
		Where("visitor_pass_id = ?", passID).
		Where("check_out_time IS NULL").
		Count(&count).Error
	return count > 0, err
}

func (r *repository) HasOpenForDelivery(ctx context.Context, deliveryID string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&EntryLog{}).
		Where("delivery_id = ?", deliveryID).
		Where("check_out_time IS NULL").
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, e *EntryLog) error {
	return r.conn(ctx).Save(e).Error
}

func (r *repository) FindActive(ctx context.Context, companyName string) ([]EntryLog, error) {
	q := r.conn(ctx).
		Preload("Gate").
		Where("check_out_time IS NULL")

	if companyName != "" {
		q = q.Where("company_name = ?", companyName)
	}

	var rows []EntryLog
	err := q.Order("check_in_time DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindAll(ctx context.Context, companyName string, filter ListEntryFilter) ([]EntryLog, error) {
	q := r.conn(ctx).Preload("Gate")

	if companyName != "" {
		q = q.Where("company_name = ?", companyName)
	}
	if filter.EntryType != "" {
		q = q.Where("entry_type = ?", filter.EntryType)
	}
	if filter.GateID != "" {
		q = q.Where("gate_id = ?", filter.GateID)
	}
	if filter.OpenOnly {
		q = q.Where("check_out_time IS NULL")
	}

	var rows []EntryLog
	err := q.Order("check_in_time DESC").Find(&rows).Error
	return rows, err
}
