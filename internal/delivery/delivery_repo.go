package delivery

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DeliveryScope struct {
	CompanyID  string
	EmployeeID string
}

//go:generate mockgen -source=delivery_repo.go -destination=mock/delivery_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, d *Delivery) error
	FindByID(ctx context.Context, id string) (*Delivery, error)
	FindByIDForUpdate(ctx context.Context, id string) (*Delivery, error)
	Update(ctx context.Context, d *Delivery) error
	FindAll(ctx context.Context, scope DeliveryScope, filter ListDeliveryFilter) ([]Delivery, error)
	FindPendingGate(ctx context.Context) ([]Delivery, error)
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

func (r *repository) Create(ctx context.Context, d *Delivery) error {
	return r.conn(ctx).Create(d).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Delivery, error) {
	var d Delivery
	err := r.conn(ctx).
		Preload("Company").
		Preload("Employee").
		Where("id = ?", id).
		First(&d).Error
	return &d, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*Delivery, error) {
	var d Delivery
	err := r.conn(ctx).
		Preload("Company").
		Preload("Employee").
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&d).Error
	return &d, err
}

func (r *repository) Update(ctx context.Context, d *Delivery) error {
	return r.conn(ctx).Save(d).Error
}

func (r *repository) FindAll(ctx context.Context, scope DeliveryScope, filter ListDeliveryFilter) ([]Delivery, error) {
	q := r.conn(ctx).
		Preload("Company").
		Preload("Employee")

	if scope.CompanyID != "" {
		q = q.Where("company_id = ?", scope.CompanyID)
	}
	if scope.EmployeeID != "" {
		q = q.Where("employee_id = ?", scope.EmployeeID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.DeliveryType != "" {
		q = q.Where("delivery_type = ?", filter.DeliveryType)
	}

	var rows []Delivery
	err := q.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindPendingGate(ctx context.Context) ([]Delivery, error) {
	var rows []Delivery
	err := r.conn(ctx).
		Preload("Company").
		Preload("Employee").
		Where("status IN ?", []string{StatusExpected, StatusArrived}).
		Order("expected_at ASC NULLS LAST, created_at ASC").
		Find(&rows).Error
	return rows, err
}
