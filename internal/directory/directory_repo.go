package directory

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=directory_repo.go -destination=mock/directory_repo_mock.go -package=mock
type Repository interface {
	FindCompanyByID(ctx context.Context, id string) (*Company, error)
	FindEmployeeByID(ctx context.Context, id string) (*Employee, error)
	EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindCompanyByID(ctx context.Context, id string) (*Company, error) {
	var c Company
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&c).Error
	return &c, err
}

func (r *repository) FindEmployeeByID(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Preload("Company").
		Where("id = ?", id).
		First(&e).Error
	return &e, err
}

func (r *repository) EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("id = ?", employeeID).
		Where("company_id = ?", companyID).
		Count(&count).Error
	return count > 0, err
}
