package notification

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=notification_repo.go -destination=mock/notification_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	Update(ctx context.Context, n *Notification) error
	FindAll(ctx context.Context, filter ListNotificationFilter) ([]Notification, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *repository) Update(ctx context.Context, n *Notification) error {
	return r.db.WithContext(ctx).Save(n).Error
}

func (r *repository) FindAll(ctx context.Context, filter ListNotificationFilter) ([]Notification, error) {
	q := r.db.WithContext(ctx)

	if filter.Channel != "" {
		q = q.Where("channel = ?", filter.Channel)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var rows []Notification
	err := q.Order("created_at DESC").Find(&rows).Error
	return rows, err
}
