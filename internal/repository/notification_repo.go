package repository

import (
	"context"

	"gorm.io/gorm"

	"sai-tutoria/internal/model"
)

// NotificationRepository notification attempts per tutoring
type NotificationRepository interface {
	Create(ctx context.Context, log *model.NotificationLog) error
	ListByTutoring(ctx context.Context, tutoringID string) ([]model.NotificationLog, error)
}

type notificationRepo struct {
	db *gorm.DB
}

// NewNotificationRepo creates a NotificationRepository
func NewNotificationRepo(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, log *model.NotificationLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *notificationRepo) ListByTutoring(ctx context.Context, tutoringID string) ([]model.NotificationLog, error) {
	var logs []model.NotificationLog
	err := r.db.WithContext(ctx).
		Where("tutoring_id = ?", tutoringID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}
