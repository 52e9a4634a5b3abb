package crud

import (
	"context"

	"gorm.io/gorm"

	"chirper/domain"
)

// NotificationService manages Notifications. Creating them is not its job -
// the follow and like services insert notification rows inside their own
// transactions, so a notification can't outlive or predate its cause.
// It implements the domain.NotificationService interface.
type NotificationService struct {
	notificationGorm
}

// notificationGorm runs CRUD operations on the database for Notifications.
type notificationGorm struct {
	db *gorm.DB
}

// NewNotificationService returns an instance of NotificationService.
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{
		notificationGorm{
			db: db,
		},
	}
}

// Ensure the NotificationService struct properly implements the domain.NotificationService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.NotificationService = &NotificationService{}

// ByUser returns the given user's notifications, newest first, with the
// sending user preloaded. Reading the list marks all of them as read.
func (ng *notificationGorm) ByUser(ctx context.Context, userID int) ([]domain.Notification, error) {
	notifications := []domain.Notification{}
	err := ng.db.WithContext(ctx).
		Where("to_id = ?", userID).
		Preload("From").
		Order("created_at desc").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	err = ng.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("to_id = ? AND read = ?", userID, false).
		Update("read", true).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// DeleteAll removes all notifications of the given user.
func (ng *notificationGorm) DeleteAll(ctx context.Context, userID int) error {
	return ng.db.WithContext(ctx).
		Where("to_id = ?", userID).
		Delete(&domain.Notification{}).Error
}
