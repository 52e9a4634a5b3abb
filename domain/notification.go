package domain

import (
	"context"
	"time"
)

const (
	// NotificationFollow is sent to a user when somebody starts following them.
	NotificationFollow = "follow"
	// NotificationLike is sent to a user when somebody likes one of their posts.
	NotificationLike = "like"
)

// Notification tells a user that another user did something concerning them.
// It only references its sender and recipient, it doesn't own them.
// Notifications are created inside the same transaction as the event they
// report (a new follow edge, a new like), never when an edge is removed.
type Notification struct {
	ID        int       `json:"id"`
	Type      string    `json:"type" gorm:"size:30;notNull"`
	FromID    int       `json:"-" gorm:"notNull;index"`
	From      User      `json:"from"`
	ToID      int       `json:"-" gorm:"notNull;index"`
	Read      bool      `json:"read" gorm:"default:false"`
	CreatedAt time.Time `json:"createdAt"`
}

// NotificationService is a set of methods to work with the Notification model.
// Creation is not part of the interface on purpose: notifications are only
// written by the follow and like services, inside their transactions.
type NotificationService interface {
	// ByUser returns a user's notifications, newest first, and marks them read.
	ByUser(ctx context.Context, userID int) ([]Notification, error)
	DeleteAll(ctx context.Context, userID int) error
}
