package repository

import (
	"telemedicine-core/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UnreadCount is one row of the grouped unread tally
type UnreadCount struct {
	UserID uuid.UUID
	Count  int64
}

type NotificationRepository interface {
	Create(db *gorm.DB, notification *entity.Notification) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Notification, error)
	ListByUser(db *gorm.DB, userID uuid.UUID, unreadOnly bool) ([]entity.Notification, error)
	MarkRead(db *gorm.DB, id, userID uuid.UUID) (int64, error)
	CountUnread(db *gorm.DB, userID uuid.UUID) (int64, error)
	CountUnreadGrouped(db *gorm.DB) ([]UnreadCount, error)
}
