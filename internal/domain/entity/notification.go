package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationCategory is the closed set of notification kinds
type NotificationCategory string

const (
	NotificationCategoryAppointment  NotificationCategory = "appointment"
	NotificationCategoryReminder     NotificationCategory = "reminder"
	NotificationCategoryPrescription NotificationCategory = "prescription"
	NotificationCategoryGeneral      NotificationCategory = "general"
)

func (c NotificationCategory) IsKnown() bool {
	switch c {
	case NotificationCategoryAppointment, NotificationCategoryReminder,
		NotificationCategoryPrescription, NotificationCategoryGeneral:
		return true
	}
	return false
}

// Notification is a stored pull-based alert. Immutable except IsRead.
type Notification struct {
	ID        uuid.UUID            `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID            `gorm:"type:uuid;not null;index:idx_notifications_user_read,priority:1" json:"user_id"`
	Category  NotificationCategory `gorm:"type:varchar(20);not null" json:"category"`
	Title     string               `gorm:"type:varchar(200);not null" json:"title"`
	Message   string               `gorm:"type:text;not null" json:"message"`
	Link      string               `gorm:"type:varchar(500)" json:"link,omitempty"`
	IsRead    bool                 `gorm:"not null;index:idx_notifications_user_read,priority:2" json:"is_read"`
	CreatedAt time.Time            `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// NewNotificationFromIntent builds the row for a planned notification
func NewNotificationFromIntent(intent NotificationIntent) *Notification {
	return &Notification{
		UserID:   intent.RecipientID,
		Category: intent.Category,
		Title:    intent.Title,
		Message:  intent.Message,
		Link:     intent.Link,
	}
}
