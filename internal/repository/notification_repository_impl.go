package repository

import (
	"errors"

	"telemedicine-core/internal/domain/entity"
	domainRepo "telemedicine-core/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type notificationRepository struct{}

func NewNotificationRepository() domainRepo.NotificationRepository {
	return &notificationRepository{}
}

func (r *notificationRepository) Create(db *gorm.DB, notification *entity.Notification) error {
	return db.Create(notification).Error
}

func (r *notificationRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Notification, error) {
	var notification entity.Notification
	err := db.Where("id = ?", id).First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) ListByUser(db *gorm.DB, userID uuid.UUID, unreadOnly bool) ([]entity.Notification, error) {
	var notifications []entity.Notification
	query := db.Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	err := query.Order("created_at DESC, id DESC").Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead flips is_read for the owner's notification.
// Returns affected rows: 0 = already read, not found, or not owned.
func (r *notificationRepository) MarkRead(db *gorm.DB, id, userID uuid.UUID) (int64, error) {
	result := db.Model(&entity.Notification{}).
		Where("id = ? AND user_id = ? AND is_read = ?", id, userID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

func (r *notificationRepository) CountUnread(db *gorm.DB, userID uuid.UUID) (int64, error) {
	var count int64
	err := db.Model(&entity.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *notificationRepository) CountUnreadGrouped(db *gorm.DB) ([]domainRepo.UnreadCount, error) {
	var counts []domainRepo.UnreadCount
	err := db.Model(&entity.Notification{}).
		Select("user_id, COUNT(*) AS count").
		Where("is_read = ?", false).
		Group("user_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}
