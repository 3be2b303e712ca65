package usecase

import (
	"context"

	"telemedicine-core/internal/converter"
	"telemedicine-core/internal/delivery/dto"
	"telemedicine-core/internal/domain/repository"
	"telemedicine-core/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type NotificationUsecase interface {
	GetMyNotifications(ctx context.Context, unreadOnly bool) (*dto.NotificationListResponse, error)
	GetUnreadCount(ctx context.Context) (*dto.UnreadCountResponse, error)
	MarkRead(ctx context.Context, notificationID uuid.UUID) (*dto.NotificationResponse, error)
}

type notificationUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	notificationRepo repository.NotificationRepository
	counter          *service.NotificationCounterService
}

func NewNotificationUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	notificationRepo repository.NotificationRepository,
	counter *service.NotificationCounterService,
) NotificationUsecase {
	return &notificationUsecase{
		db:               db,
		log:              log,
		notificationRepo: notificationRepo,
		counter:          counter,
	}
}

// GetMyNotifications lists the inbox newest first
func (u *notificationUsecase) GetMyNotifications(ctx context.Context, unreadOnly bool) (*dto.NotificationListResponse, error) {
	userID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	notifications, err := u.notificationRepo.ListByUser(u.db.WithContext(ctx), userID, unreadOnly)
	if err != nil {
		u.log.Warnf("Failed to find notifications for user %s: %+v", userID, err)
		return nil, err
	}

	return &dto.NotificationListResponse{
		Notifications: converter.NotificationsToResponses(notifications),
		Total:         len(notifications),
	}, nil
}

func (u *notificationUsecase) GetUnreadCount(ctx context.Context) (*dto.UnreadCountResponse, error) {
	userID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var count int64
	if u.counter != nil {
		count, err = u.counter.UnreadCount(ctx, userID)
	} else {
		count, err = u.notificationRepo.CountUnread(u.db.WithContext(ctx), userID)
	}
	if err != nil {
		u.log.Warnf("Failed to count unread notifications for user %s: %+v", userID, err)
		return nil, err
	}

	return &dto.UnreadCountResponse{Unread: count}, nil
}

// MarkRead flags a notification as read. Only its recipient may do so;
// marking an already read notification is a no-op.
func (u *notificationUsecase) MarkRead(ctx context.Context, notificationID uuid.UUID) (*dto.NotificationResponse, error) {
	userID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	notification, err := u.notificationRepo.FindByID(u.db.WithContext(ctx), notificationID)
	if err != nil {
		u.log.Warnf("Failed to find notification %s: %+v", notificationID, err)
		return nil, err
	}
	if notification == nil {
		return nil, ErrNotificationNotFound
	}
	if notification.UserID != userID {
		return nil, ErrNotNotificationRecipient
	}

	affected, err := u.notificationRepo.MarkRead(u.db.WithContext(ctx), notificationID, userID)
	if err != nil {
		u.log.Warnf("Failed to mark notification %s read: %+v", notificationID, err)
		return nil, err
	}

	if affected > 0 && u.counter != nil {
		if err := u.counter.Decrement(ctx, userID); err != nil {
			u.log.Warnf("Failed to decrement unread counter for user %s: %+v", userID, err)
		}
	}

	notification.IsRead = true
	response := converter.NotificationToResponse(notification)
	return &response, nil
}
