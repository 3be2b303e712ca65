package service

import (
	"context"

	"telemedicine-core/internal/domain/entity"
	"telemedicine-core/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NotificationService turns planned notification intents into stored rows
// and keeps the unread counters in step once they are committed.
type NotificationService interface {
	// Persist writes one row per intent inside tx.
	Persist(ctx context.Context, tx *gorm.DB, intents []entity.NotificationIntent) ([]entity.Notification, error)
	// Published must be called after the transaction that persisted
	// notifications has committed. Counter failures are logged, not returned.
	Published(ctx context.Context, notifications []entity.Notification)
}

type notificationService struct {
	log              *logrus.Logger
	notificationRepo repository.NotificationRepository
	counter          *NotificationCounterService
}

func NewNotificationService(log *logrus.Logger, notificationRepo repository.NotificationRepository, counter *NotificationCounterService) NotificationService {
	return &notificationService{
		log:              log,
		notificationRepo: notificationRepo,
		counter:          counter,
	}
}

func (s *notificationService) Persist(ctx context.Context, tx *gorm.DB, intents []entity.NotificationIntent) ([]entity.Notification, error) {
	notifications := make([]entity.Notification, 0, len(intents))
	for _, intent := range intents {
		notification := entity.NewNotificationFromIntent(intent)
		if err := s.notificationRepo.Create(tx, notification); err != nil {
			s.log.Warnf("Failed to create notification for user %s: %+v", intent.RecipientID, err)
			return nil, err
		}
		notifications = append(notifications, *notification)
	}
	return notifications, nil
}

func (s *notificationService) Published(ctx context.Context, notifications []entity.Notification) {
	if s.counter == nil {
		return
	}
	for _, n := range notifications {
		if err := s.counter.Increment(ctx, n.UserID); err != nil {
			s.log.Warnf("Failed to bump unread counter for user %s: %+v", n.UserID, err)
		}
	}
}
