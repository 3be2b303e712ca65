package converter

import (
	"telemedicine-core/internal/delivery/dto"
	"telemedicine-core/internal/domain/entity"
)

func NotificationToResponse(notification *entity.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        notification.ID,
		Category:  string(notification.Category),
		Title:     notification.Title,
		Message:   notification.Message,
		Link:      notification.Link,
		IsRead:    notification.IsRead,
		CreatedAt: notification.CreatedAt,
	}
}

func NotificationsToResponses(notifications []entity.Notification) []dto.NotificationResponse {
	responses := make([]dto.NotificationResponse, len(notifications))
	for i := range notifications {
		responses[i] = NotificationToResponse(&notifications[i])
	}
	return responses
}
