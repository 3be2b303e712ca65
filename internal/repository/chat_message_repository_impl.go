package repository

import (
	"telemedicine-core/internal/domain/entity"
	domainRepo "telemedicine-core/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type chatMessageRepository struct{}

func NewChatMessageRepository() domainRepo.ChatMessageRepository {
	return &chatMessageRepository{}
}

func (r *chatMessageRepository) Create(db *gorm.DB, message *entity.ChatMessage) error {
	return db.Create(message).Error
}

// ListByConsultation returns the transcript in send order. Ties on sent_at
// fall back to insertion order.
func (r *chatMessageRepository) ListByConsultation(db *gorm.DB, consultationID uuid.UUID) ([]entity.ChatMessage, error) {
	var messages []entity.ChatMessage
	err := db.Where("consultation_id = ?", consultationID).
		Order("sent_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkReadFromOthers flags every unread message not sent by readerID.
func (r *chatMessageRepository) MarkReadFromOthers(db *gorm.DB, consultationID, readerID uuid.UUID) (int64, error) {
	result := db.Model(&entity.ChatMessage{}).
		Where("consultation_id = ? AND sender_id <> ? AND is_read = ?", consultationID, readerID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}
