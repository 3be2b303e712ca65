package repository

import (
	"telemedicine-core/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatMessageRepository interface {
	Create(db *gorm.DB, message *entity.ChatMessage) error
	ListByConsultation(db *gorm.DB, consultationID uuid.UUID) ([]entity.ChatMessage, error)
	MarkReadFromOthers(db *gorm.DB, consultationID, readerID uuid.UUID) (int64, error)
}
