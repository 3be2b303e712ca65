package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one append-only entry of a consultation transcript.
// Only IsRead ever changes after insert.
type ChatMessage struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ConsultationID uuid.UUID `gorm:"type:uuid;not null;index:idx_chat_messages_consultation_sent,priority:1" json:"consultation_id"`
	SenderID       uuid.UUID `gorm:"type:uuid;not null" json:"sender_id"`
	IsFromDoctor   bool      `gorm:"not null" json:"is_from_doctor"`
	Message        string    `gorm:"type:text;not null" json:"message"`
	SentAt         time.Time `gorm:"not null;index:idx_chat_messages_consultation_sent,priority:2" json:"sent_at"`
	IsRead         bool      `gorm:"not null" json:"is_read"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
