package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// UpdateConsultationRequest leaves omitted fields untouched
type UpdateConsultationRequest struct {
	Diagnosis         *string `json:"diagnosis" validate:"omitempty,max=5000"`
	TreatmentPlan     *string `json:"treatment_plan" validate:"omitempty,max=5000"`
	FollowUpDate      *string `json:"follow_up_date" validate:"omitempty,datetime=2006-01-02"`
	ConsultationNotes *string `json:"consultation_notes" validate:"omitempty,max=10000"`
}

type SendChatMessageRequest struct {
	Message string `json:"message" validate:"required,max=5000"`
}

// Response DTOs

type ConsultationResponse struct {
	ID                uuid.UUID  `json:"id"`
	AppointmentID     uuid.UUID  `json:"appointment_id"`
	BookingID         string     `json:"booking_id"`
	AppointmentStatus string     `json:"appointment_status"`
	Diagnosis         string     `json:"diagnosis"`
	TreatmentPlan     string     `json:"treatment_plan"`
	FollowUpDate      *string    `json:"follow_up_date"`
	ConsultationNotes string     `json:"consultation_notes"`
	StartedAt         time.Time  `json:"started_at"`
	EndedAt           *time.Time `json:"ended_at"`
	IsEnded           bool       `json:"is_ended"`
}

type CloseConsultationResponse struct {
	BookingID         string                `json:"booking_id"`
	AppointmentStatus string                `json:"appointment_status"`
	Consultation      *ConsultationResponse `json:"consultation,omitempty"`
}

type ChatMessageResponse struct {
	ID           int64     `json:"id"`
	SenderID     uuid.UUID `json:"sender_id"`
	IsFromDoctor bool      `json:"is_from_doctor"`
	Message      string    `json:"message"`
	SentAt       time.Time `json:"sent_at"`
	IsRead       bool      `json:"is_read"`
}

type ChatMessageListResponse struct {
	Messages []ChatMessageResponse `json:"messages"`
	Total    int                   `json:"total"`
}

type MarkReadResponse struct {
	Updated int64 `json:"updated"`
}
