package repository

import (
	"time"

	"telemedicine-core/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConsultationNotes carries the editable fields of a session. Nil leaves a
// field untouched.
type ConsultationNotes struct {
	Diagnosis         *string
	TreatmentPlan     *string
	FollowUpDate      *time.Time
	ConsultationNotes *string
}

type ConsultationRepository interface {
	Create(db *gorm.DB, consultation *entity.Consultation) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Consultation, error)
	FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.Consultation, error)
	MarkEnded(db *gorm.DB, id uuid.UUID, endedAt time.Time) (int64, error)
	UpdateNotes(db *gorm.DB, id uuid.UUID, notes ConsultationNotes) error
}
