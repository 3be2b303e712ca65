package repository

import (
	"telemedicine-core/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentFilter narrows ListForUser
type AppointmentFilter struct {
	Status entity.AppointmentStatus
}

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindByBookingID(db *gorm.DB, bookingID string) (*entity.Appointment, error)
	ListForUser(db *gorm.DB, userID uuid.UUID, filter AppointmentFilter) ([]entity.Appointment, error)
	UpdateStatus(db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error)
	UpdateNotes(db *gorm.DB, id uuid.UUID, notes string) error
}
