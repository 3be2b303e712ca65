package repository

import (
	"errors"

	"telemedicine-core/internal/domain/entity"
	domainRepo "telemedicine-core/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByBookingID(db *gorm.DB, bookingID string) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Patient").Preload("Doctor").Where("booking_id = ?", bookingID).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

// ListForUser returns appointments where userID is either party, newest scheduled first.
func (r *appointmentRepository) ListForUser(db *gorm.DB, userID uuid.UUID, filter domainRepo.AppointmentFilter) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	query := db.Preload("Patient").Preload("Doctor").
		Where("patient_id = ? OR doctor_id = ?", userID, userID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	err := query.Order("scheduled_date DESC, scheduled_time DESC, created_at DESC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// UpdateStatus moves the appointment to `to` ONLY if it is still in `from`.
// Returns affected rows: 1 = applied, 0 = status changed underneath the caller or row missing.
func (r *appointmentRepository) UpdateStatus(db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) UpdateNotes(db *gorm.DB, id uuid.UUID, notes string) error {
	return db.Model(&entity.Appointment{}).Where("id = ?", id).Update("notes", notes).Error
}
