package repository

import (
	"errors"
	"time"

	"telemedicine-core/internal/domain/entity"
	domainRepo "telemedicine-core/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type consultationRepository struct{}

func NewConsultationRepository() domainRepo.ConsultationRepository {
	return &consultationRepository{}
}

func (r *consultationRepository) Create(db *gorm.DB, consultation *entity.Consultation) error {
	return db.Create(consultation).Error
}

func (r *consultationRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Consultation, error) {
	var consultation entity.Consultation
	err := db.Where("id = ?", id).First(&consultation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &consultation, nil
}

func (r *consultationRepository) FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.Consultation, error) {
	var consultation entity.Consultation
	err := db.Where("appointment_id = ?", appointmentID).First(&consultation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &consultation, nil
}

// MarkEnded stamps ended_at only on an open session.
// Returns affected rows: 0 = already ended.
func (r *consultationRepository) MarkEnded(db *gorm.DB, id uuid.UUID, endedAt time.Time) (int64, error) {
	result := db.Model(&entity.Consultation{}).
		Where("id = ? AND ended_at IS NULL", id).
		Update("ended_at", endedAt)
	return result.RowsAffected, result.Error
}

func (r *consultationRepository) UpdateNotes(db *gorm.DB, id uuid.UUID, notes domainRepo.ConsultationNotes) error {
	updates := map[string]interface{}{}
	if notes.Diagnosis != nil {
		updates["diagnosis"] = *notes.Diagnosis
	}
	if notes.TreatmentPlan != nil {
		updates["treatment_plan"] = *notes.TreatmentPlan
	}
	if notes.FollowUpDate != nil {
		updates["follow_up_date"] = *notes.FollowUpDate
	}
	if notes.ConsultationNotes != nil {
		updates["consultation_notes"] = *notes.ConsultationNotes
	}
	if len(updates) == 0 {
		return nil
	}
	return db.Model(&entity.Consultation{}).Where("id = ?", id).Updates(updates).Error
}
