package repository

import (
	"errors"

	"telemedicine-core/internal/domain/entity"
	domainRepo "telemedicine-core/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type prescriptionRepository struct{}

func NewPrescriptionRepository() domainRepo.PrescriptionRepository {
	return &prescriptionRepository{}
}

func (r *prescriptionRepository) Create(db *gorm.DB, prescription *entity.Prescription) error {
	return db.Create(prescription).Error
}

func (r *prescriptionRepository) FindByPrescriptionID(db *gorm.DB, prescriptionID string) (*entity.Prescription, error) {
	var prescription entity.Prescription
	err := db.Preload("Patient").Preload("Doctor").Where("prescription_id = ?", prescriptionID).First(&prescription).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &prescription, nil
}

func (r *prescriptionRepository) ListByPatient(db *gorm.DB, patientID uuid.UUID) ([]entity.Prescription, error) {
	var prescriptions []entity.Prescription
	err := db.Preload("Doctor").
		Where("patient_id = ?", patientID).
		Order("issue_date DESC, created_at DESC").
		Find(&prescriptions).Error
	if err != nil {
		return nil, err
	}
	return prescriptions, nil
}

func (r *prescriptionRepository) SetLookupCodeIfAbsent(db *gorm.DB, id uuid.UUID, code []byte) (int64, error) {
	result := db.Model(&entity.Prescription{}).
		Where("id = ? AND (lookup_code IS NULL OR length(lookup_code) = 0)", id).
		Update("lookup_code", code)
	return result.RowsAffected, result.Error
}

func (r *prescriptionRepository) ReplaceLookupCode(db *gorm.DB, id uuid.UUID, code []byte) error {
	return db.Model(&entity.Prescription{}).Where("id = ?", id).Update("lookup_code", code).Error
}
