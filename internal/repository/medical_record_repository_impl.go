package repository

import (
	"errors"

	"telemedicine-core/internal/domain/entity"
	domainRepo "telemedicine-core/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type medicalRecordRepository struct{}

func NewMedicalRecordRepository() domainRepo.MedicalRecordRepository {
	return &medicalRecordRepository{}
}

func (r *medicalRecordRepository) Create(db *gorm.DB, record *entity.MedicalRecord) error {
	return db.Create(record).Error
}

func (r *medicalRecordRepository) FindByRecordID(db *gorm.DB, recordID string) (*entity.MedicalRecord, error) {
	var record entity.MedicalRecord
	err := db.Preload("Patient").Preload("Doctor").Where("record_id = ?", recordID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *medicalRecordRepository) ListByPatient(db *gorm.DB, patientID uuid.UUID) ([]entity.MedicalRecord, error) {
	var records []entity.MedicalRecord
	err := db.Preload("Doctor").
		Where("patient_id = ?", patientID).
		Order("visit_date DESC, created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// SetLookupCodeIfAbsent stores code only when no image exists yet.
// Returns affected rows: 0 = another writer stored one first.
func (r *medicalRecordRepository) SetLookupCodeIfAbsent(db *gorm.DB, id uuid.UUID, code []byte) (int64, error) {
	result := db.Model(&entity.MedicalRecord{}).
		Where("id = ? AND (lookup_code IS NULL OR length(lookup_code) = 0)", id).
		Update("lookup_code", code)
	return result.RowsAffected, result.Error
}

func (r *medicalRecordRepository) ReplaceLookupCode(db *gorm.DB, id uuid.UUID, code []byte) error {
	return db.Model(&entity.MedicalRecord{}).Where("id = ?", id).Update("lookup_code", code).Error
}
