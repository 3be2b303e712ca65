package repository

import (
	"telemedicine-core/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MedicalRecordRepository interface {
	Create(db *gorm.DB, record *entity.MedicalRecord) error
	FindByRecordID(db *gorm.DB, recordID string) (*entity.MedicalRecord, error)
	ListByPatient(db *gorm.DB, patientID uuid.UUID) ([]entity.MedicalRecord, error)
	SetLookupCodeIfAbsent(db *gorm.DB, id uuid.UUID, code []byte) (int64, error)
	ReplaceLookupCode(db *gorm.DB, id uuid.UUID, code []byte) error
}
