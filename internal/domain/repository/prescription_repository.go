package repository

import (
	"telemedicine-core/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PrescriptionRepository interface {
	Create(db *gorm.DB, prescription *entity.Prescription) error
	FindByPrescriptionID(db *gorm.DB, prescriptionID string) (*entity.Prescription, error)
	ListByPatient(db *gorm.DB, patientID uuid.UUID) ([]entity.Prescription, error)
	SetLookupCodeIfAbsent(db *gorm.DB, id uuid.UUID, code []byte) (int64, error)
	ReplaceLookupCode(db *gorm.DB, id uuid.UUID, code []byte) error
}
