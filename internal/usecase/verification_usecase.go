package usecase

import (
	"context"

	"telemedicine-core/internal/converter"
	"telemedicine-core/internal/delivery/dto"
	"telemedicine-core/internal/domain/repository"
	"telemedicine-core/pkg/identifier"
	"telemedicine-core/pkg/lookupcode"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// VerificationUsecase backs the public, unauthenticated lookup of artifacts
// by the identifier printed in their lookup code.
type VerificationUsecase interface {
	GetRecord(ctx context.Context, recordID string) (*dto.PublicMedicalRecordResponse, error)
	GetRecordLookupCode(ctx context.Context, recordID string) ([]byte, error)
	GetPrescription(ctx context.Context, prescriptionID string) (*dto.PublicPrescriptionResponse, error)
	GetPrescriptionLookupCode(ctx context.Context, prescriptionID string) ([]byte, error)
}

type verificationUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	recordRepo       repository.MedicalRecordRepository
	prescriptionRepo repository.PrescriptionRepository
	encoder          *lookupcode.Encoder
}

func NewVerificationUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	recordRepo repository.MedicalRecordRepository,
	prescriptionRepo repository.PrescriptionRepository,
	encoder *lookupcode.Encoder,
) VerificationUsecase {
	return &verificationUsecase{
		db:               db,
		log:              log,
		recordRepo:       recordRepo,
		prescriptionRepo: prescriptionRepo,
		encoder:          encoder,
	}
}

func (u *verificationUsecase) GetRecord(ctx context.Context, recordID string) (*dto.PublicMedicalRecordResponse, error) {
	if !identifier.Valid(identifier.PrefixMedicalRecord, recordID) {
		return nil, ErrRecordNotFound
	}

	record, err := u.recordRepo.FindByRecordID(u.db.WithContext(ctx), recordID)
	if err != nil {
		u.log.Warnf("Failed to find medical record %s: %+v", recordID, err)
		return nil, err
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}

	return converter.MedicalRecordToPublicResponse(record), nil
}

// GetRecordLookupCode returns the stored PNG, generating it on first request
func (u *verificationUsecase) GetRecordLookupCode(ctx context.Context, recordID string) ([]byte, error) {
	if !identifier.Valid(identifier.PrefixMedicalRecord, recordID) {
		return nil, ErrRecordNotFound
	}

	record, err := u.recordRepo.FindByRecordID(u.db.WithContext(ctx), recordID)
	if err != nil {
		u.log.Warnf("Failed to find medical record %s: %+v", recordID, err)
		return nil, err
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}

	code, err := ensureLookupCode(u.db.WithContext(ctx), u.recordRepo, u.encoder, lookupcode.KindRecord, record.RecordID, record.ID, record.LookupCode)
	if err != nil {
		u.log.Warnf("Failed to generate lookup code for record %s: %+v", recordID, err)
		return nil, err
	}
	return code, nil
}

func (u *verificationUsecase) GetPrescription(ctx context.Context, prescriptionID string) (*dto.PublicPrescriptionResponse, error) {
	if !identifier.Valid(identifier.PrefixPrescription, prescriptionID) {
		return nil, ErrPrescriptionNotFound
	}

	prescription, err := u.prescriptionRepo.FindByPrescriptionID(u.db.WithContext(ctx), prescriptionID)
	if err != nil {
		u.log.Warnf("Failed to find prescription %s: %+v", prescriptionID, err)
		return nil, err
	}
	if prescription == nil {
		return nil, ErrPrescriptionNotFound
	}

	return converter.PrescriptionToPublicResponse(prescription, today()), nil
}

func (u *verificationUsecase) GetPrescriptionLookupCode(ctx context.Context, prescriptionID string) ([]byte, error) {
	if !identifier.Valid(identifier.PrefixPrescription, prescriptionID) {
		return nil, ErrPrescriptionNotFound
	}

	prescription, err := u.prescriptionRepo.FindByPrescriptionID(u.db.WithContext(ctx), prescriptionID)
	if err != nil {
		u.log.Warnf("Failed to find prescription %s: %+v", prescriptionID, err)
		return nil, err
	}
	if prescription == nil {
		return nil, ErrPrescriptionNotFound
	}

	code, err := ensureLookupCode(u.db.WithContext(ctx), u.prescriptionRepo, u.encoder, lookupcode.KindPrescription, prescription.PrescriptionID, prescription.ID, prescription.LookupCode)
	if err != nil {
		u.log.Warnf("Failed to generate lookup code for prescription %s: %+v", prescriptionID, err)
		return nil, err
	}
	return code, nil
}
