package usecase

import (
	"context"
	"fmt"
	"time"

	"telemedicine-core/internal/converter"
	"telemedicine-core/internal/delivery/dto"
	"telemedicine-core/internal/domain/entity"
	"telemedicine-core/internal/domain/repository"
	repoImpl "telemedicine-core/internal/repository"
	"telemedicine-core/internal/service"
	"telemedicine-core/pkg/identifier"
	"telemedicine-core/pkg/lookupcode"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type PrescriptionUsecase interface {
	CreatePrescription(ctx context.Context, bookingID string, req *dto.CreatePrescriptionRequest) (*dto.PrescriptionResponse, error)
	GetMyPrescriptions(ctx context.Context) (*dto.PrescriptionListResponse, error)
	RegenerateLookupCode(ctx context.Context, prescriptionID string) (*dto.PrescriptionResponse, error)
}

type prescriptionUsecase struct {
	db                    *gorm.DB
	log                   *logrus.Logger
	appointmentRepo       repository.AppointmentRepository
	prescriptionRepo      repository.PrescriptionRepository
	auditService          service.AuditService
	notificationService   service.NotificationService
	encoder               *lookupcode.Encoder
	identifierMaxAttempts int
}

func NewPrescriptionUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	prescriptionRepo repository.PrescriptionRepository,
	auditService service.AuditService,
	notificationService service.NotificationService,
	encoder *lookupcode.Encoder,
	identifierMaxAttempts int,
) PrescriptionUsecase {
	return &prescriptionUsecase{
		db:                    db,
		log:                   log,
		appointmentRepo:       appointmentRepo,
		prescriptionRepo:      prescriptionRepo,
		auditService:          auditService,
		notificationService:   notificationService,
		encoder:               encoder,
		identifierMaxAttempts: identifierMaxAttempts,
	}
}

func (u *prescriptionUsecase) CreatePrescription(ctx context.Context, bookingID string, req *dto.CreatePrescriptionRequest) (*dto.PrescriptionResponse, error) {
	userID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	appointment, err := findAppointmentForParticipant(u.db.WithContext(ctx), u.log, u.appointmentRepo, bookingID, userID)
	if err != nil {
		return nil, err
	}
	if party, _ := appointment.PartyOf(userID); party != entity.PartyDoctor {
		return nil, entity.ErrPartyNotPermitted
	}

	issueDate := today()
	if req.IssueDate != "" {
		issueDate, err = time.Parse("2006-01-02", req.IssueDate)
		if err != nil {
			return nil, ErrInvalidDate
		}
	}

	var validUntil *time.Time
	if req.ValidUntil != "" {
		parsed, err := time.Parse("2006-01-02", req.ValidUntil)
		if err != nil {
			return nil, ErrInvalidDate
		}
		if parsed.Before(issueDate) {
			return nil, fmt.Errorf("%w: valid_until is before issue_date", ErrInvalidDate)
		}
		validUntil = &parsed
	}

	doctorID := appointment.DoctorID
	appointmentID := appointment.ID
	prescription := &entity.Prescription{
		PatientID:     appointment.PatientID,
		DoctorID:      &doctorID,
		AppointmentID: &appointmentID,
		Medications:   req.Medications,
		Instructions:  req.Instructions,
		IssueDate:     issueDate,
		ValidUntil:    validUntil,
	}

	var notifications []entity.Notification
	prescriptionID, err := identifier.Assign(identifier.PrefixPrescription, u.identifierMaxAttempts, func(id string) error {
		prescription.PrescriptionID = id
		inserted, insertErr := u.insertPrescription(ctx, prescription, doctorName(appointment))
		notifications = inserted
		return insertErr
	}, repoImpl.IsDuplicateKeyError)
	if err != nil {
		u.log.Warnf("Failed to create prescription for appointment %s: %+v", bookingID, err)
		return nil, err
	}

	u.notificationService.Published(ctx, notifications)

	code, err := ensureLookupCode(u.db.WithContext(ctx), u.prescriptionRepo, u.encoder, lookupcode.KindPrescription, prescription.PrescriptionID, prescription.ID, nil)
	if err != nil {
		u.log.Warnf("Failed to generate lookup code for prescription %s: %+v", prescriptionID, err)
	} else {
		prescription.LookupCode = code
	}

	prescription.Doctor = appointment.Doctor
	u.log.Infof("Prescription created: prescription_id=%s, appointment=%s", prescriptionID, bookingID)
	return converter.PrescriptionToResponse(prescription, u.encoder), nil
}

func (u *prescriptionUsecase) insertPrescription(ctx context.Context, prescription *entity.Prescription, doctorName string) ([]entity.Notification, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.prescriptionRepo.Create(tx, prescription); err != nil {
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, prescription.DoctorID, entity.AuditActionPrescriptionCreate,
		entity.AuditEntityPrescription, prescription.PrescriptionID, map[string]interface{}{
			"patient_id":  prescription.PatientID.String(),
			"medications": prescription.Medications,
			"issue_date":  prescription.IssueDate.Format("2006-01-02"),
		}); err != nil {
		return nil, err
	}

	notifications, err := u.notificationService.Persist(ctx, tx, []entity.NotificationIntent{prescription.IssuedIntent(doctorName)})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (u *prescriptionUsecase) GetMyPrescriptions(ctx context.Context) (*dto.PrescriptionListResponse, error) {
	userID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	prescriptions, err := u.prescriptionRepo.ListByPatient(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find prescriptions for patient %s: %+v", userID, err)
		return nil, err
	}

	return &dto.PrescriptionListResponse{
		Prescriptions: converter.PrescriptionsToResponses(prescriptions, u.encoder),
		Total:         len(prescriptions),
	}, nil
}

func (u *prescriptionUsecase) RegenerateLookupCode(ctx context.Context, prescriptionID string) (*dto.PrescriptionResponse, error) {
	userID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if !identifier.Valid(identifier.PrefixPrescription, prescriptionID) {
		return nil, ErrPrescriptionNotFound
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	prescription, err := u.prescriptionRepo.FindByPrescriptionID(tx, prescriptionID)
	if err != nil {
		u.log.Warnf("Failed to find prescription %s: %+v", prescriptionID, err)
		return nil, err
	}
	if prescription == nil {
		return nil, ErrPrescriptionNotFound
	}
	if prescription.DoctorID == nil || *prescription.DoctorID != userID {
		return nil, ErrNotIssuingDoctor
	}

	code, err := u.encoder.Encode(lookupcode.KindPrescription, prescription.PrescriptionID)
	if err != nil {
		return nil, err
	}

	if err := u.prescriptionRepo.ReplaceLookupCode(tx, prescription.ID, code); err != nil {
		u.log.Warnf("Failed to replace lookup code for prescription %s: %+v", prescriptionID, err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, &userID, entity.AuditActionLookupCodeRegenerate,
		entity.AuditEntityPrescription, prescriptionID, prescription.HasLookupCode(), true); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	prescription.LookupCode = code
	u.log.Infof("Lookup code regenerated for prescription %s", prescriptionID)
	return converter.PrescriptionToResponse(prescription, u.encoder), nil
}
