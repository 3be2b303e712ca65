package usecase

import (
	"context"
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

type MedicalRecordUsecase interface {
	CreateRecord(ctx context.Context, bookingID string, req *dto.CreateMedicalRecordRequest) (*dto.MedicalRecordResponse, error)
	GetMyRecords(ctx context.Context) (*dto.MedicalRecordListResponse, error)
	RegenerateLookupCode(ctx context.Context, recordID string) (*dto.MedicalRecordResponse, error)
}

type medicalRecordUsecase struct {
	db                    *gorm.DB
	log                   *logrus.Logger
	appointmentRepo       repository.AppointmentRepository
	recordRepo            repository.MedicalRecordRepository
	auditService          service.AuditService
	notificationService   service.NotificationService
	encoder               *lookupcode.Encoder
	identifierMaxAttempts int
}

func NewMedicalRecordUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	recordRepo repository.MedicalRecordRepository,
	auditService service.AuditService,
	notificationService service.NotificationService,
	encoder *lookupcode.Encoder,
	identifierMaxAttempts int,
) MedicalRecordUsecase {
	return &medicalRecordUsecase{
		db:                    db,
		log:                   log,
		appointmentRepo:       appointmentRepo,
		recordRepo:            recordRepo,
		auditService:          auditService,
		notificationService:   notificationService,
		encoder:               encoder,
		identifierMaxAttempts: identifierMaxAttempts,
	}
}

// CreateRecord issues a medical record for the appointment's patient.
//
// Flow:
// 1. Only the appointment's doctor may issue
// 2. Generate MR id, insert, audit and notify the patient in one transaction (retry on collision)
// 3. Generate and store the lookup code; failure here is logged, the code is built on first public request
func (u *medicalRecordUsecase) CreateRecord(ctx context.Context, bookingID string, req *dto.CreateMedicalRecordRequest) (*dto.MedicalRecordResponse, error) {
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

	visitDate := today()
	if req.VisitDate != "" {
		visitDate, err = time.Parse("2006-01-02", req.VisitDate)
		if err != nil {
			return nil, ErrInvalidDate
		}
	}

	doctorID := appointment.DoctorID
	appointmentID := appointment.ID
	record := &entity.MedicalRecord{
		PatientID:     appointment.PatientID,
		DoctorID:      &doctorID,
		AppointmentID: &appointmentID,
		Diagnosis:     req.Diagnosis,
		Treatment:     req.Treatment,
		VisitDate:     visitDate,
	}

	var notifications []entity.Notification
	recordID, err := identifier.Assign(identifier.PrefixMedicalRecord, u.identifierMaxAttempts, func(id string) error {
		record.RecordID = id
		inserted, insertErr := u.insertRecord(ctx, record, doctorName(appointment))
		notifications = inserted
		return insertErr
	}, repoImpl.IsDuplicateKeyError)
	if err != nil {
		u.log.Warnf("Failed to create medical record for appointment %s: %+v", bookingID, err)
		return nil, err
	}

	u.notificationService.Published(ctx, notifications)

	code, err := ensureLookupCode(u.db.WithContext(ctx), u.recordRepo, u.encoder, lookupcode.KindRecord, record.RecordID, record.ID, nil)
	if err != nil {
		u.log.Warnf("Failed to generate lookup code for record %s: %+v", recordID, err)
	} else {
		record.LookupCode = code
	}

	record.Doctor = appointment.Doctor
	u.log.Infof("Medical record created: record_id=%s, appointment=%s", recordID, bookingID)
	return converter.MedicalRecordToResponse(record, u.encoder), nil
}

func (u *medicalRecordUsecase) insertRecord(ctx context.Context, record *entity.MedicalRecord, doctorName string) ([]entity.Notification, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.recordRepo.Create(tx, record); err != nil {
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, record.DoctorID, entity.AuditActionRecordCreate,
		entity.AuditEntityMedicalRecord, record.RecordID, map[string]interface{}{
			"patient_id": record.PatientID.String(),
			"diagnosis":  record.Diagnosis,
			"visit_date": record.VisitDate.Format("2006-01-02"),
		}); err != nil {
		return nil, err
	}

	notifications, err := u.notificationService.Persist(ctx, tx, []entity.NotificationIntent{record.IssuedIntent(doctorName)})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// GetMyRecords returns the logged-in patient's records, most recent visit first
func (u *medicalRecordUsecase) GetMyRecords(ctx context.Context) (*dto.MedicalRecordListResponse, error) {
	userID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	records, err := u.recordRepo.ListByPatient(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find medical records for patient %s: %+v", userID, err)
		return nil, err
	}

	return &dto.MedicalRecordListResponse{
		Records: converter.MedicalRecordsToResponses(records, u.encoder),
		Total:   len(records),
	}, nil
}

// RegenerateLookupCode invalidates the stored image and encodes a fresh one
// against the current base URL. Only the issuing doctor may do this.
func (u *medicalRecordUsecase) RegenerateLookupCode(ctx context.Context, recordID string) (*dto.MedicalRecordResponse, error) {
	userID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if !identifier.Valid(identifier.PrefixMedicalRecord, recordID) {
		return nil, ErrRecordNotFound
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	record, err := u.recordRepo.FindByRecordID(tx, recordID)
	if err != nil {
		u.log.Warnf("Failed to find medical record %s: %+v", recordID, err)
		return nil, err
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}
	if record.DoctorID == nil || *record.DoctorID != userID {
		return nil, ErrNotIssuingDoctor
	}

	code, err := u.encoder.Encode(lookupcode.KindRecord, record.RecordID)
	if err != nil {
		return nil, err
	}

	if err := u.recordRepo.ReplaceLookupCode(tx, record.ID, code); err != nil {
		u.log.Warnf("Failed to replace lookup code for record %s: %+v", recordID, err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, &userID, entity.AuditActionLookupCodeRegenerate,
		entity.AuditEntityMedicalRecord, recordID, record.HasLookupCode(), true); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	record.LookupCode = code
	u.log.Infof("Lookup code regenerated for record %s", recordID)
	return converter.MedicalRecordToResponse(record, u.encoder), nil
}

func today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

func doctorName(appointment *entity.Appointment) string {
	if appointment.Doctor == nil || appointment.Doctor.FullName == "" {
		return "Your doctor"
	}
	return appointment.Doctor.FullName
}
