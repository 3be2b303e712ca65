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

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AppointmentUsecase interface {
	CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	GetAppointment(ctx context.Context, bookingID string) (*dto.AppointmentResponse, error)
	GetMyAppointments(ctx context.Context, status string) (*dto.AppointmentListResponse, error)
	UpdateStatus(ctx context.Context, bookingID string, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error)
	UpdateNotes(ctx context.Context, bookingID string, req *dto.UpdateAppointmentNotesRequest) (*dto.AppointmentResponse, error)
	SendReminder(ctx context.Context, bookingID string, req *dto.SendReminderRequest) error
	GetHistory(ctx context.Context, bookingID string) (*dto.AuditLogListResponse, error)
}

type appointmentUsecase struct {
	db                    *gorm.DB
	log                   *logrus.Logger
	appointmentRepo       repository.AppointmentRepository
	userRepo              repository.UserRepository
	auditService          service.AuditService
	notificationService   service.NotificationService
	writer                *lifecycleWriter
	identifierMaxAttempts int
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	consultationRepo repository.ConsultationRepository,
	userRepo repository.UserRepository,
	auditService service.AuditService,
	notificationService service.NotificationService,
	identifierMaxAttempts int,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:                  db,
		log:                 log,
		appointmentRepo:     appointmentRepo,
		userRepo:            userRepo,
		auditService:        auditService,
		notificationService: notificationService,
		writer: &lifecycleWriter{
			appointmentRepo:     appointmentRepo,
			consultationRepo:    consultationRepo,
			auditService:        auditService,
			notificationService: notificationService,
		},
		identifierMaxAttempts: identifierMaxAttempts,
	}
}

// CreateAppointment books a pending appointment for the logged-in patient.
//
// Flow:
// 1. Validate doctor and schedule input
// 2. Generate APT booking id, insert, audit and notify the doctor in one transaction
// 3. Retry with a fresh booking id on unique violation
func (u *appointmentUsecase) CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	userID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, ErrDoctorNotFound
	}
	if doctorID == userID {
		return nil, ErrSelfBooking
	}

	scheduledDate, err := time.Parse("2006-01-02", req.ScheduledDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if _, err := time.Parse("15:04", req.ScheduledTime); err != nil {
		return nil, ErrInvalidDate
	}

	doctor, err := u.userRepo.FindActiveDoctor(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	patient, err := u.userRepo.FindByID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", userID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	var notifications []entity.Notification
	appointment := &entity.Appointment{
		PatientID:       userID,
		DoctorID:        doctorID,
		AppointmentType: entity.AppointmentType(req.AppointmentType),
		ScheduledDate:   scheduledDate,
		ScheduledTime:   req.ScheduledTime,
		Status:          entity.AppointmentStatusPending,
		Symptoms:        req.Symptoms,
	}

	bookingID, err := identifier.Assign(identifier.PrefixAppointment, u.identifierMaxAttempts, func(id string) error {
		appointment.BookingID = id
		inserted, insertErr := u.insertAppointment(ctx, appointment, patient.FullName)
		notifications = inserted
		return insertErr
	}, repoImpl.IsDuplicateKeyError)
	if err != nil {
		u.log.Warnf("Failed to create appointment for patient %s: %+v", userID, err)
		return nil, err
	}

	u.notificationService.Published(ctx, notifications)

	appointment.Patient = patient
	appointment.Doctor = doctor

	u.log.Infof("Appointment created: booking_id=%s, patient=%s, doctor=%s", bookingID, userID, doctorID)
	return converter.AppointmentToResponse(appointment, userID), nil
}

func (u *appointmentUsecase) insertAppointment(ctx context.Context, appointment *entity.Appointment, patientName string) ([]entity.Notification, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, &appointment.PatientID, entity.AuditActionAppointmentCreate,
		entity.AuditEntityAppointment, appointment.BookingID, map[string]interface{}{
			"status":           string(appointment.Status),
			"doctor_id":        appointment.DoctorID.String(),
			"appointment_type": string(appointment.AppointmentType),
			"scheduled_date":   appointment.ScheduledDate.Format("2006-01-02"),
			"scheduled_time":   appointment.ScheduledTime,
		}); err != nil {
		return nil, err
	}

	notifications, err := u.notificationService.Persist(ctx, tx, []entity.NotificationIntent{appointment.BookingRequestIntent(patientName)})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, bookingID string) (*dto.AppointmentResponse, error) {
	userID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	appointment, err := u.findForParticipant(u.db.WithContext(ctx), bookingID, userID)
	if err != nil {
		return nil, err
	}

	return converter.AppointmentToResponse(appointment, userID), nil
}

// GetMyAppointments lists appointments where the logged-in user is doctor or patient
func (u *appointmentUsecase) GetMyAppointments(ctx context.Context, status string) (*dto.AppointmentListResponse, error) {
	userID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	filter := repository.AppointmentFilter{Status: entity.AppointmentStatus(status)}
	if status != "" && !filter.Status.IsKnown() {
		return nil, fmt.Errorf("%w: %q", entity.ErrUnknownStatus, status)
	}

	appointments, err := u.appointmentRepo.ListForUser(u.db.WithContext(ctx), userID, filter)
	if err != nil {
		u.log.Warnf("Failed to find appointments for user %s: %+v", userID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments, userID),
		Total:        len(appointments),
	}, nil
}

// UpdateStatus drives an explicit transition requested by the assigned doctor or patient.
// The status write is conditional on the status that was read, so of two
// concurrent conflicting requests only one commits.
func (u *appointmentUsecase) UpdateStatus(ctx context.Context, bookingID string, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	userID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByBookingID(tx, bookingID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", bookingID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	result, err := appointment.RequestTransition(userID, entity.AppointmentStatus(req.Status))
	if err != nil {
		return nil, err
	}

	notifications, err := u.writer.commit(ctx, tx, appointment, result)
	if err != nil {
		u.log.Warnf("Failed to transition appointment %s to %s: %+v", bookingID, req.Status, err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.notificationService.Published(ctx, notifications)

	u.log.Infof("Appointment %s moved %s -> %s by %s", bookingID, result.From, result.To, result.ActorParty)
	return converter.AppointmentToResponse(appointment, userID), nil
}

// UpdateNotes lets the assigned doctor edit the appointment's free-text notes
func (u *appointmentUsecase) UpdateNotes(ctx context.Context, bookingID string, req *dto.UpdateAppointmentNotesRequest) (*dto.AppointmentResponse, error) {
	userID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.findForParticipant(tx, bookingID, userID)
	if err != nil {
		return nil, err
	}
	if party, _ := appointment.PartyOf(userID); party != entity.PartyDoctor {
		return nil, entity.ErrPartyNotPermitted
	}

	oldNotes := appointment.Notes
	if err := u.appointmentRepo.UpdateNotes(tx, appointment.ID, req.Notes); err != nil {
		u.log.Warnf("Failed to update notes of appointment %s: %+v", bookingID, err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, &userID, entity.AuditActionAppointmentNotesUpdate,
		entity.AuditEntityAppointment, bookingID, oldNotes, req.Notes); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	appointment.Notes = req.Notes
	return converter.AppointmentToResponse(appointment, userID), nil
}

// SendReminder stores a reminder notification for the patient
func (u *appointmentUsecase) SendReminder(ctx context.Context, bookingID string, req *dto.SendReminderRequest) error {
	userID, err := actorFromContext(ctx)
	if err != nil {
		return err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.findForParticipant(tx, bookingID, userID)
	if err != nil {
		return err
	}

	intent, err := appointment.ReminderIntent(userID, req.Message)
	if err != nil {
		return err
	}

	notifications, err := u.notificationService.Persist(ctx, tx, []entity.NotificationIntent{intent})
	if err != nil {
		return err
	}

	if err := u.auditService.LogCreate(ctx, tx, &userID, entity.AuditActionAppointmentReminder,
		entity.AuditEntityAppointment, bookingID, intent.Message); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.notificationService.Published(ctx, notifications)
	u.log.Infof("Reminder sent for appointment %s", bookingID)
	return nil
}

// GetHistory returns the appointment's audit trail in chronological order
func (u *appointmentUsecase) GetHistory(ctx context.Context, bookingID string) (*dto.AuditLogListResponse, error) {
	userID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := u.findForParticipant(u.db.WithContext(ctx), bookingID, userID); err != nil {
		return nil, err
	}

	logs, err := u.auditService.History(ctx, u.db, entity.AuditEntityAppointment, bookingID)
	if err != nil {
		return nil, err
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}

func (u *appointmentUsecase) findForParticipant(db *gorm.DB, bookingID string, userID uuid.UUID) (*entity.Appointment, error) {
	return findAppointmentForParticipant(db, u.log, u.appointmentRepo, bookingID, userID)
}

// findAppointmentForParticipant loads an appointment and checks userID is
// its assigned doctor or patient.
func findAppointmentForParticipant(db *gorm.DB, log *logrus.Logger, appointmentRepo repository.AppointmentRepository, bookingID string, userID uuid.UUID) (*entity.Appointment, error) {
	if !identifier.Valid(identifier.PrefixAppointment, bookingID) {
		return nil, ErrAppointmentNotFound
	}

	appointment, err := appointmentRepo.FindByBookingID(db, bookingID)
	if err != nil {
		log.Warnf("Failed to find appointment %s: %+v", bookingID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !appointment.IsParticipant(userID) {
		return nil, entity.ErrNotParticipant
	}
	return appointment, nil
}
