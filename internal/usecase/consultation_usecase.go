package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"telemedicine-core/internal/converter"
	"telemedicine-core/internal/delivery/dto"
	"telemedicine-core/internal/domain/entity"
	"telemedicine-core/internal/domain/repository"
	repoImpl "telemedicine-core/internal/repository"
	"telemedicine-core/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const defaultOpenMaxAttempts = 3

type ConsultationUsecase interface {
	OpenConsultation(ctx context.Context, bookingID string) (*dto.ConsultationResponse, error)
	GetConsultation(ctx context.Context, bookingID string) (*dto.ConsultationResponse, error)
	CloseConsultation(ctx context.Context, bookingID string) (*dto.CloseConsultationResponse, error)
	UpdateConsultation(ctx context.Context, bookingID string, req *dto.UpdateConsultationRequest) (*dto.ConsultationResponse, error)
	SendMessage(ctx context.Context, bookingID string, req *dto.SendChatMessageRequest) (*dto.ChatMessageResponse, error)
	GetMessages(ctx context.Context, bookingID string) (*dto.ChatMessageListResponse, error)
	MarkMessagesRead(ctx context.Context, bookingID string) (*dto.MarkReadResponse, error)
}

type consultationUsecase struct {
	db                  *gorm.DB
	log                 *logrus.Logger
	appointmentRepo     repository.AppointmentRepository
	consultationRepo    repository.ConsultationRepository
	chatMessageRepo     repository.ChatMessageRepository
	auditService        service.AuditService
	notificationService service.NotificationService
	writer              *lifecycleWriter
	openMaxAttempts     int
}

func NewConsultationUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	consultationRepo repository.ConsultationRepository,
	chatMessageRepo repository.ChatMessageRepository,
	auditService service.AuditService,
	notificationService service.NotificationService,
	openMaxAttempts int,
) ConsultationUsecase {
	if openMaxAttempts <= 0 {
		openMaxAttempts = defaultOpenMaxAttempts
	}
	return &consultationUsecase{
		db:                  db,
		log:                 log,
		appointmentRepo:     appointmentRepo,
		consultationRepo:    consultationRepo,
		chatMessageRepo:     chatMessageRepo,
		auditService:        auditService,
		notificationService: notificationService,
		writer: &lifecycleWriter{
			appointmentRepo:     appointmentRepo,
			consultationRepo:    consultationRepo,
			auditService:        auditService,
			notificationService: notificationService,
		},
		openMaxAttempts: openMaxAttempts,
	}
}

// OpenConsultation returns the appointment's session, creating it on first
// entry into the room.
//
// The unique index on consultations.appointment_id decides concurrent first
// opens: the loser's insert fails, its transaction rolls back, and the retry
// finds the winner's session.
func (u *consultationUsecase) OpenConsultation(ctx context.Context, bookingID string) (*dto.ConsultationResponse, error) {
	userID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < u.openMaxAttempts; attempt++ {
		consultation, appointment, notifications, err := u.openOnce(ctx, bookingID, userID)
		if err == nil {
			u.notificationService.Published(ctx, notifications)
			return converter.ConsultationToResponse(consultation, appointment), nil
		}
		if !repoImpl.IsDuplicateKeyError(err) && !errors.Is(err, ErrConcurrentModification) {
			return nil, err
		}
		u.log.Debugf("Consultation open for %s lost a race (attempt %d): %v", bookingID, attempt+1, err)
		lastErr = err
	}

	u.log.Warnf("Failed to open consultation for %s after %d attempts: %+v", bookingID, u.openMaxAttempts, lastErr)
	return nil, ErrConcurrentModification
}

func (u *consultationUsecase) openOnce(ctx context.Context, bookingID string, userID uuid.UUID) (*entity.Consultation, *entity.Appointment, []entity.Notification, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := findAppointmentForParticipant(tx, u.log, u.appointmentRepo, bookingID, userID)
	if err != nil {
		return nil, nil, nil, err
	}

	existing, err := u.consultationRepo.FindByAppointmentID(tx, appointment.ID)
	if err != nil {
		u.log.Warnf("Failed to find consultation for %s: %+v", bookingID, err)
		return nil, nil, nil, err
	}
	if existing != nil {
		return existing, appointment, nil, nil
	}

	result, err := appointment.EnterInProgressOnFirstOpen(userID)
	if err != nil {
		return nil, nil, nil, err
	}

	consultation := &entity.Consultation{
		AppointmentID: appointment.ID,
		StartedAt:     time.Now().UTC(),
	}
	if err := u.consultationRepo.Create(tx, consultation); err != nil {
		return nil, nil, nil, err
	}

	notifications, err := u.writer.commit(ctx, tx, appointment, result)
	if err != nil {
		return nil, nil, nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, &userID, entity.AuditActionConsultationOpen,
		entity.AuditEntityAppointment, bookingID, map[string]interface{}{
			"consultation_id": consultation.ID.String(),
			"started_at":      consultation.StartedAt.Format(time.RFC3339),
		}); err != nil {
		return nil, nil, nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, nil, nil, err
	}

	u.log.Infof("Consultation opened: booking_id=%s, consultation=%s", bookingID, consultation.ID)
	return consultation, appointment, notifications, nil
}

func (u *consultationUsecase) GetConsultation(ctx context.Context, bookingID string) (*dto.ConsultationResponse, error) {
	userID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	appointment, consultation, err := u.findSession(u.db.WithContext(ctx), bookingID, userID)
	if err != nil {
		return nil, err
	}

	return converter.ConsultationToResponse(consultation, appointment), nil
}

// CloseConsultation completes the appointment and ends its session if one is open.
// Closing from pending or confirmed is honored; closing twice is a no-op.
func (u *consultationUsecase) CloseConsultation(ctx context.Context, bookingID string) (*dto.CloseConsultationResponse, error) {
	userID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := findAppointmentForParticipant(tx, u.log, u.appointmentRepo, bookingID, userID)
	if err != nil {
		return nil, err
	}

	result, err := appointment.Close(userID)
	if err != nil {
		return nil, err
	}

	notifications, err := u.writer.commit(ctx, tx, appointment, result)
	if err != nil {
		u.log.Warnf("Failed to close appointment %s: %+v", bookingID, err)
		return nil, err
	}

	consultation, err := u.consultationRepo.FindByAppointmentID(tx, appointment.ID)
	if err != nil {
		u.log.Warnf("Failed to find consultation for %s: %+v", bookingID, err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.notificationService.Published(ctx, notifications)

	if result.Changed {
		u.log.Infof("Consultation closed: booking_id=%s, from=%s, session=%t", bookingID, result.From, consultation != nil)
	}

	return &dto.CloseConsultationResponse{
		BookingID:         appointment.BookingID,
		AppointmentStatus: string(appointment.Status),
		Consultation:      converter.ConsultationToResponse(consultation, appointment),
	}, nil
}

// UpdateConsultation edits the clinical notes. Only the assigned doctor may
// edit; once the session has ended only the free-form notes remain editable.
func (u *consultationUsecase) UpdateConsultation(ctx context.Context, bookingID string, req *dto.UpdateConsultationRequest) (*dto.ConsultationResponse, error) {
	userID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	notes := repository.ConsultationNotes{
		Diagnosis:         req.Diagnosis,
		TreatmentPlan:     req.TreatmentPlan,
		ConsultationNotes: req.ConsultationNotes,
	}
	if req.FollowUpDate != nil {
		followUp, err := time.Parse("2006-01-02", *req.FollowUpDate)
		if err != nil {
			return nil, ErrInvalidDate
		}
		notes.FollowUpDate = &followUp
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, consultation, err := u.findSession(tx, bookingID, userID)
	if err != nil {
		return nil, err
	}
	if party, _ := appointment.PartyOf(userID); party != entity.PartyDoctor {
		return nil, entity.ErrPartyNotPermitted
	}
	if consultation.IsEnded() && (notes.Diagnosis != nil || notes.TreatmentPlan != nil || notes.FollowUpDate != nil) {
		return nil, ErrConsultationEnded
	}

	if err := u.consultationRepo.UpdateNotes(tx, consultation.ID, notes); err != nil {
		u.log.Warnf("Failed to update consultation %s: %+v", consultation.ID, err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, &userID, entity.AuditActionConsultationUpdate,
		entity.AuditEntityAppointment, bookingID, consultationSnapshot(consultation), req); err != nil {
		return nil, err
	}

	updated, err := u.consultationRepo.FindByID(tx, consultation.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.ConsultationToResponse(updated, appointment), nil
}

// SendMessage appends to the transcript. The sender's role comes from their
// assignment on the appointment.
func (u *consultationUsecase) SendMessage(ctx context.Context, bookingID string, req *dto.SendChatMessageRequest) (*dto.ChatMessageResponse, error) {
	userID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	body := strings.TrimSpace(req.Message)
	if body == "" {
		return nil, ErrEmptyMessage
	}

	appointment, consultation, err := u.findSession(u.db.WithContext(ctx), bookingID, userID)
	if err != nil {
		return nil, err
	}
	if consultation.IsEnded() {
		return nil, ErrConsultationEnded
	}

	party, _ := appointment.PartyOf(userID)
	message := &entity.ChatMessage{
		ConsultationID: consultation.ID,
		SenderID:       userID,
		IsFromDoctor:   party == entity.PartyDoctor,
		Message:        body,
		SentAt:         time.Now().UTC(),
	}

	if err := u.chatMessageRepo.Create(u.db.WithContext(ctx), message); err != nil {
		u.log.Warnf("Failed to append chat message to consultation %s: %+v", consultation.ID, err)
		return nil, err
	}

	response := converter.ChatMessageToResponse(message)
	return &response, nil
}

func (u *consultationUsecase) GetMessages(ctx context.Context, bookingID string) (*dto.ChatMessageListResponse, error) {
	userID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	_, consultation, err := u.findSession(u.db.WithContext(ctx), bookingID, userID)
	if err != nil {
		return nil, err
	}

	messages, err := u.chatMessageRepo.ListByConsultation(u.db.WithContext(ctx), consultation.ID)
	if err != nil {
		u.log.Warnf("Failed to list chat messages of consultation %s: %+v", consultation.ID, err)
		return nil, err
	}

	return &dto.ChatMessageListResponse{
		Messages: converter.ChatMessagesToResponses(messages),
		Total:    len(messages),
	}, nil
}

// MarkMessagesRead flags every message from the other party as read
func (u *consultationUsecase) MarkMessagesRead(ctx context.Context, bookingID string) (*dto.MarkReadResponse, error) {
	userID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	_, consultation, err := u.findSession(u.db.WithContext(ctx), bookingID, userID)
	if err != nil {
		return nil, err
	}

	updated, err := u.chatMessageRepo.MarkReadFromOthers(u.db.WithContext(ctx), consultation.ID, userID)
	if err != nil {
		u.log.Warnf("Failed to mark messages read in consultation %s: %+v", consultation.ID, err)
		return nil, err
	}

	return &dto.MarkReadResponse{Updated: updated}, nil
}

func (u *consultationUsecase) findSession(db *gorm.DB, bookingID string, userID uuid.UUID) (*entity.Appointment, *entity.Consultation, error) {
	appointment, err := findAppointmentForParticipant(db, u.log, u.appointmentRepo, bookingID, userID)
	if err != nil {
		return nil, nil, err
	}

	consultation, err := u.consultationRepo.FindByAppointmentID(db, appointment.ID)
	if err != nil {
		u.log.Warnf("Failed to find consultation for %s: %+v", bookingID, err)
		return nil, nil, err
	}
	if consultation == nil {
		return nil, nil, ErrConsultationNotFound
	}

	return appointment, consultation, nil
}

func consultationSnapshot(c *entity.Consultation) map[string]interface{} {
	snapshot := map[string]interface{}{
		"diagnosis":          c.Diagnosis,
		"treatment_plan":     c.TreatmentPlan,
		"consultation_notes": c.ConsultationNotes,
	}
	if c.FollowUpDate != nil {
		snapshot["follow_up_date"] = c.FollowUpDate.Format("2006-01-02")
	}
	return snapshot
}
