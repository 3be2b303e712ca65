package usecase

import (
	"context"
	"time"

	"telemedicine-core/internal/domain/entity"
	"telemedicine-core/internal/domain/repository"
	"telemedicine-core/internal/service"

	"gorm.io/gorm"
)

// lifecycleWriter persists what the state machine planned. It is shared by
// every use case that moves an appointment so the write path stays single.
type lifecycleWriter struct {
	appointmentRepo     repository.AppointmentRepository
	consultationRepo    repository.ConsultationRepository
	auditService        service.AuditService
	notificationService service.NotificationService
}

// commit applies result inside tx: a conditional status write, the audit
// row, the session end stamp on completion, and the notifications. A status
// that changed since appointment was read yields ErrConcurrentModification.
func (w *lifecycleWriter) commit(ctx context.Context, tx *gorm.DB, appointment *entity.Appointment, result *entity.TransitionResult) ([]entity.Notification, error) {
	if !result.Changed {
		return nil, nil
	}

	affected, err := w.appointmentRepo.UpdateStatus(tx, appointment.ID, result.From, result.To)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrConcurrentModification
	}
	appointment.Apply(result)

	if err := w.auditService.LogTransition(ctx, tx, appointment, result); err != nil {
		return nil, err
	}

	if result.To == entity.AppointmentStatusCompleted {
		if err := w.endSession(ctx, tx, appointment, result); err != nil {
			return nil, err
		}
	}

	return w.notificationService.Persist(ctx, tx, result.Notifications)
}

// endSession stamps the end time of an open session. A missing session is
// tolerated: an appointment can complete without ever opening a room.
func (w *lifecycleWriter) endSession(ctx context.Context, tx *gorm.DB, appointment *entity.Appointment, result *entity.TransitionResult) error {
	consultation, err := w.consultationRepo.FindByAppointmentID(tx, appointment.ID)
	if err != nil {
		return err
	}
	if consultation == nil || consultation.IsEnded() {
		return nil
	}

	endedAt := time.Now().UTC()
	affected, err := w.consultationRepo.MarkEnded(tx, consultation.ID, endedAt)
	if err != nil {
		return err
	}
	if affected == 0 {
		return nil
	}

	actorID := result.ActorID
	return w.auditService.LogUpdate(ctx, tx, &actorID, entity.AuditActionConsultationClose,
		entity.AuditEntityAppointment, appointment.BookingID, nil, map[string]interface{}{
			"consultation_id": consultation.ID.String(),
			"ended_at":        endedAt.Format(time.RFC3339),
		})
}
