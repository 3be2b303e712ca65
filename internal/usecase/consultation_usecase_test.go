package usecase

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"telemedicine-core/internal/delivery/dto"
	"telemedicine-core/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsultationLifecycle_BookToComplete(t *testing.T) {
	f := newFixture(t)
	patientCtx := asUser(f.patient)
	doctorCtx := asUser(f.doctor)

	booked, err := f.appointments.CreateAppointment(patientCtx, &dto.CreateAppointmentRequest{
		DoctorID:        f.doctor.ID.String(),
		AppointmentType: "video",
		ScheduledDate:   "2026-11-02",
		ScheduledTime:   "09:30",
	})
	require.NoError(t, err)
	require.Equal(t, "pending", booked.Status)
	bookingID := booked.BookingID

	unread, err := f.notifications.GetUnreadCount(doctorCtx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread.Unread)

	confirmed, err := f.appointments.UpdateStatus(doctorCtx, bookingID, &dto.UpdateAppointmentStatusRequest{Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", confirmed.Status)

	inbox, err := f.notifications.GetMyNotifications(patientCtx, true)
	require.NoError(t, err)
	require.Equal(t, 1, inbox.Total)
	assert.Equal(t, "Appointment Update", inbox.Notifications[0].Title)
	assert.Contains(t, inbox.Notifications[0].Message, bookingID)
	assert.Contains(t, inbox.Notifications[0].Message, "confirmed")

	unread, err = f.notifications.GetUnreadCount(patientCtx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread.Unread)

	session, err := f.consultations.OpenConsultation(doctorCtx, bookingID)
	require.NoError(t, err)
	assert.Equal(t, "in_progress", session.AppointmentStatus)
	assert.False(t, session.IsEnded)
	assert.Equal(t, entity.AppointmentStatusInProgress, f.appointmentStatus(t, bookingID))

	msg, err := f.consultations.SendMessage(patientCtx, bookingID, &dto.SendChatMessageRequest{Message: "feeling better"})
	require.NoError(t, err)
	assert.False(t, msg.IsFromDoctor)

	transcript, err := f.consultations.GetMessages(doctorCtx, bookingID)
	require.NoError(t, err)
	require.Equal(t, 1, transcript.Total)
	assert.Equal(t, "feeling better", transcript.Messages[0].Message)
	assert.False(t, transcript.Messages[0].IsFromDoctor)

	closed, err := f.consultations.CloseConsultation(doctorCtx, bookingID)
	require.NoError(t, err)
	assert.Equal(t, "completed", closed.AppointmentStatus)
	require.NotNil(t, closed.Consultation)
	assert.True(t, closed.Consultation.IsEnded)
	assert.NotNil(t, closed.Consultation.EndedAt)

	// confirmed, in_progress and completed updates all went to the patient
	unread, err = f.notifications.GetUnreadCount(patientCtx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), unread.Unread)
	assert.Equal(t, int64(3), f.notificationCount(t, f.patient.ID))

	history, err := f.appointments.GetHistory(patientCtx, bookingID)
	require.NoError(t, err)
	actions := make([]string, len(history.Logs))
	for i, log := range history.Logs {
		actions[i] = log.Action
	}
	assert.Equal(t, []string{
		entity.AuditActionAppointmentCreate,
		entity.AuditActionAppointmentTransition,
		entity.AuditActionAppointmentTransition,
		entity.AuditActionConsultationOpen,
		entity.AuditActionAppointmentTransition,
		entity.AuditActionConsultationClose,
	}, actions)
}

func TestConsultationUsecase_ConcurrentOpenCreatesOneSession(t *testing.T) {
	f := newFixture(t)
	f.seedAppointment(t, "APTRACE0001", entity.AppointmentStatusConfirmed)

	const callers = 8
	ids := make([]uuid.UUID, callers)
	errs := make([]error, callers)

	var wg conc.WaitGroup
	for i := 0; i < callers; i++ {
		i := i
		actor := f.doctor
		if i%2 == 1 {
			actor = f.patient
		}
		wg.Go(func() {
			resp, err := f.consultations.OpenConsultation(asUser(actor), "APTRACE0001")
			errs[i] = err
			if err == nil {
				ids[i] = resp.ID
			}
		})
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}

	var sessions int64
	require.NoError(t, f.db.Model(&entity.Consultation{}).Count(&sessions).Error)
	assert.Equal(t, int64(1), sessions)
	assert.Equal(t, entity.AppointmentStatusInProgress, f.appointmentStatus(t, "APTRACE0001"))

	// exactly one in_progress notification, to whichever party did not open first
	total := f.notificationCount(t, f.patient.ID) + f.notificationCount(t, f.doctor.ID)
	assert.Equal(t, int64(1), total)
}

func TestConsultationUsecase_OpenRequiresConfirmed(t *testing.T) {
	f := newFixture(t)
	f.seedAppointment(t, "APTOPEN0001", entity.AppointmentStatusPending)
	f.seedAppointment(t, "APTOPEN0002", entity.AppointmentStatusCancelled)

	_, err := f.consultations.OpenConsultation(asUser(f.doctor), "APTOPEN0001")
	assert.ErrorIs(t, err, entity.ErrInvalidTransition)

	_, err = f.consultations.OpenConsultation(asUser(f.patient), "APTOPEN0002")
	assert.ErrorIs(t, err, entity.ErrInvalidTransition)

	_, err = f.consultations.OpenConsultation(asUser(f.stranger), "APTOPEN0001")
	assert.ErrorIs(t, err, entity.ErrNotParticipant)

	var sessions int64
	require.NoError(t, f.db.Model(&entity.Consultation{}).Count(&sessions).Error)
	assert.Equal(t, int64(0), sessions)
}

func TestConsultationUsecase_CloseTwiceIsNoop(t *testing.T) {
	f := newFixture(t)
	f.seedAppointment(t, "APTCLOS0001", entity.AppointmentStatusConfirmed)

	_, err := f.consultations.OpenConsultation(asUser(f.patient), "APTCLOS0001")
	require.NoError(t, err)

	first, err := f.consultations.CloseConsultation(asUser(f.patient), "APTCLOS0001")
	require.NoError(t, err)
	require.NotNil(t, first.Consultation.EndedAt)
	notifiedAfterFirst := f.notificationCount(t, f.doctor.ID)

	second, err := f.consultations.CloseConsultation(asUser(f.doctor), "APTCLOS0001")
	require.NoError(t, err)
	assert.Equal(t, "completed", second.AppointmentStatus)
	require.NotNil(t, second.Consultation.EndedAt)
	assert.True(t, first.Consultation.EndedAt.Equal(*second.Consultation.EndedAt))

	assert.Equal(t, notifiedAfterFirst, f.notificationCount(t, f.doctor.ID))
	assert.Equal(t, int64(2), notifiedAfterFirst)
	assert.Equal(t, int64(0), f.notificationCount(t, f.patient.ID))
}

func TestConsultationUsecase_CloseWithoutSession(t *testing.T) {
	f := newFixture(t)
	f.seedAppointment(t, "APTCLOS0002", entity.AppointmentStatusPending)
	f.seedAppointment(t, "APTCLOS0003", entity.AppointmentStatusCancelled)

	resp, err := f.consultations.CloseConsultation(asUser(f.doctor), "APTCLOS0002")
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.AppointmentStatus)
	assert.Nil(t, resp.Consultation)

	_, err = f.consultations.CloseConsultation(asUser(f.doctor), "APTCLOS0003")
	assert.ErrorIs(t, err, entity.ErrInvalidTransition)
	assert.Equal(t, entity.AppointmentStatusCancelled, f.appointmentStatus(t, "APTCLOS0003"))
}

func TestConsultationUsecase_UpdateConsultation(t *testing.T) {
	f := newFixture(t)
	f.seedAppointment(t, "APTEDIT0001", entity.AppointmentStatusConfirmed)
	doctorCtx := asUser(f.doctor)

	_, err := f.consultations.UpdateConsultation(doctorCtx, "APTEDIT0001", &dto.UpdateConsultationRequest{})
	assert.ErrorIs(t, err, ErrConsultationNotFound)

	_, err = f.consultations.OpenConsultation(doctorCtx, "APTEDIT0001")
	require.NoError(t, err)

	diagnosis := "seasonal allergy"
	followUp := "2026-11-16"
	resp, err := f.consultations.UpdateConsultation(doctorCtx, "APTEDIT0001", &dto.UpdateConsultationRequest{
		Diagnosis:    &diagnosis,
		FollowUpDate: &followUp,
	})
	require.NoError(t, err)
	assert.Equal(t, diagnosis, resp.Diagnosis)
	require.NotNil(t, resp.FollowUpDate)
	assert.Equal(t, followUp, *resp.FollowUpDate)

	_, err = f.consultations.UpdateConsultation(asUser(f.patient), "APTEDIT0001", &dto.UpdateConsultationRequest{Diagnosis: &diagnosis})
	assert.ErrorIs(t, err, entity.ErrPartyNotPermitted)

	_, err = f.consultations.CloseConsultation(doctorCtx, "APTEDIT0001")
	require.NoError(t, err)

	_, err = f.consultations.UpdateConsultation(doctorCtx, "APTEDIT0001", &dto.UpdateConsultationRequest{Diagnosis: &diagnosis})
	assert.ErrorIs(t, err, ErrConsultationEnded)

	notes := "patient tolerated treatment"
	resp, err = f.consultations.UpdateConsultation(doctorCtx, "APTEDIT0001", &dto.UpdateConsultationRequest{ConsultationNotes: &notes})
	require.NoError(t, err)
	assert.Equal(t, notes, resp.ConsultationNotes)
	assert.Equal(t, diagnosis, resp.Diagnosis)
}

func TestConsultationUsecase_SendMessageRules(t *testing.T) {
	f := newFixture(t)
	f.seedAppointment(t, "APTCHAT0001", entity.AppointmentStatusConfirmed)

	_, err := f.consultations.SendMessage(asUser(f.patient), "APTCHAT0001", &dto.SendChatMessageRequest{Message: "hello"})
	assert.ErrorIs(t, err, ErrConsultationNotFound)

	_, err = f.consultations.OpenConsultation(asUser(f.patient), "APTCHAT0001")
	require.NoError(t, err)

	_, err = f.consultations.SendMessage(asUser(f.patient), "APTCHAT0001", &dto.SendChatMessageRequest{Message: "   "})
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = f.consultations.SendMessage(asUser(f.stranger), "APTCHAT0001", &dto.SendChatMessageRequest{Message: "hi"})
	assert.ErrorIs(t, err, entity.ErrNotParticipant)

	msg, err := f.consultations.SendMessage(asUser(f.doctor), "APTCHAT0001", &dto.SendChatMessageRequest{Message: "  how are you?  "})
	require.NoError(t, err)
	assert.True(t, msg.IsFromDoctor)
	assert.Equal(t, "how are you?", msg.Message)

	read, err := f.consultations.MarkMessagesRead(asUser(f.patient), "APTCHAT0001")
	require.NoError(t, err)
	assert.Equal(t, int64(1), read.Updated)

	read, err = f.consultations.MarkMessagesRead(asUser(f.doctor), "APTCHAT0001")
	require.NoError(t, err)
	assert.Equal(t, int64(0), read.Updated)

	_, err = f.consultations.CloseConsultation(asUser(f.doctor), "APTCHAT0001")
	require.NoError(t, err)

	_, err = f.consultations.SendMessage(asUser(f.patient), "APTCHAT0001", &dto.SendChatMessageRequest{Message: "one more thing"})
	assert.ErrorIs(t, err, ErrConsultationEnded)
}

func TestConsultationUsecase_ConcurrentWritersKeepPerSenderOrder(t *testing.T) {
	f := newFixture(t)
	f.seedAppointment(t, "APTCHAT0002", entity.AppointmentStatusConfirmed)
	_, err := f.consultations.OpenConsultation(asUser(f.doctor), "APTCHAT0002")
	require.NoError(t, err)

	const perSender = 10
	var mu sync.Mutex
	var sendErrs []error

	var wg conc.WaitGroup
	for _, sender := range []*entity.User{f.doctor, f.patient} {
		sender := sender
		wg.Go(func() {
			ctx := asUser(sender)
			for i := 0; i < perSender; i++ {
				body := fmt.Sprintf("%s-%02d", sender.ID, i)
				if _, err := f.consultations.SendMessage(ctx, "APTCHAT0002", &dto.SendChatMessageRequest{Message: body}); err != nil {
					mu.Lock()
					sendErrs = append(sendErrs, err)
					mu.Unlock()
				}
			}
		})
	}
	wg.Wait()
	require.Empty(t, sendErrs)

	transcript, err := f.consultations.GetMessages(asUser(f.patient), "APTCHAT0002")
	require.NoError(t, err)
	require.Equal(t, 2*perSender, transcript.Total)

	next := map[uuid.UUID]int{}
	for _, m := range transcript.Messages {
		want := fmt.Sprintf("%s-%02d", m.SenderID, next[m.SenderID])
		assert.Equal(t, want, m.Message)
		assert.Equal(t, m.SenderID == f.doctor.ID, m.IsFromDoctor)
		assert.True(t, strings.HasPrefix(m.Message, m.SenderID.String()))
		next[m.SenderID]++
	}
}
