package usecase

import (
	"context"
	"errors"
	"testing"

	"telemedicine-core/internal/delivery/dto"
	"telemedicine-core/internal/domain/entity"
	"telemedicine-core/pkg/identifier"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentUsecase_CreateAppointment(t *testing.T) {
	f := newFixture(t)

	resp, err := f.appointments.CreateAppointment(asUser(f.patient), &dto.CreateAppointmentRequest{
		DoctorID:        f.doctor.ID.String(),
		AppointmentType: "video",
		ScheduledDate:   "2026-11-02",
		ScheduledTime:   "10:00",
		Symptoms:        "persistent cough",
	})
	require.NoError(t, err)

	assert.True(t, identifier.Valid(identifier.PrefixAppointment, resp.BookingID))
	assert.Equal(t, "pending", resp.Status)
	assert.Empty(t, resp.AllowedTransitions, "patient has no moves from pending")
	assert.Equal(t, int64(1), f.notificationCount(t, f.doctor.ID))
	assert.Equal(t, int64(0), f.notificationCount(t, f.patient.ID))

	history, err := f.appointments.GetHistory(asUser(f.doctor), resp.BookingID)
	require.NoError(t, err)
	require.Len(t, history.Logs, 1)
	assert.Equal(t, entity.AuditActionAppointmentCreate, history.Logs[0].Action)
}

func TestAppointmentUsecase_CreateAppointmentRejects(t *testing.T) {
	f := newFixture(t)
	ctx := asUser(f.patient)

	tests := []struct {
		name string
		req  *dto.CreateAppointmentRequest
		want error
	}{
		{"self booking", &dto.CreateAppointmentRequest{DoctorID: f.patient.ID.String(), ScheduledDate: "2026-11-02", ScheduledTime: "10:00"}, ErrSelfBooking},
		{"patient is not a doctor", &dto.CreateAppointmentRequest{DoctorID: f.stranger.ID.String(), ScheduledDate: "2026-11-02", ScheduledTime: "10:00"}, ErrDoctorNotFound},
		{"malformed doctor id", &dto.CreateAppointmentRequest{DoctorID: "nope", ScheduledDate: "2026-11-02", ScheduledTime: "10:00"}, ErrDoctorNotFound},
		{"bad date", &dto.CreateAppointmentRequest{DoctorID: f.doctor.ID.String(), ScheduledDate: "02/11/2026", ScheduledTime: "10:00"}, ErrInvalidDate},
		{"bad time", &dto.CreateAppointmentRequest{DoctorID: f.doctor.ID.String(), ScheduledDate: "2026-11-02", ScheduledTime: "25:00"}, ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.appointments.CreateAppointment(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.Equal(t, int64(0), f.notificationCount(t, f.doctor.ID))
}

func TestAppointmentUsecase_UpdateStatusNotifiesOtherParty(t *testing.T) {
	f := newFixture(t)
	f.seedAppointment(t, "APTCONF0001", entity.AppointmentStatusPending)

	resp, err := f.appointments.UpdateStatus(asUser(f.doctor), "APTCONF0001", &dto.UpdateAppointmentStatusRequest{Status: "confirmed"})
	require.NoError(t, err)

	assert.Equal(t, "confirmed", resp.Status)
	assert.ElementsMatch(t, []string{"in_progress", "cancelled"}, resp.AllowedTransitions)
	assert.Equal(t, entity.AppointmentStatusConfirmed, f.appointmentStatus(t, "APTCONF0001"))
	assert.Equal(t, int64(1), f.notificationCount(t, f.patient.ID))
	assert.Equal(t, int64(0), f.notificationCount(t, f.doctor.ID))
}

func TestAppointmentUsecase_RejectedTransitionWritesNothing(t *testing.T) {
	f := newFixture(t)
	f.seedAppointment(t, "APTREJE0001", entity.AppointmentStatusPending)

	_, err := f.appointments.UpdateStatus(asUser(f.patient), "APTREJE0001", &dto.UpdateAppointmentStatusRequest{Status: "confirmed"})
	assert.ErrorIs(t, err, entity.ErrPartyNotPermitted)

	_, err = f.appointments.UpdateStatus(asUser(f.doctor), "APTREJE0001", &dto.UpdateAppointmentStatusRequest{Status: "completed"})
	var invalid *entity.InvalidTransitionError
	require.True(t, errors.As(err, &invalid))
	assert.ElementsMatch(t, []entity.AppointmentStatus{entity.AppointmentStatusConfirmed, entity.AppointmentStatusCancelled}, invalid.Allowed)

	assert.Equal(t, entity.AppointmentStatusPending, f.appointmentStatus(t, "APTREJE0001"))
	assert.Equal(t, int64(0), f.notificationCount(t, f.patient.ID))
	assert.Equal(t, int64(0), f.notificationCount(t, f.doctor.ID))

	var audits int64
	require.NoError(t, f.db.Model(&entity.AuditLog{}).Count(&audits).Error)
	assert.Equal(t, int64(0), audits)
}

func TestAppointmentUsecase_CannotCancelInProgress(t *testing.T) {
	f := newFixture(t)
	f.seedAppointment(t, "APTPROG0001", entity.AppointmentStatusInProgress)

	_, err := f.appointments.UpdateStatus(asUser(f.doctor), "APTPROG0001", &dto.UpdateAppointmentStatusRequest{Status: "cancelled"})

	var invalid *entity.InvalidTransitionError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, []entity.AppointmentStatus{entity.AppointmentStatusCompleted}, invalid.Allowed)
	assert.Equal(t, entity.AppointmentStatusInProgress, f.appointmentStatus(t, "APTPROG0001"))
}

func TestAppointmentUsecase_NonParticipant(t *testing.T) {
	f := newFixture(t)
	f.seedAppointment(t, "APTPRIV0001", entity.AppointmentStatusConfirmed)
	ctx := asUser(f.stranger)

	_, err := f.appointments.GetAppointment(ctx, "APTPRIV0001")
	assert.ErrorIs(t, err, entity.ErrNotParticipant)

	_, err = f.appointments.UpdateStatus(ctx, "APTPRIV0001", &dto.UpdateAppointmentStatusRequest{Status: "cancelled"})
	assert.ErrorIs(t, err, entity.ErrNotParticipant)

	_, err = f.appointments.GetHistory(ctx, "APTPRIV0001")
	assert.ErrorIs(t, err, entity.ErrNotParticipant)

	assert.Equal(t, entity.AppointmentStatusConfirmed, f.appointmentStatus(t, "APTPRIV0001"))
}

func TestAppointmentUsecase_UnknownBooking(t *testing.T) {
	f := newFixture(t)
	ctx := asUser(f.patient)

	_, err := f.appointments.GetAppointment(ctx, "APTMISS0001")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	_, err = f.appointments.GetAppointment(ctx, "not-a-booking")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	_, err = f.appointments.UpdateStatus(ctx, "APTMISS0001", &dto.UpdateAppointmentStatusRequest{Status: "cancelled"})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestAppointmentUsecase_UnknownStatus(t *testing.T) {
	f := newFixture(t)
	f.seedAppointment(t, "APTUNKN0001", entity.AppointmentStatusPending)

	_, err := f.appointments.UpdateStatus(asUser(f.doctor), "APTUNKN0001", &dto.UpdateAppointmentStatusRequest{Status: "archived"})
	assert.ErrorIs(t, err, entity.ErrUnknownStatus)

	_, err = f.appointments.GetMyAppointments(asUser(f.doctor), "archived")
	assert.ErrorIs(t, err, entity.ErrUnknownStatus)
}

func TestAppointmentUsecase_GetMyAppointments(t *testing.T) {
	f := newFixture(t)
	f.seedAppointment(t, "APTLIST0001", entity.AppointmentStatusPending)
	f.seedAppointment(t, "APTLIST0002", entity.AppointmentStatusConfirmed)

	all, err := f.appointments.GetMyAppointments(asUser(f.patient), "")
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)

	confirmed, err := f.appointments.GetMyAppointments(asUser(f.doctor), "confirmed")
	require.NoError(t, err)
	require.Equal(t, 1, confirmed.Total)
	assert.Equal(t, "APTLIST0002", confirmed.Appointments[0].BookingID)

	none, err := f.appointments.GetMyAppointments(asUser(f.stranger), "")
	require.NoError(t, err)
	assert.Equal(t, 0, none.Total)
}

func TestAppointmentUsecase_UpdateNotesDoctorOnly(t *testing.T) {
	f := newFixture(t)
	f.seedAppointment(t, "APTNOTE0001", entity.AppointmentStatusConfirmed)

	_, err := f.appointments.UpdateNotes(asUser(f.patient), "APTNOTE0001", &dto.UpdateAppointmentNotesRequest{Notes: "x"})
	assert.ErrorIs(t, err, entity.ErrPartyNotPermitted)

	resp, err := f.appointments.UpdateNotes(asUser(f.doctor), "APTNOTE0001", &dto.UpdateAppointmentNotesRequest{Notes: "bring lab results"})
	require.NoError(t, err)
	assert.Equal(t, "bring lab results", resp.Notes)
}

func TestAppointmentUsecase_SendReminder(t *testing.T) {
	f := newFixture(t)
	f.seedAppointment(t, "APTREMI0001", entity.AppointmentStatusConfirmed)
	f.seedAppointment(t, "APTREMI0002", entity.AppointmentStatusCancelled)

	require.NoError(t, f.appointments.SendReminder(asUser(f.doctor), "APTREMI0001", &dto.SendReminderRequest{}))
	assert.Equal(t, int64(1), f.notificationCount(t, f.patient.ID))

	err := f.appointments.SendReminder(asUser(f.patient), "APTREMI0001", &dto.SendReminderRequest{})
	assert.ErrorIs(t, err, entity.ErrPartyNotPermitted)

	err = f.appointments.SendReminder(asUser(f.doctor), "APTREMI0002", &dto.SendReminderRequest{})
	assert.ErrorIs(t, err, entity.ErrInvalidTransition)

	assert.Equal(t, int64(1), f.notificationCount(t, f.patient.ID))
}

func TestAppointmentUsecase_RequiresActor(t *testing.T) {
	f := newFixture(t)

	_, err := f.appointments.GetMyAppointments(context.Background(), "")
	assert.ErrorIs(t, err, ErrUserNotInContext)
}
