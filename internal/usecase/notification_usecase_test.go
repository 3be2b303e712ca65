package usecase

import (
	"testing"

	"telemedicine-core/internal/delivery/dto"
	"telemedicine-core/internal/domain/entity"
	"telemedicine-core/internal/repository"
	"telemedicine-core/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationUsecase_MarkRead(t *testing.T) {
	f := newFixture(t)
	f.seedAppointment(t, "APTNOTI0001", entity.AppointmentStatusPending)

	_, err := f.appointments.UpdateStatus(asUser(f.doctor), "APTNOTI0001", &dto.UpdateAppointmentStatusRequest{Status: "confirmed"})
	require.NoError(t, err)

	patientCtx := asUser(f.patient)
	inbox, err := f.notifications.GetMyNotifications(patientCtx, false)
	require.NoError(t, err)
	require.Equal(t, 1, inbox.Total)
	notificationID := inbox.Notifications[0].ID

	unread, err := f.notifications.GetUnreadCount(patientCtx)
	require.NoError(t, err)
	require.Equal(t, int64(1), unread.Unread)

	t.Run("other user cannot mark it", func(t *testing.T) {
		_, err := f.notifications.MarkRead(asUser(f.doctor), notificationID)
		assert.ErrorIs(t, err, ErrNotNotificationRecipient)
	})

	t.Run("unknown notification", func(t *testing.T) {
		_, err := f.notifications.MarkRead(patientCtx, uuid.New())
		assert.ErrorIs(t, err, ErrNotificationNotFound)
	})

	t.Run("recipient marks it once", func(t *testing.T) {
		resp, err := f.notifications.MarkRead(patientCtx, notificationID)
		require.NoError(t, err)
		assert.True(t, resp.IsRead)

		unread, err := f.notifications.GetUnreadCount(patientCtx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), unread.Unread)
	})

	t.Run("marking again does not drift the counter", func(t *testing.T) {
		_, err := f.notifications.MarkRead(patientCtx, notificationID)
		require.NoError(t, err)

		unread, err := f.notifications.GetUnreadCount(patientCtx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), unread.Unread)
	})

	unreadOnly, err := f.notifications.GetMyNotifications(patientCtx, true)
	require.NoError(t, err)
	assert.Equal(t, 0, unreadOnly.Total)
}

func TestNotificationUsecase_CountWithoutCache(t *testing.T) {
	f := newFixture(t)
	f.seedAppointment(t, "APTNOTI0002", entity.AppointmentStatusPending)
	_, err := f.appointments.UpdateStatus(asUser(f.doctor), "APTNOTI0002", &dto.UpdateAppointmentStatusRequest{Status: "cancelled"})
	require.NoError(t, err)

	uncached := NewNotificationUsecase(f.db, testutil.NewLogger(), repository.NewNotificationRepository(), nil)

	unread, err := uncached.GetUnreadCount(asUser(f.patient))
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread.Unread)
}
