package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"telemedicine-core/internal/domain/entity"
	"telemedicine-core/internal/usecase"
	"telemedicine-core/pkg/identifier"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   struct {
		Retryable bool     `json:"retryable"`
		Allowed   []string `json:"allowed"`
	} `json:"error"`
}

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"no actor", usecase.ErrUserNotInContext, http.StatusUnauthorized},
		{"not participant", entity.ErrNotParticipant, http.StatusForbidden},
		{"party not permitted", entity.ErrPartyNotPermitted, http.StatusForbidden},
		{"foreign notification", usecase.ErrNotNotificationRecipient, http.StatusForbidden},
		{"not issuing doctor", usecase.ErrNotIssuingDoctor, http.StatusForbidden},
		{"appointment missing", usecase.ErrAppointmentNotFound, http.StatusNotFound},
		{"consultation missing", usecase.ErrConsultationNotFound, http.StatusNotFound},
		{"record missing", usecase.ErrRecordNotFound, http.StatusNotFound},
		{"prescription missing", usecase.ErrPrescriptionNotFound, http.StatusNotFound},
		{"unknown status", fmt.Errorf("%w: %q", entity.ErrUnknownStatus, "archived"), http.StatusBadRequest},
		{"bad date", usecase.ErrInvalidDate, http.StatusBadRequest},
		{"empty message", usecase.ErrEmptyMessage, http.StatusUnprocessableEntity},
		{"ended session", usecase.ErrConsultationEnded, http.StatusUnprocessableEntity},
		{"self booking", usecase.ErrSelfBooking, http.StatusUnprocessableEntity},
		{"identifier exhausted", fmt.Errorf("%w: dup", identifier.ErrExhausted), http.StatusConflict},
		{"anything else", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, quietLogger(), tt.err, "fallback")
			assert.Equal(t, tt.want, rec.Code)

			var body errorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
		})
	}
}

func TestWriteError_InvalidTransitionCarriesAllowedSet(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, quietLogger(), &entity.InvalidTransitionError{
		From:    entity.AppointmentStatusInProgress,
		To:      entity.AppointmentStatusCancelled,
		Allowed: []entity.AppointmentStatus{entity.AppointmentStatusCompleted},
	}, "fallback")

	require.Equal(t, http.StatusConflict, rec.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Error.Retryable)
	assert.Equal(t, []string{"completed"}, body.Error.Allowed)
	assert.Contains(t, body.Message, "in_progress")
}

func TestWriteError_ConcurrentModificationIsRetryable(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, quietLogger(), usecase.ErrConcurrentModification, "fallback")

	require.Equal(t, http.StatusConflict, rec.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Error.Retryable)
}

func TestWriteError_FallbackMessageHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, quietLogger(), errors.New("pq: password authentication failed"), "Failed to get appointments")

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Failed to get appointments", body.Message)
}
