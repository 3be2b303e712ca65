package usecase

import (
	"context"
	"errors"

	"telemedicine-core/internal/delivery/http/middleware"

	"github.com/google/uuid"
)

var (
	ErrUserNotInContext         = errors.New("user not found in context")
	ErrUserNotFound             = errors.New("user not found")
	ErrAppointmentNotFound      = errors.New("appointment not found")
	ErrConsultationNotFound     = errors.New("consultation not found")
	ErrNotificationNotFound     = errors.New("notification not found")
	ErrRecordNotFound           = errors.New("medical record not found")
	ErrPrescriptionNotFound     = errors.New("prescription not found")
	ErrDoctorNotFound           = errors.New("doctor not found or inactive")
	ErrPatientNotFound          = errors.New("patient not found")
	ErrConcurrentModification   = errors.New("appointment was modified concurrently, please retry")
	ErrNotNotificationRecipient = errors.New("notification does not belong to you")
	ErrNotIssuingDoctor         = errors.New("only the issuing doctor can do this")
	ErrEmptyMessage             = errors.New("message must not be empty")
	ErrConsultationEnded        = errors.New("consultation has already ended")
	ErrSelfBooking              = errors.New("cannot book an appointment with yourself")
	ErrInvalidDate              = errors.New("invalid date or time format, use YYYY-MM-DD and HH:MM")
)

// actorFromContext returns the authenticated user ID set by the auth middleware
func actorFromContext(ctx context.Context) (uuid.UUID, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, ErrUserNotInContext
	}
	return userID, nil
}
