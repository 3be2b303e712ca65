package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"telemedicine-core/internal/domain/entity"
	"telemedicine-core/internal/usecase"
	"telemedicine-core/pkg/identifier"
	"telemedicine-core/pkg/response"
	"telemedicine-core/pkg/validator"

	"github.com/sirupsen/logrus"
)

// writeError maps use case errors to HTTP statuses. Unrecognized errors are
// logged and answered with 500 and fallback as the message.
func writeError(w http.ResponseWriter, log *logrus.Logger, err error, fallback string) {
	var invalid *entity.InvalidTransitionError
	switch {
	case errors.Is(err, usecase.ErrUserNotInContext):
		response.Unauthorized(w, "")

	case errors.Is(err, entity.ErrNotParticipant):
		response.Forbidden(w, "You are not assigned to this appointment")
	case errors.Is(err, entity.ErrPartyNotPermitted):
		response.Forbidden(w, "Your role on this appointment does not allow this action")
	case errors.Is(err, usecase.ErrNotNotificationRecipient):
		response.Forbidden(w, "Notification does not belong to you")
	case errors.Is(err, usecase.ErrNotIssuingDoctor):
		response.Forbidden(w, "Only the issuing doctor can do this")

	case errors.Is(err, usecase.ErrAppointmentNotFound):
		response.NotFound(w, "Appointment not found")
	case errors.Is(err, usecase.ErrConsultationNotFound):
		response.NotFound(w, "Consultation has not been opened")
	case errors.Is(err, usecase.ErrNotificationNotFound):
		response.NotFound(w, "Notification not found")
	case errors.Is(err, usecase.ErrRecordNotFound):
		response.NotFound(w, "Medical record not found")
	case errors.Is(err, usecase.ErrPrescriptionNotFound):
		response.NotFound(w, "Prescription not found")
	case errors.Is(err, usecase.ErrDoctorNotFound):
		response.NotFound(w, "Doctor not found")
	case errors.Is(err, usecase.ErrPatientNotFound):
		response.NotFound(w, "Patient not found")
	case errors.Is(err, usecase.ErrUserNotFound):
		response.NotFound(w, "User not found")

	case errors.As(err, &invalid):
		allowed := make([]string, len(invalid.Allowed))
		for i, s := range invalid.Allowed {
			allowed[i] = string(s)
		}
		response.Conflict(w, invalid.Error(), &response.ConflictDetail{Allowed: allowed})
	case errors.Is(err, usecase.ErrConcurrentModification):
		response.Conflict(w, err.Error(), &response.ConflictDetail{Retryable: true})
	case errors.Is(err, identifier.ErrExhausted):
		response.Conflict(w, "Could not allocate an identifier, please retry", &response.ConflictDetail{Retryable: true})

	case errors.Is(err, entity.ErrUnknownStatus),
		errors.Is(err, usecase.ErrInvalidDate):
		response.BadRequest(w, err.Error())
	case errors.Is(err, usecase.ErrEmptyMessage),
		errors.Is(err, usecase.ErrSelfBooking),
		errors.Is(err, usecase.ErrConsultationEnded):
		response.UnprocessableEntity(w, err.Error())

	default:
		log.Errorf("Unhandled error: %+v", err)
		response.InternalServerError(w, fallback)
	}
}

// decodeAndValidate reads a JSON body into req and runs struct validation.
// It writes the 400 response itself and reports whether the caller may go on.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.CustomValidator, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return false
	}

	if err := v.Validate(req); err != nil {
		response.ValidationError(w, v.FormatValidationErrors(err))
		return false
	}
	return true
}
