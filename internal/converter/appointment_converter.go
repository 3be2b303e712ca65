package converter

import (
	"telemedicine-core/internal/delivery/dto"
	"telemedicine-core/internal/domain/entity"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO.
// AllowedTransitions is computed for viewerID's side of the appointment.
func AppointmentToResponse(appointment *entity.Appointment, viewerID uuid.UUID) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	allowed := []string{}
	if party, ok := appointment.PartyOf(viewerID); ok {
		for _, s := range appointment.AllowedTransitions(party) {
			allowed = append(allowed, string(s))
		}
	}

	return &dto.AppointmentResponse{
		ID:                 appointment.ID,
		BookingID:          appointment.BookingID,
		PatientID:          appointment.PatientID,
		DoctorID:           appointment.DoctorID,
		Patient:            UserToSummary(appointment.Patient),
		Doctor:             UserToSummary(appointment.Doctor),
		AppointmentType:    string(appointment.AppointmentType),
		ScheduledDate:      appointment.ScheduledDate.Format(dateLayout),
		ScheduledTime:      appointment.ScheduledTime,
		Status:             string(appointment.Status),
		AllowedTransitions: allowed,
		Symptoms:           appointment.Symptoms,
		Notes:              appointment.Notes,
		CreatedAt:          appointment.CreatedAt,
		UpdatedAt:          appointment.UpdatedAt,
	}
}

// AppointmentsToResponses converts a slice of Appointment entities to slice of AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment, viewerID uuid.UUID) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i], viewerID)
	}
	return responses
}
