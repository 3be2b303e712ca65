package converter

import (
	"telemedicine-core/internal/delivery/dto"
	"telemedicine-core/internal/domain/entity"
)

// ConsultationToResponse converts a Consultation entity to ConsultationResponse DTO
func ConsultationToResponse(consultation *entity.Consultation, appointment *entity.Appointment) *dto.ConsultationResponse {
	if consultation == nil {
		return nil
	}

	response := &dto.ConsultationResponse{
		ID:                consultation.ID,
		AppointmentID:     consultation.AppointmentID,
		Diagnosis:         consultation.Diagnosis,
		TreatmentPlan:     consultation.TreatmentPlan,
		ConsultationNotes: consultation.ConsultationNotes,
		StartedAt:         consultation.StartedAt,
		EndedAt:           consultation.EndedAt,
		IsEnded:           consultation.IsEnded(),
	}

	if consultation.FollowUpDate != nil {
		followUp := consultation.FollowUpDate.Format(dateLayout)
		response.FollowUpDate = &followUp
	}

	if appointment != nil {
		response.BookingID = appointment.BookingID
		response.AppointmentStatus = string(appointment.Status)
	}

	return response
}

func ChatMessageToResponse(message *entity.ChatMessage) dto.ChatMessageResponse {
	return dto.ChatMessageResponse{
		ID:           message.ID,
		SenderID:     message.SenderID,
		IsFromDoctor: message.IsFromDoctor,
		Message:      message.Message,
		SentAt:       message.SentAt,
		IsRead:       message.IsRead,
	}
}

func ChatMessagesToResponses(messages []entity.ChatMessage) []dto.ChatMessageResponse {
	responses := make([]dto.ChatMessageResponse, len(messages))
	for i := range messages {
		responses[i] = ChatMessageToResponse(&messages[i])
	}
	return responses
}
