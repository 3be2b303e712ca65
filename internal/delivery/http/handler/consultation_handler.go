package handler

import (
	"net/http"

	"telemedicine-core/internal/delivery/dto"
	"telemedicine-core/internal/usecase"
	"telemedicine-core/pkg/response"
	"telemedicine-core/pkg/validator"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// ConsultationHandler serves the consultation room of an appointment and its chat
type ConsultationHandler struct {
	consultationUsecase usecase.ConsultationUsecase
	validator           *validator.CustomValidator
	log                 *logrus.Logger
}

func NewConsultationHandler(consultationUsecase usecase.ConsultationUsecase, validator *validator.CustomValidator, log *logrus.Logger) *ConsultationHandler {
	return &ConsultationHandler{
		consultationUsecase: consultationUsecase,
		validator:           validator,
		log:                 log,
	}
}

func (h *ConsultationHandler) OpenConsultation(w http.ResponseWriter, r *http.Request) {
	consultation, err := h.consultationUsecase.OpenConsultation(r.Context(), mux.Vars(r)["booking_id"])
	if err != nil {
		writeError(w, h.log, err, "Failed to open consultation")
		return
	}

	response.Success(w, http.StatusOK, "Consultation opened successfully", consultation)
}

func (h *ConsultationHandler) GetConsultation(w http.ResponseWriter, r *http.Request) {
	consultation, err := h.consultationUsecase.GetConsultation(r.Context(), mux.Vars(r)["booking_id"])
	if err != nil {
		writeError(w, h.log, err, "Failed to get consultation")
		return
	}

	response.Success(w, http.StatusOK, "Consultation retrieved successfully", consultation)
}

func (h *ConsultationHandler) CloseConsultation(w http.ResponseWriter, r *http.Request) {
	result, err := h.consultationUsecase.CloseConsultation(r.Context(), mux.Vars(r)["booking_id"])
	if err != nil {
		writeError(w, h.log, err, "Failed to close consultation")
		return
	}

	response.Success(w, http.StatusOK, "Consultation closed successfully", result)
}

func (h *ConsultationHandler) UpdateConsultation(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateConsultationRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	consultation, err := h.consultationUsecase.UpdateConsultation(r.Context(), mux.Vars(r)["booking_id"], &req)
	if err != nil {
		writeError(w, h.log, err, "Failed to update consultation")
		return
	}

	response.Success(w, http.StatusOK, "Consultation updated successfully", consultation)
}

func (h *ConsultationHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req dto.SendChatMessageRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	message, err := h.consultationUsecase.SendMessage(r.Context(), mux.Vars(r)["booking_id"], &req)
	if err != nil {
		writeError(w, h.log, err, "Failed to send message")
		return
	}

	response.Success(w, http.StatusCreated, "Message sent successfully", message)
}

func (h *ConsultationHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.consultationUsecase.GetMessages(r.Context(), mux.Vars(r)["booking_id"])
	if err != nil {
		writeError(w, h.log, err, "Failed to get messages")
		return
	}

	response.Success(w, http.StatusOK, "Messages retrieved successfully", messages)
}

func (h *ConsultationHandler) MarkMessagesRead(w http.ResponseWriter, r *http.Request) {
	result, err := h.consultationUsecase.MarkMessagesRead(r.Context(), mux.Vars(r)["booking_id"])
	if err != nil {
		writeError(w, h.log, err, "Failed to mark messages as read")
		return
	}

	response.Success(w, http.StatusOK, "Messages marked as read", result)
}
