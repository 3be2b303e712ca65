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

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
	log                *logrus.Logger
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator, log *logrus.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
		log:                log,
	}
}

func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.CreateAppointment(r.Context(), &req)
	if err != nil {
		writeError(w, h.log, err, "Failed to create appointment")
		return
	}

	response.Success(w, http.StatusCreated, "Appointment created successfully", appointment)
}

func (h *AppointmentHandler) GetMyAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.appointmentUsecase.GetMyAppointments(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, h.log, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	appointment, err := h.appointmentUsecase.GetAppointment(r.Context(), mux.Vars(r)["booking_id"])
	if err != nil {
		writeError(w, h.log, err, "Failed to get appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateAppointmentStatusRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.UpdateStatus(r.Context(), mux.Vars(r)["booking_id"], &req)
	if err != nil {
		writeError(w, h.log, err, "Failed to update appointment status")
		return
	}

	response.Success(w, http.StatusOK, "Appointment status updated successfully", appointment)
}

func (h *AppointmentHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateAppointmentNotesRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.UpdateNotes(r.Context(), mux.Vars(r)["booking_id"], &req)
	if err != nil {
		writeError(w, h.log, err, "Failed to update appointment notes")
		return
	}

	response.Success(w, http.StatusOK, "Appointment notes updated successfully", appointment)
}

func (h *AppointmentHandler) SendReminder(w http.ResponseWriter, r *http.Request) {
	var req dto.SendReminderRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	if err := h.appointmentUsecase.SendReminder(r.Context(), mux.Vars(r)["booking_id"], &req); err != nil {
		writeError(w, h.log, err, "Failed to send reminder")
		return
	}

	response.Success(w, http.StatusOK, "Reminder sent successfully", nil)
}

func (h *AppointmentHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.appointmentUsecase.GetHistory(r.Context(), mux.Vars(r)["booking_id"])
	if err != nil {
		writeError(w, h.log, err, "Failed to get appointment history")
		return
	}

	response.Success(w, http.StatusOK, "Appointment history retrieved successfully", history)
}
