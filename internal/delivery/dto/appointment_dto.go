package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	DoctorID        string `json:"doctor_id" validate:"required,uuid"`
	AppointmentType string `json:"appointment_type" validate:"required,oneof=video chat in_person mobile_clinic"`
	ScheduledDate   string `json:"scheduled_date" validate:"required,datetime=2006-01-02"`
	ScheduledTime   string `json:"scheduled_time" validate:"required,datetime=15:04"`
	Symptoms        string `json:"symptoms" validate:"max=2000"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed in_progress completed cancelled"`
}

type UpdateAppointmentNotesRequest struct {
	Notes string `json:"notes" validate:"max=5000"`
}

type SendReminderRequest struct {
	Message string `json:"message" validate:"max=500"`
}

// Response DTOs

type AppointmentResponse struct {
	ID                 uuid.UUID    `json:"id"`
	BookingID          string       `json:"booking_id"`
	PatientID          uuid.UUID    `json:"patient_id"`
	DoctorID           uuid.UUID    `json:"doctor_id"`
	Patient            *UserSummary `json:"patient,omitempty"`
	Doctor             *UserSummary `json:"doctor,omitempty"`
	AppointmentType    string       `json:"appointment_type"`
	ScheduledDate      string       `json:"scheduled_date"`
	ScheduledTime      string       `json:"scheduled_time"`
	Status             string       `json:"status"`
	AllowedTransitions []string     `json:"allowed_transitions"`
	Symptoms           string       `json:"symptoms,omitempty"`
	Notes              string       `json:"notes,omitempty"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
