package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreatePrescriptionRequest struct {
	Medications  string `json:"medications" validate:"required,max=10000"`
	Instructions string `json:"instructions" validate:"required,max=10000"`
	IssueDate    string `json:"issue_date" validate:"omitempty,datetime=2006-01-02"`
	ValidUntil   string `json:"valid_until" validate:"omitempty,datetime=2006-01-02"`
}

// Response DTOs

type PrescriptionResponse struct {
	ID              uuid.UUID    `json:"id"`
	PrescriptionID  string       `json:"prescription_id"`
	PatientID       uuid.UUID    `json:"patient_id"`
	Doctor          *UserSummary `json:"doctor,omitempty"`
	AppointmentID   *uuid.UUID   `json:"appointment_id,omitempty"`
	Medications     string       `json:"medications"`
	Instructions    string       `json:"instructions"`
	IssueDate       string       `json:"issue_date"`
	ValidUntil      *string      `json:"valid_until,omitempty"`
	HasLookupCode   bool         `json:"has_lookup_code"`
	VerificationURL string       `json:"verification_url"`
	CreatedAt       time.Time    `json:"created_at"`
}

type PrescriptionListResponse struct {
	Prescriptions []PrescriptionResponse `json:"prescriptions"`
	Total         int                    `json:"total"`
}

type PublicPrescriptionResponse struct {
	PrescriptionID string  `json:"prescription_id"`
	PatientName    string  `json:"patient_name"`
	DoctorName     string  `json:"doctor_name,omitempty"`
	Medications    string  `json:"medications"`
	Instructions   string  `json:"instructions"`
	IssueDate      string  `json:"issue_date"`
	ValidUntil     *string `json:"valid_until,omitempty"`
	IsValid        bool    `json:"is_valid"`
}
