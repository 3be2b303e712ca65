package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateMedicalRecordRequest struct {
	Diagnosis string `json:"diagnosis" validate:"required,max=500"`
	Treatment string `json:"treatment" validate:"required,max=10000"`
	VisitDate string `json:"visit_date" validate:"omitempty,datetime=2006-01-02"`
}

// Response DTOs

type MedicalRecordResponse struct {
	ID              uuid.UUID    `json:"id"`
	RecordID        string       `json:"record_id"`
	PatientID       uuid.UUID    `json:"patient_id"`
	Doctor          *UserSummary `json:"doctor,omitempty"`
	AppointmentID   *uuid.UUID   `json:"appointment_id,omitempty"`
	Diagnosis       string       `json:"diagnosis"`
	Treatment       string       `json:"treatment"`
	VisitDate       string       `json:"visit_date"`
	HasLookupCode   bool         `json:"has_lookup_code"`
	VerificationURL string       `json:"verification_url"`
	CreatedAt       time.Time    `json:"created_at"`
}

type MedicalRecordListResponse struct {
	Records []MedicalRecordResponse `json:"records"`
	Total   int                     `json:"total"`
}

// PublicMedicalRecordResponse is what anyone holding the lookup code can see
type PublicMedicalRecordResponse struct {
	RecordID    string `json:"record_id"`
	PatientName string `json:"patient_name"`
	DoctorName  string `json:"doctor_name,omitempty"`
	Diagnosis   string `json:"diagnosis"`
	Treatment   string `json:"treatment"`
	VisitDate   string `json:"visit_date"`
}
