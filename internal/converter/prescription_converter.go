package converter

import (
	"time"

	"telemedicine-core/internal/delivery/dto"
	"telemedicine-core/internal/domain/entity"
	"telemedicine-core/pkg/lookupcode"
)

// PrescriptionToResponse converts a Prescription entity to PrescriptionResponse DTO
func PrescriptionToResponse(prescription *entity.Prescription, encoder *lookupcode.Encoder) *dto.PrescriptionResponse {
	if prescription == nil {
		return nil
	}

	verificationURL, _ := encoder.VerificationURL(lookupcode.KindPrescription, prescription.PrescriptionID)

	return &dto.PrescriptionResponse{
		ID:              prescription.ID,
		PrescriptionID:  prescription.PrescriptionID,
		PatientID:       prescription.PatientID,
		Doctor:          UserToSummary(prescription.Doctor),
		AppointmentID:   prescription.AppointmentID,
		Medications:     prescription.Medications,
		Instructions:    prescription.Instructions,
		IssueDate:       prescription.IssueDate.Format(dateLayout),
		ValidUntil:      formatOptionalDate(prescription.ValidUntil),
		HasLookupCode:   prescription.HasLookupCode(),
		VerificationURL: verificationURL,
		CreatedAt:       prescription.CreatedAt,
	}
}

func PrescriptionsToResponses(prescriptions []entity.Prescription, encoder *lookupcode.Encoder) []dto.PrescriptionResponse {
	responses := make([]dto.PrescriptionResponse, len(prescriptions))
	for i := range prescriptions {
		responses[i] = *PrescriptionToResponse(&prescriptions[i], encoder)
	}
	return responses
}

func PrescriptionToPublicResponse(prescription *entity.Prescription, today time.Time) *dto.PublicPrescriptionResponse {
	if prescription == nil {
		return nil
	}

	return &dto.PublicPrescriptionResponse{
		PrescriptionID: prescription.PrescriptionID,
		PatientName:    displayName(prescription.Patient),
		DoctorName:     displayName(prescription.Doctor),
		Medications:    prescription.Medications,
		Instructions:   prescription.Instructions,
		IssueDate:      prescription.IssueDate.Format(dateLayout),
		ValidUntil:     formatOptionalDate(prescription.ValidUntil),
		IsValid:        prescription.IsValidOn(today),
	}
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
