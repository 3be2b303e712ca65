package converter

import (
	"telemedicine-core/internal/delivery/dto"
	"telemedicine-core/internal/domain/entity"
	"telemedicine-core/pkg/lookupcode"
)

// MedicalRecordToResponse converts a MedicalRecord entity to MedicalRecordResponse DTO
func MedicalRecordToResponse(record *entity.MedicalRecord, encoder *lookupcode.Encoder) *dto.MedicalRecordResponse {
	if record == nil {
		return nil
	}

	verificationURL, _ := encoder.VerificationURL(lookupcode.KindRecord, record.RecordID)

	return &dto.MedicalRecordResponse{
		ID:              record.ID,
		RecordID:        record.RecordID,
		PatientID:       record.PatientID,
		Doctor:          UserToSummary(record.Doctor),
		AppointmentID:   record.AppointmentID,
		Diagnosis:       record.Diagnosis,
		Treatment:       record.Treatment,
		VisitDate:       record.VisitDate.Format(dateLayout),
		HasLookupCode:   record.HasLookupCode(),
		VerificationURL: verificationURL,
		CreatedAt:       record.CreatedAt,
	}
}

func MedicalRecordsToResponses(records []entity.MedicalRecord, encoder *lookupcode.Encoder) []dto.MedicalRecordResponse {
	responses := make([]dto.MedicalRecordResponse, len(records))
	for i := range records {
		responses[i] = *MedicalRecordToResponse(&records[i], encoder)
	}
	return responses
}

// MedicalRecordToPublicResponse exposes only what the printed code should verify
func MedicalRecordToPublicResponse(record *entity.MedicalRecord) *dto.PublicMedicalRecordResponse {
	if record == nil {
		return nil
	}

	return &dto.PublicMedicalRecordResponse{
		RecordID:    record.RecordID,
		PatientName: displayName(record.Patient),
		DoctorName:  displayName(record.Doctor),
		Diagnosis:   record.Diagnosis,
		Treatment:   record.Treatment,
		VisitDate:   record.VisitDate.Format(dateLayout),
	}
}
