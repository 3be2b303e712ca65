package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MedicalRecord is a durable clinical artifact verifiable through its lookup code.
// DoctorID becomes NULL if the issuing doctor account is removed.
type MedicalRecord struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	RecordID      string     `gorm:"type:varchar(20);uniqueIndex;not null" json:"record_id"`
	PatientID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID      *uuid.UUID `gorm:"type:uuid;index" json:"doctor_id,omitempty"`
	AppointmentID *uuid.UUID `gorm:"type:uuid;index" json:"appointment_id,omitempty"`
	Diagnosis     string     `gorm:"type:varchar(500);not null" json:"diagnosis"`
	Treatment     string     `gorm:"type:text;not null" json:"treatment"`
	VisitDate     time.Time  `gorm:"type:date;not null" json:"visit_date"`
	LookupCode    []byte     `gorm:"type:bytea" json:"-"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Patient *User `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  *User `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (MedicalRecord) TableName() string {
	return "medical_records"
}

func (r *MedicalRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// HasLookupCode checks if a lookup-code image has been stored
func (r *MedicalRecord) HasLookupCode() bool {
	return len(r.LookupCode) > 0
}

// IssuedIntent is the notification the patient receives for a new record
func (r *MedicalRecord) IssuedIntent(doctorName string) NotificationIntent {
	return NotificationIntent{
		RecipientID: r.PatientID,
		Category:    NotificationCategoryGeneral,
		Title:       "New Medical Record",
		Message:     fmt.Sprintf("%s added a medical record (%s) to your file.", doctorName, r.RecordID),
		Link:        "/patient/records/",
	}
}
