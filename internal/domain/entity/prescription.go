package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Prescription is a digital prescription verifiable through its lookup code.
type Prescription struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	PrescriptionID string     `gorm:"type:varchar(20);uniqueIndex;not null" json:"prescription_id"`
	PatientID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID       *uuid.UUID `gorm:"type:uuid;index" json:"doctor_id,omitempty"`
	AppointmentID  *uuid.UUID `gorm:"type:uuid;index" json:"appointment_id,omitempty"`
	Medications    string     `gorm:"type:text;not null" json:"medications"`
	Instructions   string     `gorm:"type:text;not null" json:"instructions"`
	IssueDate      time.Time  `gorm:"type:date;not null" json:"issue_date"`
	ValidUntil     *time.Time `gorm:"type:date" json:"valid_until,omitempty"`
	LookupCode     []byte     `gorm:"type:bytea" json:"-"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Patient *User `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  *User `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Prescription) TableName() string {
	return "prescriptions"
}

func (p *Prescription) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *Prescription) HasLookupCode() bool {
	return len(p.LookupCode) > 0
}

// IsValidOn checks the optional validity window against day
func (p *Prescription) IsValidOn(day time.Time) bool {
	if p.ValidUntil == nil {
		return true
	}
	return !day.After(*p.ValidUntil)
}

// IssuedIntent is the notification the patient receives for a new prescription
func (p *Prescription) IssuedIntent(doctorName string) NotificationIntent {
	return NotificationIntent{
		RecipientID: p.PatientID,
		Category:    NotificationCategoryPrescription,
		Title:       "New Prescription",
		Message:     fmt.Sprintf("%s issued you a prescription (%s).", doctorName, p.PrescriptionID),
		Link:        "/patient/prescriptions/",
	}
}
