package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Consultation is the working record of an appointment's encounter.
// At most one exists per appointment (unique appointment_id).
type Consultation struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AppointmentID     uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"appointment_id"`
	Diagnosis         string     `gorm:"type:text" json:"diagnosis,omitempty"`
	TreatmentPlan     string     `gorm:"type:text" json:"treatment_plan,omitempty"`
	FollowUpDate      *time.Time `gorm:"type:date" json:"follow_up_date,omitempty"`
	ConsultationNotes string     `gorm:"type:text" json:"consultation_notes,omitempty"`
	StartedAt         time.Time  `gorm:"not null" json:"started_at"`
	EndedAt           *time.Time `json:"ended_at,omitempty"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Appointment *Appointment `gorm:"foreignKey:AppointmentID" json:"appointment,omitempty"`
}

func (Consultation) TableName() string {
	return "consultations"
}

func (c *Consultation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// IsEnded checks if the session has been closed
func (c *Consultation) IsEnded() bool {
	return c.EndedAt != nil
}
