package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentStatus represents the lifecycle status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending    AppointmentStatus = "pending"
	AppointmentStatusConfirmed  AppointmentStatus = "confirmed"
	AppointmentStatusInProgress AppointmentStatus = "in_progress"
	AppointmentStatusCompleted  AppointmentStatus = "completed"
	AppointmentStatusCancelled  AppointmentStatus = "cancelled"
)

// AppointmentType represents how the encounter takes place
type AppointmentType string

const (
	AppointmentTypeVideo        AppointmentType = "video"
	AppointmentTypeChat         AppointmentType = "chat"
	AppointmentTypeInPerson     AppointmentType = "in_person"
	AppointmentTypeMobileClinic AppointmentType = "mobile_clinic"
)

// Appointment represents a requested or held clinical encounter
type Appointment struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	BookingID       string            `gorm:"type:varchar(20);uniqueIndex;not null" json:"booking_id"`
	PatientID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	AppointmentType AppointmentType   `gorm:"type:varchar(20);not null;default:'video'" json:"appointment_type"`
	ScheduledDate   time.Time         `gorm:"type:date;not null;index" json:"scheduled_date"`
	ScheduledTime   string            `gorm:"type:varchar(5);not null" json:"scheduled_time"`
	Status          AppointmentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Symptoms        string            `gorm:"type:text" json:"symptoms,omitempty"`
	Notes           string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient *User `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  *User `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// IsTerminal reports whether no further status change is possible
func (a *Appointment) IsTerminal() bool {
	return a.Status.IsTerminal()
}

func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentStatusCompleted || s == AppointmentStatusCancelled
}

func (s AppointmentStatus) IsKnown() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusInProgress,
		AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}
