package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditLog represents one entry of an entity's change history
type AuditLog struct {
	ID         int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     *uuid.UUID    `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action     string        `gorm:"type:varchar(100);not null;index" json:"action"`
	EntityName string        `gorm:"type:varchar(50);not null;index:idx_audit_logs_entity,priority:1" json:"entity_name"`
	EntityID   string        `gorm:"type:varchar(64);not null;index:idx_audit_logs_entity,priority:2" json:"entity_id"`
	Metadata   AuditMetadata `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt  time.Time     `gorm:"autoCreateTime;index" json:"created_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// AuditMetadata is stored as a JSON object. Empty maps are stored as NULL.
type AuditMetadata map[string]interface{}

func (m AuditMetadata) Value() (driver.Value, error) {
	if len(m) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *AuditMetadata) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("audit metadata: unsupported column type %T", src)
	}
	return json.Unmarshal(raw, m)
}

// Audited entity names
const (
	AuditEntityAppointment   = "appointment"
	AuditEntityMedicalRecord = "medical_record"
	AuditEntityPrescription  = "prescription"
)

// Common audit actions
const (
	AuditActionAppointmentCreate      = "appointment.create"
	AuditActionAppointmentTransition  = "appointment.transition"
	AuditActionAppointmentNotesUpdate = "appointment.notes_update"
	AuditActionAppointmentReminder    = "appointment.reminder"
	AuditActionConsultationOpen       = "consultation.open"
	AuditActionConsultationClose      = "consultation.close"
	AuditActionConsultationUpdate     = "consultation.update"
	AuditActionRecordCreate           = "medical_record.create"
	AuditActionPrescriptionCreate     = "prescription.create"
	AuditActionLookupCodeRegenerate   = "lookup_code.regenerate"
)
