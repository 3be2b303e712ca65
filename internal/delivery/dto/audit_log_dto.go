package dto

import (
	"telemedicine-core/internal/domain/entity"
	"time"
)

// AuditLogResponse is one step of an appointment's history
type AuditLogResponse struct {
	ID         int64                `json:"id"`
	User       *UserSummary         `json:"user,omitempty"`
	Action     string               `json:"action"`
	EntityName string               `json:"entity_name"`
	EntityID   string               `json:"entity_id"`
	Metadata   entity.AuditMetadata `json:"metadata"`
	CreatedAt  time.Time            `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int                `json:"total"`
}
