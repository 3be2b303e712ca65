package converter

import (
	"telemedicine-core/internal/delivery/dto"
	"telemedicine-core/internal/domain/entity"
)

// AuditLogsToResponses converts a slice of AuditLog entities to slice of AuditLogResponse DTOs
func AuditLogsToResponses(logs []entity.AuditLog) []dto.AuditLogResponse {
	responses := make([]dto.AuditLogResponse, len(logs))
	for i, log := range logs {
		responses[i] = dto.AuditLogResponse{
			ID:         log.ID,
			User:       UserToSummary(log.User),
			Action:     log.Action,
			EntityName: log.EntityName,
			EntityID:   log.EntityID,
			Metadata:   log.Metadata,
			CreatedAt:  log.CreatedAt,
		}
	}
	return responses
}
