package repository

import (
	"telemedicine-core/internal/domain/entity"
	domainRepo "telemedicine-core/internal/domain/repository"

	"gorm.io/gorm"
)

type auditLogRepository struct{}

func NewAuditLogRepository() domainRepo.AuditLogRepository {
	return &auditLogRepository{}
}

func (r *auditLogRepository) Create(db *gorm.DB, log *entity.AuditLog) error {
	return db.Create(log).Error
}

// FindByEntity returns the change history of one entity, oldest first.
func (r *auditLogRepository) FindByEntity(db *gorm.DB, entityName, entityID string) ([]entity.AuditLog, error) {
	var logs []entity.AuditLog
	err := db.Preload("User").
		Where("entity_name = ? AND entity_id = ?", entityName, entityID).
		Order("created_at ASC, id ASC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
