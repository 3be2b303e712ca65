package service

import (
	"context"

	"telemedicine-core/internal/domain/entity"
	"telemedicine-core/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AuditService interface {
	LogCreate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, newValue interface{}) error
	LogUpdate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) error
	LogTransition(ctx context.Context, tx *gorm.DB, appointment *entity.Appointment, result *entity.TransitionResult) error
	History(ctx context.Context, db *gorm.DB, entityName string, entityID string) ([]entity.AuditLog, error)
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

// LogCreate logs a create action
func (s *auditService) LogCreate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, newValue interface{}) error {
	return s.write(tx, userID, action, entityName, entityID, entity.AuditMetadata{
		"old_value": nil,
		"new_value": newValue,
	})
}

// LogUpdate logs an update action with old and new values
func (s *auditService) LogUpdate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	return s.write(tx, userID, action, entityName, entityID, entity.AuditMetadata{
		"old_value": oldValue,
		"new_value": newValue,
	})
}

// LogTransition records an applied status change. No-op results are not logged.
func (s *auditService) LogTransition(ctx context.Context, tx *gorm.DB, appointment *entity.Appointment, result *entity.TransitionResult) error {
	if result == nil || !result.Changed {
		return nil
	}

	actorID := result.ActorID
	return s.write(tx, &actorID, entity.AuditActionAppointmentTransition, entity.AuditEntityAppointment, appointment.BookingID, entity.AuditMetadata{
		"trigger":   string(result.Trigger),
		"party":     string(result.ActorParty),
		"old_value": string(result.From),
		"new_value": string(result.To),
	})
}

func (s *auditService) History(ctx context.Context, db *gorm.DB, entityName string, entityID string) ([]entity.AuditLog, error) {
	logs, err := s.auditRepo.FindByEntity(db.WithContext(ctx), entityName, entityID)
	if err != nil {
		s.log.Warnf("Failed to find audit logs for %s %s: %+v", entityName, entityID, err)
		return nil, err
	}
	return logs, nil
}

func (s *auditService) write(tx *gorm.DB, userID *uuid.UUID, action, entityName, entityID string, metadata entity.AuditMetadata) error {
	auditLog := &entity.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityName: entityName,
		EntityID:   entityID,
		Metadata:   metadata,
	}

	if err := s.auditRepo.Create(tx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}
