package repository

import (
	"telemedicine-core/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error)
	FindActiveDoctor(db *gorm.DB, id uuid.UUID) (*entity.User, error)
}
