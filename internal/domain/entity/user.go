package entity

import (
	"time"

	"github.com/google/uuid"
)

// Account roles as stored in users.role_id
const (
	RoleIDAdmin   = 1
	RoleIDDoctor  = 2
	RoleIDPatient = 3
)

// User is the shared account row owned by the identity service.
// The lifecycle engine only reads it to resolve doctors and display names.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RoleID    int       `gorm:"not null;index" json:"role_id"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FullName  string    `gorm:"type:varchar(255);not null" json:"full_name"`
	IsActive  bool      `gorm:"not null;index" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsDoctor() bool {
	return u.RoleID == RoleIDDoctor
}

func (u *User) IsPatient() bool {
	return u.RoleID == RoleIDPatient
}

// RoleName returns the wire name of a role id, or "unknown"
func RoleName(roleID int) string {
	switch roleID {
	case RoleIDAdmin:
		return "admin"
	case RoleIDDoctor:
		return "doctor"
	case RoleIDPatient:
		return "patient"
	}
	return "unknown"
}
