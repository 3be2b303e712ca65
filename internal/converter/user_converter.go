package converter

import (
	"telemedicine-core/internal/delivery/dto"
	"telemedicine-core/internal/domain/entity"
)

// UserToSummary converts a User entity to UserSummary DTO
func UserToSummary(user *entity.User) *dto.UserSummary {
	if user == nil {
		return nil
	}

	return &dto.UserSummary{
		ID:       user.ID,
		FullName: user.FullName,
		Role:     entity.RoleName(user.RoleID),
	}
}

func displayName(user *entity.User) string {
	if user == nil {
		return ""
	}
	return user.FullName
}

func UserToCurrentUserResponse(user *entity.User) *dto.CurrentUserResponse {
	if user == nil {
		return nil
	}

	return &dto.CurrentUserResponse{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     entity.RoleName(user.RoleID),
		IsActive: user.IsActive,
	}
}
