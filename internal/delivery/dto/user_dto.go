package dto

import "github.com/google/uuid"

// UserSummary is the public face of a doctor or patient inside other responses
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Role     string    `json:"role"`
}

// CurrentUserResponse describes the authenticated caller
type CurrentUserResponse struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Role     string    `json:"role"`
	IsActive bool      `json:"is_active"`
}
