package dto

import (
	"time"

	"github.com/google/uuid"

	"fieldclock_backend/internals/features/users/model"
)

type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required,min=3,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	IsActive bool      `json:"is_active"`

	CurrentLatitude    *float64   `json:"current_latitude,omitempty"`
	CurrentLongitude   *float64   `json:"current_longitude,omitempty"`
	LastLocationUpdate *time.Time `json:"last_location_update,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

func ToUserResponse(u *model.UserModel) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		FullName:           u.FullName,
		Email:              u.Email,
		Role:               u.Role,
		IsActive:           u.IsActive,
		CurrentLatitude:    u.CurrentLatitude,
		CurrentLongitude:   u.CurrentLongitude,
		LastLocationUpdate: u.LastLocationUpdate,
		CreatedAt:          u.CreatedAt,
	}
}
