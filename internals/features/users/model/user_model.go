package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	RolePractitioner = "practitioner"
	RoleSupervisor   = "supervisor"
	RoleAdmin        = "admin"
)

// UserModel represents the practitioners (and supervisors) table.
type UserModel struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FullName string    `gorm:"size:200;not null" json:"full_name"`
	Email    string    `gorm:"size:255;unique;not null" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Role     string    `gorm:"type:varchar(20);not null;default:'practitioner'" json:"role"`
	IsActive bool      `gorm:"not null;default:true" json:"is_active"`

	// Last known position, refreshed by session location updates. Used by
	// the safety-monitoring dashboard, never by verification.
	CurrentLatitude    *float64   `gorm:"type:double precision" json:"current_latitude,omitempty"`
	CurrentLongitude   *float64   `gorm:"type:double precision" json:"current_longitude,omitempty"`
	LastLocationUpdate *time.Time `json:"last_location_update,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserModel) TableName() string { return "users" }

// ElevatedRole reports whether a role may see every practitioner's data.
func ElevatedRole(role string) bool {
	return role == RoleSupervisor || role == RoleAdmin
}
