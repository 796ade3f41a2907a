package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session statuses. active is the only non-terminal state.
const (
	StatusActive         = "active"
	StatusCompleted      = "completed"
	StatusAutoClockedOut = "auto_clocked_out"
	StatusCancelled      = "cancelled"
)

// Auto clock-out reasons.
const (
	ReasonTimeout           = "timeout"
	ReasonGPSLost           = "gps_lost"
	ReasonInternetLost      = "internet_lost"
	ReasonSystemMaintenance = "system_maintenance"
	ReasonEmergency         = "emergency"
)

// AutoClockOutReasons lists the reasons the sweeper or a client may supply.
// Emergency is reserved for the practitioner-triggered variant.
var AutoClockOutReasons = map[string]bool{
	ReasonTimeout:           true,
	ReasonGPSLost:           true,
	ReasonInternetLost:      true,
	ReasonSystemMaintenance: true,
	ReasonEmergency:         true,
}

// ClockSessionModel is one attendance session of a practitioner at a client
// site. A session is created by clock-in, closed exactly once by clock-out,
// auto clock-out, or cancel, and after that only the review fields may move.
//
// The partial unique index on practitioner_id enforces at most one active
// session per practitioner at the database level.
type ClockSessionModel struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PractitionerID uuid.UUID `gorm:"type:uuid;not null;index:idx_clock_sessions_practitioner;uniqueIndex:uq_clock_sessions_one_active,where:status = 'active'" json:"practitioner_id"`
	ClientID       uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`

	Status string `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`

	ClockInTime      time.Time `gorm:"not null;index" json:"clock_in_time"`
	ClockInLatitude  float64   `gorm:"type:double precision;not null" json:"clock_in_latitude"`
	ClockInLongitude float64   `gorm:"type:double precision;not null" json:"clock_in_longitude"`
	ClockInAccuracy  *float64  `json:"clock_in_accuracy,omitempty"`

	ClockOutTime      *time.Time `json:"clock_out_time,omitempty"`
	ClockOutLatitude  *float64   `gorm:"type:double precision" json:"clock_out_latitude,omitempty"`
	ClockOutLongitude *float64   `gorm:"type:double precision" json:"clock_out_longitude,omitempty"`
	ClockOutAccuracy  *float64   `json:"clock_out_accuracy,omitempty"`

	DurationMinutes *int `json:"duration_minutes,omitempty"`

	// Distance between clock-in position and the client site, measured once
	// at clock-in. The client's coordinates are immutable, so this is never
	// recomputed.
	DistanceFromClientMeters *float64 `json:"distance_from_client_meters,omitempty"`
	LocationVerified         bool     `gorm:"not null;default:false" json:"location_verified"`
	RequiresReview           bool     `gorm:"not null;default:false;index" json:"requires_review"`

	AutoClockOutReason *string `gorm:"type:varchar(100)" json:"auto_clock_out_reason,omitempty"`

	SessionNotes string `gorm:"type:text" json:"session_notes,omitempty"`
	ServiceType  string `gorm:"type:varchar(100)" json:"service_type,omitempty"`

	ReviewedByID *uuid.UUID `gorm:"type:uuid" json:"reviewed_by_id,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ClockSessionModel) TableName() string { return "clock_sessions" }

func (s *ClockSessionModel) IsActive() bool { return s.Status == StatusActive }

// DurationDisplay renders the duration as "Xh Ym" for list views.
func (s *ClockSessionModel) DurationDisplay() string {
	if s.DurationMinutes == nil {
		return "0h 0m"
	}
	return fmt.Sprintf("%dh %dm", *s.DurationMinutes/60, *s.DurationMinutes%60)
}
