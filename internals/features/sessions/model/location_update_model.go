package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SessionLocationUpdateModel is one periodic location ping during an active
// session, kept for safety monitoring. Rows outlive their session's close
// and are pruned by retention age, not by session state.
type SessionLocationUpdateModel struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index:idx_location_updates_session_ts,priority:1" json:"session_id"`

	Timestamp time.Time `gorm:"autoCreateTime;index:idx_location_updates_session_ts,priority:2;index" json:"timestamp"`

	Latitude  float64  `gorm:"type:double precision;not null" json:"latitude"`
	Longitude float64  `gorm:"type:double precision;not null" json:"longitude"`
	Accuracy  *float64 `json:"accuracy,omitempty"`

	BatteryLevel *int `json:"battery_level,omitempty"`

	// Free-form device metadata (provider, platform, app version).
	DeviceInfo datatypes.JSONMap `gorm:"type:jsonb" json:"device_info,omitempty"`
}

func (SessionLocationUpdateModel) TableName() string { return "session_location_updates" }
