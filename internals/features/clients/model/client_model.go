package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ClientModel represents a client site practitioners visit. Coordinates are
// fixed for verification purposes; only the active flag toggles.
type ClientModel struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ClientCode string    `gorm:"size:20;unique;not null" json:"client_code"`
	FirstName  string    `gorm:"size:100;not null" json:"first_name"`
	LastName   string    `gorm:"size:100;not null" json:"last_name"`
	Phone      string    `gorm:"size:17" json:"phone,omitempty"`
	Email      string    `gorm:"size:255" json:"email,omitempty"`

	StreetAddress string `gorm:"size:255;not null" json:"street_address"`
	City          string `gorm:"size:100;not null" json:"city"`
	State         string `gorm:"size:50;not null" json:"state"`
	ZipCode       string `gorm:"size:10;not null" json:"zip_code"`

	// double precision keeps ~15 significant digits, comfortably past the
	// 7 decimal places verification needs.
	Latitude  float64 `gorm:"type:double precision;not null;index:idx_clients_lat_lon" json:"latitude"`
	Longitude float64 `gorm:"type:double precision;not null;index:idx_clients_lat_lon" json:"longitude"`

	IsActive  bool   `gorm:"not null;default:true;index" json:"is_active"`
	CareLevel string `gorm:"size:50;not null;default:'medium'" json:"care_level"`

	SpecialInstructions string         `gorm:"type:text" json:"special_instructions,omitempty"`
	AccessInstructions  string         `gorm:"type:text" json:"access_instructions,omitempty"`
	SafetyFlags         pq.StringArray `gorm:"type:text[]" json:"safety_flags,omitempty"`

	EmergencyContactName  string `gorm:"size:100" json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string `gorm:"size:17" json:"emergency_contact_phone,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ClientModel) TableName() string { return "clients" }

func (m *ClientModel) FullName() string {
	return m.FirstName + " " + m.LastName
}
