package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"fieldclock_backend/internals/features/sessions/model"
)

type ClockInRequest struct {
	ClientID    uuid.UUID `json:"client_id" validate:"required"`
	Latitude    float64   `json:"latitude" validate:"min=-90,max=90"`
	Longitude   float64   `json:"longitude" validate:"min=-180,max=180"`
	Accuracy    *float64  `json:"accuracy" validate:"omitempty,min=0"`
	ServiceType string    `json:"service_type" validate:"omitempty,oneof=counseling assessment crisis_intervention case_management family_therapy group_therapy other"`
	Notes       string    `json:"notes"`
}

type ClockOutRequest struct {
	Latitude  float64  `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64  `json:"longitude" validate:"min=-180,max=180"`
	Accuracy  *float64 `json:"accuracy" validate:"omitempty,min=0"`
	Notes     string   `json:"notes"`
}

type LocationUpdateRequest struct {
	Latitude     float64           `json:"latitude" validate:"min=-90,max=90"`
	Longitude    float64           `json:"longitude" validate:"min=-180,max=180"`
	Accuracy     *float64          `json:"accuracy" validate:"omitempty,min=0"`
	BatteryLevel *int              `json:"battery_level" validate:"omitempty,min=0,max=100"`
	DeviceInfo   datatypes.JSONMap `json:"device_info"`
}

type EmergencyEndRequest struct {
	Reason string `json:"reason" validate:"omitempty,oneof=emergency timeout gps_lost internet_lost system_maintenance"`
	Notes  string `json:"notes"`
}

type AutoClockOutRequest struct {
	Reason string `json:"reason" validate:"required,oneof=timeout gps_lost internet_lost system_maintenance"`
}

type ReviewRequest struct {
	RequiresReview *bool  `json:"requires_review" validate:"required"`
	Notes          string `json:"notes"`
}

type SweepRequest struct {
	TimeoutMinutes int  `json:"timeout_minutes" validate:"omitempty,min=1"`
	DryRun         bool `json:"dry_run"`
}

type SessionResponse struct {
	ID             uuid.UUID `json:"id"`
	PractitionerID uuid.UUID `json:"practitioner_id"`
	ClientID       uuid.UUID `json:"client_id"`
	Status         string    `json:"status"`

	ClockInTime      time.Time `json:"clock_in_time"`
	ClockInLatitude  float64   `json:"clock_in_latitude"`
	ClockInLongitude float64   `json:"clock_in_longitude"`
	ClockInAccuracy  *float64  `json:"clock_in_accuracy,omitempty"`

	ClockOutTime      *time.Time `json:"clock_out_time,omitempty"`
	ClockOutLatitude  *float64   `json:"clock_out_latitude,omitempty"`
	ClockOutLongitude *float64   `json:"clock_out_longitude,omitempty"`
	ClockOutAccuracy  *float64   `json:"clock_out_accuracy,omitempty"`

	DurationMinutes *int   `json:"duration_minutes,omitempty"`
	DurationDisplay string `json:"duration_display"`

	DistanceFromClientMeters *float64 `json:"distance_from_client_meters,omitempty"`
	LocationVerified         bool     `json:"location_verified"`
	RequiresReview           bool     `json:"requires_review"`
	AutoClockOutReason       *string  `json:"auto_clock_out_reason,omitempty"`

	SessionNotes string `json:"session_notes,omitempty"`
	ServiceType  string `json:"service_type,omitempty"`

	ReviewedByID *uuid.UUID `json:"reviewed_by_id,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func ToSessionResponse(s *model.ClockSessionModel) SessionResponse {
	return SessionResponse{
		ID:                       s.ID,
		PractitionerID:           s.PractitionerID,
		ClientID:                 s.ClientID,
		Status:                   s.Status,
		ClockInTime:              s.ClockInTime,
		ClockInLatitude:          s.ClockInLatitude,
		ClockInLongitude:         s.ClockInLongitude,
		ClockInAccuracy:          s.ClockInAccuracy,
		ClockOutTime:             s.ClockOutTime,
		ClockOutLatitude:         s.ClockOutLatitude,
		ClockOutLongitude:        s.ClockOutLongitude,
		ClockOutAccuracy:         s.ClockOutAccuracy,
		DurationMinutes:          s.DurationMinutes,
		DurationDisplay:          s.DurationDisplay(),
		DistanceFromClientMeters: s.DistanceFromClientMeters,
		LocationVerified:         s.LocationVerified,
		RequiresReview:           s.RequiresReview,
		AutoClockOutReason:       s.AutoClockOutReason,
		SessionNotes:             s.SessionNotes,
		ServiceType:              s.ServiceType,
		ReviewedByID:             s.ReviewedByID,
		ReviewedAt:               s.ReviewedAt,
		CreatedAt:                s.CreatedAt,
	}
}

func ToSessionResponses(sessions []model.ClockSessionModel) []SessionResponse {
	out := make([]SessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, ToSessionResponse(&sessions[i]))
	}
	return out
}

type StatisticsResponse struct {
	Period     StatisticsPeriod `json:"period"`
	Statistics SessionStats     `json:"statistics"`
}

type StatisticsPeriod struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type SessionStats struct {
	TotalSessions           int64   `json:"total_sessions"`
	CompletedSessions       int64   `json:"completed_sessions"`
	ActiveSessions          int64   `json:"active_sessions"`
	AutoClockedOut          int64   `json:"auto_clocked_out"`
	SessionsRequiringReview int64   `json:"sessions_requiring_review"`
	TotalHours              float64 `json:"total_hours"`
	AverageSessionMinutes   float64 `json:"average_session_minutes"`
}
