package service

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"fieldclock_backend/internals/features/sessions/model"
	"fieldclock_backend/internals/helpers/geo"
)

// Pure state transitions. One function per transition, each computing exactly
// the fields that transition owns — nothing here is recomputed "on save".
// Persistence wraps these in lifecycle_service.go.

// ClockInParams carries everything a clock-in needs.
type ClockInParams struct {
	PractitionerID uuid.UUID
	ClientID       uuid.UUID
	Latitude       float64
	Longitude      float64
	Accuracy       *float64
	ServiceType    string
	Notes          string
}

// BuildClockIn creates a new active session, computing the distance to the
// client site and the verification flags. Verification is an open-time check
// only: it answers "were they at the right place when they started".
func BuildClockIn(p ClockInParams, clientLat, clientLon, thresholdMeters float64, now time.Time) (*model.ClockSessionModel, error) {
	if !geo.ValidCoordinates(p.Latitude, p.Longitude) {
		return nil, ErrInvalidCoordinates
	}

	distance := geo.DistanceMeters(p.Latitude, p.Longitude, clientLat, clientLon)
	verified := distance <= thresholdMeters

	return &model.ClockSessionModel{
		PractitionerID:           p.PractitionerID,
		ClientID:                 p.ClientID,
		Status:                   model.StatusActive,
		ClockInTime:              now,
		ClockInLatitude:          p.Latitude,
		ClockInLongitude:         p.Longitude,
		ClockInAccuracy:          p.Accuracy,
		DistanceFromClientMeters: &distance,
		LocationVerified:         verified,
		RequiresReview:           !verified,
		SessionNotes:             strings.TrimSpace(p.Notes),
		ServiceType:              p.ServiceType,
	}, nil
}

// ApplyClockOut closes an active session with a fresh position fix. Distance
// and verification are deliberately left as computed at clock-in.
func ApplyClockOut(s *model.ClockSessionModel, lat, lon float64, accuracy *float64, notes string, now time.Time) error {
	if !s.IsActive() {
		return ErrSessionNotActive
	}
	if !geo.ValidCoordinates(lat, lon) {
		return ErrInvalidCoordinates
	}

	s.Status = model.StatusCompleted
	s.ClockOutTime = &now
	s.ClockOutLatitude = &lat
	s.ClockOutLongitude = &lon
	s.ClockOutAccuracy = accuracy
	s.DurationMinutes = durationMinutesPtr(s.ClockInTime, now)
	if notes = strings.TrimSpace(notes); notes != "" {
		appendNote(s, notes)
	}
	return nil
}

// ApplyAutoClockOut closes an active session without a position fix and
// flags it for review. Returns false without touching the session when it is
// already closed — the sweeper may race a manual clock-out, and losing that
// race is a no-op, not an error.
func ApplyAutoClockOut(s *model.ClockSessionModel, reason string, now time.Time) (bool, error) {
	if !model.AutoClockOutReasons[reason] {
		return false, ErrInvalidReason
	}
	if !s.IsActive() {
		return false, nil
	}

	s.Status = model.StatusAutoClockedOut
	s.ClockOutTime = &now
	s.DurationMinutes = durationMinutesPtr(s.ClockInTime, now)
	s.AutoClockOutReason = &reason
	s.RequiresReview = true
	return true, nil
}

// ApplyEmergencyClose is the practitioner-triggered auto clock-out variant:
// same effects, reason defaults to emergency, and the operator note is kept
// distinctly tagged.
func ApplyEmergencyClose(s *model.ClockSessionModel, reason, notes string, now time.Time) (bool, error) {
	if reason == "" {
		reason = model.ReasonEmergency
	}
	changed, err := ApplyAutoClockOut(s, reason, now)
	if err != nil || !changed {
		return changed, err
	}
	if notes = strings.TrimSpace(notes); notes != "" {
		appendNote(s, "Emergency notes: "+notes)
	}
	return true, nil
}

// ApplyCancel terminates an active session administratively. Duration is
// meaningless for a cancelled session and stays NULL.
func ApplyCancel(s *model.ClockSessionModel, now time.Time) error {
	if !s.IsActive() {
		return ErrSessionNotActive
	}
	s.Status = model.StatusCancelled
	s.ClockOutTime = &now
	return nil
}

// ApplyReview stamps the supervisor audit fields on a terminal-state
// session. The only post-close mutation the lifecycle allows.
func ApplyReview(s *model.ClockSessionModel, flag bool, reviewerID uuid.UUID, notes string, now time.Time) error {
	if s.IsActive() {
		return ErrSessionStillActive
	}
	s.RequiresReview = flag
	s.ReviewedByID = &reviewerID
	s.ReviewedAt = &now
	if notes = strings.TrimSpace(notes); notes != "" {
		appendNote(s, "Review notes: "+notes)
	}
	return nil
}

// CanAppendSample is the precondition for location pings: active sessions
// only. A client racing a clock-out gets told to stop, not silently dropped.
func CanAppendSample(s *model.ClockSessionModel) error {
	if !s.IsActive() {
		return ErrSessionNotActive
	}
	return nil
}

// durationMinutesPtr floors whole elapsed seconds to minutes. A session
// closed within the minute it was opened has duration 0.
func durationMinutesPtr(in, out time.Time) *int {
	secs := int(out.Sub(in).Seconds())
	if secs < 0 {
		secs = 0
	}
	mins := secs / 60
	return &mins
}

func appendNote(s *model.ClockSessionModel, note string) {
	if s.SessionNotes == "" {
		s.SessionNotes = note
		return
	}
	s.SessionNotes = s.SessionNotes + "\n\n" + note
}
