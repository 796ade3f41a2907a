package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldclock_backend/internals/features/sessions/model"
)

const thresholdMeters = 100.0

var baseTime = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newParams() ClockInParams {
	return ClockInParams{
		PractitionerID: uuid.New(),
		ClientID:       uuid.New(),
		Latitude:       40.7128,
		Longitude:      -74.0060,
		ServiceType:    "home_visit",
	}
}

func activeSession(t *testing.T) *model.ClockSessionModel {
	t.Helper()
	s, err := BuildClockIn(newParams(), 40.7128, -74.0060, thresholdMeters, baseTime)
	require.NoError(t, err)
	s.ID = uuid.New()
	return s
}

func TestBuildClockInAtClientSite(t *testing.T) {
	p := newParams()
	s, err := BuildClockIn(p, p.Latitude, p.Longitude, thresholdMeters, baseTime)
	require.NoError(t, err)

	assert.Equal(t, model.StatusActive, s.Status)
	assert.Equal(t, baseTime, s.ClockInTime)
	require.NotNil(t, s.DistanceFromClientMeters)
	assert.InDelta(t, 0, *s.DistanceFromClientMeters, 0.01)
	assert.True(t, s.LocationVerified)
	assert.False(t, s.RequiresReview)
	assert.Nil(t, s.DurationMinutes)
}

func TestBuildClockInBeyondThreshold(t *testing.T) {
	p := newParams()
	// ~200 m north of the client site.
	clientLat := p.Latitude - 200.0/111194.9
	s, err := BuildClockIn(p, clientLat, p.Longitude, thresholdMeters, baseTime)
	require.NoError(t, err)

	require.NotNil(t, s.DistanceFromClientMeters)
	assert.Greater(t, *s.DistanceFromClientMeters, thresholdMeters)
	assert.False(t, s.LocationVerified)
	assert.True(t, s.RequiresReview)
}

func TestBuildClockInExactlyAtThreshold(t *testing.T) {
	p := newParams()
	s, err := BuildClockIn(p, p.Latitude, p.Longitude, 0, baseTime)
	require.NoError(t, err)

	// Distance 0 against threshold 0: boundary is inclusive.
	assert.True(t, s.LocationVerified)
}

func TestBuildClockInRejectsBadCoordinates(t *testing.T) {
	p := newParams()
	p.Latitude = 91
	_, err := BuildClockIn(p, 40.0, -74.0, thresholdMeters, baseTime)
	assert.ErrorIs(t, err, ErrInvalidCoordinates)
}

func TestApplyClockOutComputesDuration(t *testing.T) {
	s := activeSession(t)
	out := baseTime.Add(90 * time.Minute)

	require.NoError(t, ApplyClockOut(s, 40.7130, -74.0061, nil, "done", out))

	assert.Equal(t, model.StatusCompleted, s.Status)
	require.NotNil(t, s.ClockOutTime)
	assert.Equal(t, out, *s.ClockOutTime)
	require.NotNil(t, s.DurationMinutes)
	assert.Equal(t, 90, *s.DurationMinutes)
	assert.Equal(t, "done", s.SessionNotes)
}

func TestApplyClockOutSameMinute(t *testing.T) {
	s := activeSession(t)
	require.NoError(t, ApplyClockOut(s, 40.7128, -74.0060, nil, "", baseTime.Add(30*time.Second)))

	require.NotNil(t, s.DurationMinutes)
	assert.Equal(t, 0, *s.DurationMinutes)
}

func TestApplyClockOutFlooredNotRounded(t *testing.T) {
	s := activeSession(t)
	require.NoError(t, ApplyClockOut(s, 40.7128, -74.0060, nil, "", baseTime.Add(2*time.Minute+59*time.Second)))

	require.NotNil(t, s.DurationMinutes)
	assert.Equal(t, 2, *s.DurationMinutes)
}

func TestApplyClockOutKeepsClockInVerification(t *testing.T) {
	p := newParams()
	s, err := BuildClockIn(p, p.Latitude, p.Longitude, thresholdMeters, baseTime)
	require.NoError(t, err)
	distance := *s.DistanceFromClientMeters

	// Clock out far away; the open-time verdict must survive.
	require.NoError(t, ApplyClockOut(s, 34.0522, -118.2437, nil, "", baseTime.Add(time.Hour)))
	assert.True(t, s.LocationVerified)
	assert.Equal(t, distance, *s.DistanceFromClientMeters)
}

func TestApplyClockOutOnClosedSession(t *testing.T) {
	s := activeSession(t)
	s.Status = model.StatusCompleted
	err := ApplyClockOut(s, 40.7128, -74.0060, nil, "", baseTime.Add(time.Hour))
	assert.ErrorIs(t, err, ErrSessionNotActive)
}

func TestApplyClockOutRejectsBadCoordinates(t *testing.T) {
	s := activeSession(t)
	err := ApplyClockOut(s, 40.7128, -181, nil, "", baseTime.Add(time.Hour))
	assert.ErrorIs(t, err, ErrInvalidCoordinates)
	assert.Equal(t, model.StatusActive, s.Status)
}

func TestApplyAutoClockOut(t *testing.T) {
	s := activeSession(t)
	out := baseTime.Add(8 * time.Hour)

	changed, err := ApplyAutoClockOut(s, model.ReasonTimeout, out)
	require.NoError(t, err)
	assert.True(t, changed)

	assert.Equal(t, model.StatusAutoClockedOut, s.Status)
	require.NotNil(t, s.AutoClockOutReason)
	assert.Equal(t, model.ReasonTimeout, *s.AutoClockOutReason)
	assert.True(t, s.RequiresReview)
	require.NotNil(t, s.DurationMinutes)
	assert.Equal(t, 480, *s.DurationMinutes)
	assert.Nil(t, s.ClockOutLatitude)
	assert.Nil(t, s.ClockOutLongitude)
}

func TestApplyAutoClockOutOnClosedSessionIsNoop(t *testing.T) {
	s := activeSession(t)
	closedAt := baseTime.Add(time.Hour)
	require.NoError(t, ApplyClockOut(s, 40.7128, -74.0060, nil, "", closedAt))

	changed, err := ApplyAutoClockOut(s, model.ReasonTimeout, baseTime.Add(9*time.Hour))
	require.NoError(t, err)
	assert.False(t, changed)

	// Untouched: still a normal completion.
	assert.Equal(t, model.StatusCompleted, s.Status)
	assert.Equal(t, closedAt, *s.ClockOutTime)
	assert.Equal(t, 60, *s.DurationMinutes)
	assert.Nil(t, s.AutoClockOutReason)
}

func TestApplyAutoClockOutInvalidReason(t *testing.T) {
	s := activeSession(t)
	changed, err := ApplyAutoClockOut(s, "fell_asleep", baseTime.Add(time.Hour))
	assert.ErrorIs(t, err, ErrInvalidReason)
	assert.False(t, changed)
	assert.Equal(t, model.StatusActive, s.Status)
}

func TestApplyEmergencyClose(t *testing.T) {
	s := activeSession(t)
	s.SessionNotes = "routine visit"

	changed, err := ApplyEmergencyClose(s, "", "client fall, ambulance called", baseTime.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, changed)

	assert.Equal(t, model.StatusAutoClockedOut, s.Status)
	require.NotNil(t, s.AutoClockOutReason)
	assert.Equal(t, model.ReasonEmergency, *s.AutoClockOutReason)
	assert.Equal(t, "routine visit\n\nEmergency notes: client fall, ambulance called", s.SessionNotes)
}

func TestApplyEmergencyCloseExplicitReason(t *testing.T) {
	s := activeSession(t)
	changed, err := ApplyEmergencyClose(s, model.ReasonGPSLost, "", baseTime.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, model.ReasonGPSLost, *s.AutoClockOutReason)
}

func TestApplyCancelLeavesDurationNull(t *testing.T) {
	s := activeSession(t)
	require.NoError(t, ApplyCancel(s, baseTime.Add(time.Hour)))

	assert.Equal(t, model.StatusCancelled, s.Status)
	require.NotNil(t, s.ClockOutTime)
	assert.Nil(t, s.DurationMinutes)
}

func TestApplyCancelOnClosedSession(t *testing.T) {
	s := activeSession(t)
	s.Status = model.StatusAutoClockedOut
	assert.ErrorIs(t, ApplyCancel(s, baseTime.Add(time.Hour)), ErrSessionNotActive)
}

func TestApplyReview(t *testing.T) {
	s := activeSession(t)
	require.NoError(t, ApplyClockOut(s, 40.7128, -74.0060, nil, "", baseTime.Add(time.Hour)))
	s.RequiresReview = true

	reviewer := uuid.New()
	reviewedAt := baseTime.Add(2 * time.Hour)
	require.NoError(t, ApplyReview(s, false, reviewer, "checked with client", reviewedAt))

	assert.False(t, s.RequiresReview)
	require.NotNil(t, s.ReviewedByID)
	assert.Equal(t, reviewer, *s.ReviewedByID)
	require.NotNil(t, s.ReviewedAt)
	assert.Equal(t, reviewedAt, *s.ReviewedAt)
	assert.Contains(t, s.SessionNotes, "Review notes: checked with client")
}

func TestApplyReviewOnActiveSession(t *testing.T) {
	s := activeSession(t)
	err := ApplyReview(s, false, uuid.New(), "", baseTime.Add(time.Hour))
	assert.ErrorIs(t, err, ErrSessionStillActive)
}

func TestCanAppendSample(t *testing.T) {
	s := activeSession(t)
	assert.NoError(t, CanAppendSample(s))

	s.Status = model.StatusCompleted
	assert.ErrorIs(t, CanAppendSample(s), ErrSessionNotActive)
}
