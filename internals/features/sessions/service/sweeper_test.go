package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldclock_backend/internals/features/sessions/model"
)

// fakeSweepStore runs the pure transitions against an in-memory map.
type fakeSweepStore struct {
	sessions map[uuid.UUID]*model.ClockSessionModel
	failIDs  map[uuid.UUID]bool
	listErr  error
	calls    []uuid.UUID
}

func newFakeSweepStore() *fakeSweepStore {
	return &fakeSweepStore{
		sessions: map[uuid.UUID]*model.ClockSessionModel{},
		failIDs:  map[uuid.UUID]bool{},
	}
}

func (f *fakeSweepStore) add(clockIn time.Time, status string) uuid.UUID {
	id := uuid.New()
	f.sessions[id] = &model.ClockSessionModel{
		ID:          id,
		Status:      status,
		ClockInTime: clockIn,
	}
	return id
}

func (f *fakeSweepStore) ListActiveBefore(_ context.Context, cutoff time.Time) ([]model.ClockSessionModel, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.ClockSessionModel
	for _, s := range f.sessions {
		if s.Status == model.StatusActive && s.ClockInTime.Before(cutoff) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSweepStore) AutoClockOut(_ context.Context, sessionID uuid.UUID, reason string) (*model.ClockSessionModel, bool, error) {
	f.calls = append(f.calls, sessionID)
	if f.failIDs[sessionID] {
		return nil, false, errors.New("deadlock detected")
	}
	s, ok := f.sessions[sessionID]
	if !ok {
		return nil, false, ErrSessionNotFound
	}
	changed, err := ApplyAutoClockOut(s, reason, time.Now().UTC())
	return s, changed, err
}

func TestSweepTimeoutsClosesStale(t *testing.T) {
	now := time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)
	store := newFakeSweepStore()
	staleID := store.add(now.Add(-9*time.Hour), model.StatusActive)
	freshID := store.add(now.Add(-100*time.Minute), model.StatusActive)

	result, err := SweepTimeouts(context.Background(), store, now, 480*time.Minute, false)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Scanned)
	assert.Equal(t, 1, result.Closed)
	assert.Empty(t, result.Failed)

	stale := store.sessions[staleID]
	assert.Equal(t, model.StatusAutoClockedOut, stale.Status)
	require.NotNil(t, stale.AutoClockOutReason)
	assert.Equal(t, model.ReasonTimeout, *stale.AutoClockOutReason)
	assert.True(t, stale.RequiresReview)

	assert.Equal(t, model.StatusActive, store.sessions[freshID].Status)
}

func TestSweepTimeoutsNothingEligible(t *testing.T) {
	now := time.Now().UTC()
	store := newFakeSweepStore()
	store.add(now.Add(-time.Hour), model.StatusActive)
	store.add(now.Add(-10*time.Hour), model.StatusCompleted)

	result, err := SweepTimeouts(context.Background(), store, now, 480*time.Minute, false)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Scanned)
	assert.Equal(t, 0, result.Closed)
	assert.Empty(t, result.Failed)
	assert.Empty(t, store.calls)
}

func TestSweepTimeoutsIsolatesFailures(t *testing.T) {
	now := time.Now().UTC()
	store := newFakeSweepStore()
	okID := store.add(now.Add(-9*time.Hour), model.StatusActive)
	badID := store.add(now.Add(-9*time.Hour), model.StatusActive)
	ok2ID := store.add(now.Add(-9*time.Hour), model.StatusActive)
	store.failIDs[badID] = true

	result, err := SweepTimeouts(context.Background(), store, now, 480*time.Minute, false)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Scanned)
	assert.Equal(t, 2, result.Closed)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, badID, result.Failed[0].SessionID)
	assert.Contains(t, result.Failed[0].Error, "deadlock")

	assert.Equal(t, model.StatusAutoClockedOut, store.sessions[okID].Status)
	assert.Equal(t, model.StatusAutoClockedOut, store.sessions[ok2ID].Status)
	assert.Equal(t, model.StatusActive, store.sessions[badID].Status)
	assert.Len(t, store.calls, 3)
}

func TestSweepTimeoutsLostRaceNotCounted(t *testing.T) {
	now := time.Now().UTC()
	store := newFakeSweepStore()
	id := store.add(now.Add(-9*time.Hour), model.StatusActive)

	// A manual clock-out lands between the scan and the close.
	raced := &racingStore{fakeSweepStore: store, raceID: id}

	result, err := SweepTimeouts(context.Background(), raced, now, 480*time.Minute, false)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Scanned)
	assert.Equal(t, 0, result.Closed)
	assert.Empty(t, result.Failed)
}

type racingStore struct {
	*fakeSweepStore
	raceID uuid.UUID
}

func (r *racingStore) AutoClockOut(ctx context.Context, sessionID uuid.UUID, reason string) (*model.ClockSessionModel, bool, error) {
	if sessionID == r.raceID {
		r.sessions[sessionID].Status = model.StatusCompleted
	}
	return r.fakeSweepStore.AutoClockOut(ctx, sessionID, reason)
}

func TestSweepTimeoutsDryRun(t *testing.T) {
	now := time.Now().UTC()
	store := newFakeSweepStore()
	id := store.add(now.Add(-9*time.Hour), model.StatusActive)

	result, err := SweepTimeouts(context.Background(), store, now, 480*time.Minute, true)
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.Equal(t, 1, result.Scanned)
	assert.Equal(t, 0, result.Closed)
	assert.Empty(t, store.calls)
	assert.Equal(t, model.StatusActive, store.sessions[id].Status)
}

func TestSweepTimeoutsListError(t *testing.T) {
	store := newFakeSweepStore()
	store.listErr = errors.New("connection refused")

	_, err := SweepTimeouts(context.Background(), store, time.Now().UTC(), 480*time.Minute, false)
	assert.Error(t, err)
}
