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

// fakeSampleStore deletes with the same strict timestamp < cutoff predicate
// the production delete uses.
type fakeSampleStore struct {
	samples   []model.SessionLocationUpdateModel
	deleteErr error
}

func (f *fakeSampleStore) add(ts time.Time) uuid.UUID {
	id := uuid.New()
	f.samples = append(f.samples, model.SessionLocationUpdateModel{
		ID:        id,
		SessionID: uuid.New(),
		Timestamp: ts,
	})
	return id
}

func (f *fakeSampleStore) DeleteSamplesBefore(_ context.Context, cutoff time.Time) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	var kept []model.SessionLocationUpdateModel
	var removed int64
	for _, s := range f.samples {
		if s.Timestamp.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	f.samples = kept
	return removed, nil
}

func TestPruneSamplesRemovesExactlyOldOnes(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := &fakeSampleStore{}
	store.add(now.AddDate(0, 0, -31))
	store.add(now.AddDate(0, 0, -45))
	atCutoffID := store.add(now.AddDate(0, 0, -30))
	freshID := store.add(now.Add(-time.Hour))

	removed, err := PruneSamples(context.Background(), store, now, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	// A sample exactly at the cutoff survives, along with the fresh one.
	require.Len(t, store.samples, 2)
	ids := []uuid.UUID{store.samples[0].ID, store.samples[1].ID}
	assert.Contains(t, ids, atCutoffID)
	assert.Contains(t, ids, freshID)
}

func TestPruneSamplesIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := &fakeSampleStore{}
	store.add(now.AddDate(0, 0, -31))

	removed, err := PruneSamples(context.Background(), store, now, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	removed, err = PruneSamples(context.Background(), store, now, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(0), removed)
}

func TestPruneSamplesNothingEligible(t *testing.T) {
	now := time.Now().UTC()
	store := &fakeSampleStore{}
	store.add(now.Add(-time.Minute))

	removed, err := PruneSamples(context.Background(), store, now, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(0), removed)
	assert.Len(t, store.samples, 1)
}

func TestPruneSamplesStoreError(t *testing.T) {
	store := &fakeSampleStore{deleteErr: errors.New("connection refused")}

	_, err := PruneSamples(context.Background(), store, time.Now().UTC(), 30)
	assert.Error(t, err)
}
