package controller

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveStatsEndDefaultShowsToday(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

	bound, display := resolveStatsEnd("", now)
	assert.Equal(t, now, bound)
	assert.Equal(t, "2026-03-10", display.Format("2006-01-02"))
}

func TestResolveStatsEndExplicitDateInclusive(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

	bound, display := resolveStatsEnd("2026-03-01", now)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), bound)
	assert.Equal(t, "2026-03-01", display.Format("2006-01-02"))
}

func TestResolveStatsEndBadParamFallsBack(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

	bound, display := resolveStatsEnd("not-a-date", now)
	assert.Equal(t, now, bound)
	assert.Equal(t, now, display)
}
