package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMetersSymmetry(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
	}{
		{"city blocks", 40.7128, -74.0060, 40.7138, -74.0050},
		{"cross hemisphere", -33.8688, 151.2093, 51.5074, -0.1278},
		{"across date line", 64.0, 179.9, 64.0, -179.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ab := DistanceMeters(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			ba := DistanceMeters(tt.lat2, tt.lon2, tt.lat1, tt.lon1)
			assert.InDelta(t, ab, ba, 1e-9)
		})
	}
}

func TestDistanceMetersIdenticalPoints(t *testing.T) {
	d := DistanceMeters(40.7128, -74.0060, 40.7128, -74.0060)
	assert.InDelta(t, 0, d, 1e-6)
}

func TestDistanceMetersOneDegreeLatitude(t *testing.T) {
	// One degree of latitude is about 111 km; allow 1%.
	d := DistanceMeters(40.0, -74.0, 41.0, -74.0)
	assert.InDelta(t, 111000, d, 111000*0.01)
}

func TestDistanceMetersKnownPair(t *testing.T) {
	// NYC to LA, roughly 3936 km great-circle.
	d := DistanceMeters(40.7128, -74.0060, 34.0522, -118.2437)
	assert.InDelta(t, 3936000, d, 3936000*0.01)
}

func TestBoundingBoxIsSuperset(t *testing.T) {
	lat, lon, radiusKm := 40.7128, -74.0060, 5.0
	minLat, maxLat, minLon, maxLon := BoundingBox(lat, lon, radiusKm)

	// Points on the radius circle in the four cardinal directions must fall
	// inside the box.
	latDelta := radiusKm / 111.0
	lonDelta := radiusKm / (111.0 * math.Cos(lat*math.Pi/180))
	assert.LessOrEqual(t, minLat, lat-latDelta)
	assert.GreaterOrEqual(t, maxLat, lat+latDelta)
	assert.LessOrEqual(t, minLon, lon-lonDelta)
	assert.GreaterOrEqual(t, maxLon, lon+lonDelta)

	assert.Less(t, minLat, lat)
	assert.Greater(t, maxLat, lat)
	assert.Less(t, minLon, lon)
	assert.Greater(t, maxLon, lon)
}

func TestBoundingBoxNearPole(t *testing.T) {
	// cos(90°) is numerically zero; the longitude delta must stay finite.
	minLat, maxLat, minLon, maxLon := BoundingBox(90.0, 0.0, 5.0)
	assert.False(t, math.IsInf(minLon, 0))
	assert.False(t, math.IsInf(maxLon, 0))
	assert.False(t, math.IsNaN(minLon))
	assert.Equal(t, -180.0, minLon)
	assert.Equal(t, 180.0, maxLon)
	assert.Less(t, minLat, maxLat)
}

func TestValidCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		want     bool
	}{
		{"valid", 40.7, -74.0, true},
		{"lat too high", 90.1, 0, false},
		{"lat too low", -90.1, 0, false},
		{"lon too high", 0, 180.1, false},
		{"lon too low", 0, -180.1, false},
		{"boundary", 90, -180, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidCoordinates(tt.lat, tt.lon))
		})
	}
}
