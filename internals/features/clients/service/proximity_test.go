package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldclock_backend/internals/features/clients/model"
	"fieldclock_backend/internals/helpers/geo"
)

const (
	queryLat = 40.7128
	queryLon = -74.0060

	// Degrees of latitude per kilometer on a 6371 km sphere.
	degPerKm = 1.0 / 111.1949
)

func clientAt(id string, lat, lon float64) model.ClientModel {
	return model.ClientModel{
		ID:        uuid.MustParse(id),
		FirstName: "Test",
		LastName:  "Client",
		Latitude:  lat,
		Longitude: lon,
		IsActive:  true,
	}
}

func TestFindNearbyRadiusCut(t *testing.T) {
	near := clientAt("11111111-1111-1111-1111-111111111111", queryLat+4.9*degPerKm, queryLon)
	edge := clientAt("22222222-2222-2222-2222-222222222222", queryLat+4.99*degPerKm, queryLon)
	out := clientAt("33333333-3333-3333-3333-333333333333", queryLat+5.1*degPerKm, queryLon)

	// Sanity-check the constructed distances.
	require.InDelta(t, 4900, geo.DistanceMeters(queryLat, queryLon, near.Latitude, near.Longitude), 20)
	require.InDelta(t, 5100, geo.DistanceMeters(queryLat, queryLon, out.Latitude, out.Longitude), 20)

	hits := FindNearby(queryLat, queryLon, 5.0, []model.ClientModel{out, edge, near})

	require.Len(t, hits, 2)
	assert.Equal(t, near.ID, hits[0].Client.ID)
	assert.Equal(t, edge.ID, hits[1].Client.ID)
	assert.Less(t, hits[0].DistanceMeters, hits[1].DistanceMeters)
}

func TestFindNearbyExcludesBoxCorner(t *testing.T) {
	// A candidate in the corner of the 5 km bounding box is ~7 km away by
	// true distance and must be cut even though the box pre-filter keeps it.
	minLat, maxLat, _, maxLon := geo.BoundingBox(queryLat, queryLon, 5.0)
	corner := clientAt("44444444-4444-4444-4444-444444444444", maxLat, maxLon)
	require.GreaterOrEqual(t, corner.Latitude, minLat)

	d := geo.DistanceMeters(queryLat, queryLon, corner.Latitude, corner.Longitude)
	require.Greater(t, d, 5000.0)

	hits := FindNearby(queryLat, queryLon, 5.0, []model.ClientModel{corner})
	assert.Empty(t, hits)
}

func TestFindNearbyTieOrderIsDeterministic(t *testing.T) {
	// Two candidates at the same distance east and west of the query point.
	offset := 2.0 * degPerKm
	west := clientAt("aaaaaaaa-0000-0000-0000-000000000001", queryLat+offset, queryLon)
	east := clientAt("aaaaaaaa-0000-0000-0000-000000000002", queryLat-offset, queryLon)

	first := FindNearby(queryLat, queryLon, 5.0, []model.ClientModel{west, east})
	second := FindNearby(queryLat, queryLon, 5.0, []model.ClientModel{east, west})

	require.Len(t, first, 2)
	require.Len(t, second, 2)
	// Same order regardless of input order.
	assert.Equal(t, first[0].Client.ID, second[0].Client.ID)
	assert.Equal(t, first[1].Client.ID, second[1].Client.ID)
}

func TestFindNearbyEmptyCandidates(t *testing.T) {
	hits := FindNearby(queryLat, queryLon, 5.0, nil)
	assert.Empty(t, hits)
}

func TestFindNearbyZeroDistance(t *testing.T) {
	here := clientAt("55555555-5555-5555-5555-555555555555", queryLat, queryLon)
	hits := FindNearby(queryLat, queryLon, 1.0, []model.ClientModel{here})
	require.Len(t, hits, 1)
	assert.InDelta(t, 0, hits[0].DistanceMeters, 1e-6)
}
