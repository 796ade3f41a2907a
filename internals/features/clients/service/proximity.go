package service

import (
	"sort"

	"fieldclock_backend/internals/features/clients/model"
	"fieldclock_backend/internals/helpers/geo"
)

// NearbyClient is a client annotated with its true distance from the query
// point.
type NearbyClient struct {
	Client         model.ClientModel
	DistanceMeters float64
}

// FindNearby refines bounding-box candidates to the true radius circle and
// sorts ascending by distance. The caller is expected to have pre-filtered
// candidates with geo.BoundingBox pushed into the database query; the box is
// a superset of the circle, so the exact-distance cut here is mandatory.
// Equal distances tie-break on client ID so the ordering is deterministic.
func FindNearby(lat, lon, radiusKm float64, candidates []model.ClientModel) []NearbyClient {
	radiusMeters := radiusKm * 1000

	hits := make([]NearbyClient, 0, len(candidates))
	for _, c := range candidates {
		d := geo.DistanceMeters(lat, lon, c.Latitude, c.Longitude)
		if d <= radiusMeters {
			hits = append(hits, NearbyClient{Client: c, DistanceMeters: d})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].DistanceMeters != hits[j].DistanceMeters {
			return hits[i].DistanceMeters < hits[j].DistanceMeters
		}
		return hits[i].Client.ID.String() < hits[j].Client.ID.String()
	})
	return hits
}
