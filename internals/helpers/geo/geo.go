// Package geo holds the distance math shared by session verification and
// the nearby-client search.
package geo

import "math"

// EarthRadiusMeters is the mean earth radius used by the Haversine formula.
const EarthRadiusMeters = 6371000.0

// kmPerDegree approximates one degree of latitude (and one degree of
// longitude at the equator).
const kmPerDegree = 111.0

// DistanceMeters returns the great-circle distance between two points given
// in decimal degrees, using the Haversine formula.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := radians(lat1)
	rlat2 := radians(lat2)
	dlat := radians(lat2 - lat1)
	dlon := radians(lon2 - lon1)

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Asin(math.Sqrt(a))

	return EarthRadiusMeters * c
}

// BoundingBox returns a rectangular over-approximation of the circle of
// radiusKm around (lat, lon). It is a pre-filter only: always a superset of
// the true radius, callers must refine with DistanceMeters.
func BoundingBox(lat, lon, radiusKm float64) (minLat, maxLat, minLon, maxLon float64) {
	latDelta := radiusKm / kmPerDegree

	// Longitude degrees shrink with cos(lat). Near the poles cos goes to
	// zero; clamp so the box stays finite instead of dividing by zero.
	cosLat := math.Cos(radians(lat))
	lonDelta := 180.0
	if cosLat > 1e-9 {
		lonDelta = radiusKm / (kmPerDegree * cosLat)
		if lonDelta > 180.0 {
			lonDelta = 180.0
		}
	}

	return lat - latDelta, lat + latDelta, lon - lonDelta, lon + lonDelta
}

// ValidCoordinates reports whether lat/lon are inside the WGS84 ranges.
func ValidCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
