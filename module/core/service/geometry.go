package service

import (
	"math"

	"github.com/Zavalalgamer/wialon-backend/module/core/domain"
)

const (
	// metersPerDegree scales both latitude and longitude deltas. Longitude
	// shrinkage away from the equator is ignored.
	metersPerDegree = 111000

	// edgeEpsilon replaces a zero denominator on horizontal polygon edges.
	edgeEpsilon = 1e-12
)

// PointInPolygon applies the ray-casting parity rule to an implicitly closed
// ring. Rings with fewer than three vertices contain nothing.
func PointInPolygon(lat, lon float64, ring []domain.LatLon) bool {
	n := len(ring)
	if n < 3 {
		return false
	}

	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		yi, xi := ring[i].Lat, ring[i].Lon
		yj, xj := ring[j].Lat, ring[j].Lon

		if (yi > lat) == (yj > lat) {
			continue
		}

		dy := yj - yi
		if dy == 0 {
			dy = edgeEpsilon
		}
		if lon < (xj-xi)*(lat-yi)/dy+xi {
			inside = !inside
		}
	}
	return inside
}

// PointInCircle reports whether the point lies within radiusMeters of the
// center, boundary included, using PlanarDistance.
func PointInCircle(lat, lon, centerLat, centerLon, radiusMeters float64) bool {
	return PlanarDistance(lat, lon, centerLat, centerLon) <= radiusMeters
}

// PlanarDistance is an equirectangular approximation in meters, suitable for
// short local distances only.
func PlanarDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dy := (lat1 - lat2) * metersPerDegree
	dx := (lon1 - lon2) * metersPerDegree
	return math.Sqrt(dx*dx + dy*dy)
}

func zoneContains(z domain.Zone, lat, lon float64) bool {
	switch {
	case len(z.Polygon) > 0:
		return PointInPolygon(lat, lon, z.Polygon)
	case z.Circle != nil:
		return PointInCircle(lat, lon, z.Circle.Center.Lat, z.Circle.Center.Lon, z.Circle.RadiusMeters)
	default:
		return false
	}
}
