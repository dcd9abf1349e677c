package domain

type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type Circle struct {
	Center       LatLon  `json:"center"`
	RadiusMeters float64 `json:"radius"`
}

// Zone is the canonical geofence shape. At most one of Polygon and Circle is
// set; a zone with neither is listed but never matches a unit.
type Zone struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Kind      any      `json:"type"`
	ColorARGB *int64   `json:"color_argb"`
	Polygon   []LatLon `json:"points,omitempty"`
	Circle    *Circle  `json:"circle,omitempty"`
}

func (z Zone) HasGeometry() bool {
	return len(z.Polygon) > 0 || z.Circle != nil
}

// MembershipResult maps resource id -> unit id -> ids of the zones the unit is
// inside, in zone listing order. Only non-empty hit sets are present.
type MembershipResult map[int64]map[int64][]int64

// Hits counts the (resource, unit) pairs present in the result.
func (m MembershipResult) Hits() int {
	n := 0
	for _, units := range m {
		n += len(units)
	}
	return n
}
