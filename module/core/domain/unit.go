package domain

// Unit is a tracked vehicle with its last known position. Position fields are
// nil when the platform has no fix for the unit.
type Unit struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Lat       *float64 `json:"lat"`
	Lon       *float64 `json:"lon"`
	Timestamp *int64   `json:"t"`
	Speed     *float64 `json:"speed"`
}

// HasPosition reports whether both coordinates are known.
func (u Unit) HasPosition() bool {
	return u.Lat != nil && u.Lon != nil
}

// Resource owns zero or more zones.
type Resource struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
