package wialon

import (
	"math"

	"github.com/Zavalalgamer/wialon-backend/module/core/domain"
)

// NormalizeZone resolves the platform's zone encodings into a domain.Zone.
// Nested fields under "jp" win over the flat legacy fields; legacy points use
// x for longitude and y for latitude. Malformed geometry is dropped silently.
// Rings are kept whatever their length; containment rejects short ones.
func NormalizeZone(raw map[string]any) domain.Zone {
	jp, _ := asObject(raw["jp"])

	z := domain.Zone{Kind: raw["t"]}

	if id, ok := asInt(raw["id"]); ok {
		z.ID = id
	} else if id, ok := asInt(raw["i"]); ok {
		z.ID = id
	}

	if name, ok := asString(raw["name"]); ok && name != "" {
		z.Name = name
	} else if name, ok := asString(raw["n"]); ok {
		z.Name = name
	}

	if c, ok := asInt(raw["c"]); ok {
		z.ColorARGB = &c
	} else if c, ok := asInt(jp["color_argb"]); ok {
		z.ColorARGB = &c
	}

	if ring, ok := nestedRing(jp); ok {
		z.Polygon = ring
	} else if ring, ok := legacyRing(raw["p"]); ok {
		z.Polygon = ring
	}

	if z.Polygon == nil {
		if circle, ok := nestedCircle(jp); ok {
			z.Circle = circle
		} else if circle, ok := legacyCircle(raw); ok {
			z.Circle = circle
		}
	}

	return z
}

func nestedRing(jp map[string]any) ([]domain.LatLon, bool) {
	points, ok := jp["points"].([]any)
	if !ok || len(points) == 0 {
		return nil, false
	}
	ring := make([]domain.LatLon, 0, len(points))
	for _, p := range points {
		obj, ok := asObject(p)
		if !ok {
			return nil, false
		}
		ll, ok := latLon(obj)
		if !ok {
			return nil, false
		}
		ring = append(ring, ll)
	}
	return ring, true
}

func legacyRing(v any) ([]domain.LatLon, bool) {
	points, ok := v.([]any)
	if !ok || len(points) == 0 {
		return nil, false
	}
	ring := make([]domain.LatLon, 0, len(points))
	for _, p := range points {
		ll, ok := legacyPoint(p)
		if !ok {
			return nil, false
		}
		ring = append(ring, ll)
	}
	return ring, true
}

// legacyPoint accepts {x, y} objects and [x, y] pairs.
func legacyPoint(v any) (domain.LatLon, bool) {
	switch p := v.(type) {
	case map[string]any:
		x, okX := asFloat(p["x"])
		y, okY := asFloat(p["y"])
		if !okX || !okY {
			return domain.LatLon{}, false
		}
		return domain.LatLon{Lat: y, Lon: x}, true
	case []any:
		if len(p) < 2 {
			return domain.LatLon{}, false
		}
		x, okX := asFloat(p[0])
		y, okY := asFloat(p[1])
		if !okX || !okY {
			return domain.LatLon{}, false
		}
		return domain.LatLon{Lat: y, Lon: x}, true
	default:
		return domain.LatLon{}, false
	}
}

func nestedCircle(jp map[string]any) (*domain.Circle, bool) {
	center, ok := asObject(jp["center"])
	if !ok {
		return nil, false
	}
	ll, ok := latLon(center)
	if !ok {
		return nil, false
	}
	r, ok := asFloat(jp["radius"])
	if !ok {
		return nil, false
	}
	return &domain.Circle{Center: ll, RadiusMeters: r}, true
}

func legacyCircle(raw map[string]any) (*domain.Circle, bool) {
	ct, ok := asObject(raw["ct"])
	if !ok {
		return nil, false
	}
	ll, ok := legacyPoint(ct)
	if !ok {
		return nil, false
	}
	r, ok := asFloat(raw["r"])
	if !ok {
		return nil, false
	}
	return &domain.Circle{Center: ll, RadiusMeters: r}, true
}

func latLon(obj map[string]any) (domain.LatLon, bool) {
	lat, okLat := asFloat(obj["lat"])
	lon, okLon := asFloat(obj["lon"])
	if !okLat || !okLon {
		return domain.LatLon{}, false
	}
	return domain.LatLon{Lat: lat, Lon: lon}, true
}

func asObject(v any) (map[string]any, bool) {
	obj, ok := v.(map[string]any)
	return obj, ok
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asFloat(v any) (float64, bool) {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func asInt(v any) (int64, bool) {
	f, ok := asFloat(v)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int64(f), true
}
