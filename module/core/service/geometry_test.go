package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Zavalalgamer/wialon-backend/module/core/domain"
)

var unitSquare = []domain.LatLon{
	{Lat: 0, Lon: 0},
	{Lat: 0, Lon: 1},
	{Lat: 1, Lon: 1},
	{Lat: 1, Lon: 0},
}

func TestPointInPolygon_Square(t *testing.T) {
	assert.True(t, PointInPolygon(0.5, 0.5, unitSquare))
	assert.False(t, PointInPolygon(10, 10, unitSquare))
	assert.False(t, PointInPolygon(0.5, -0.5, unitSquare))
	assert.False(t, PointInPolygon(-0.5, 0.5, unitSquare))
}

func TestPointInPolygon_ShortRing(t *testing.T) {
	rings := [][]domain.LatLon{
		nil,
		{},
		{{Lat: 0.5, Lon: 0.5}},
		{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 1}},
	}
	for _, ring := range rings {
		assert.False(t, PointInPolygon(0.5, 0.5, ring), "ring of %d vertices", len(ring))
	}
}

func TestPointInPolygon_RotationAndWinding(t *testing.T) {
	// concave L-shape
	ring := []domain.LatLon{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 4},
		{Lat: 1, Lon: 4},
		{Lat: 1, Lon: 1},
		{Lat: 4, Lon: 1},
		{Lat: 4, Lon: 0},
	}
	points := []domain.LatLon{
		{Lat: 0.5, Lon: 0.5},
		{Lat: 0.5, Lon: 3.5},
		{Lat: 3.5, Lon: 0.5},
		{Lat: 2, Lon: 2},
		{Lat: 5, Lon: 5},
		{Lat: -1, Lon: 2},
	}

	for _, p := range points {
		want := PointInPolygon(p.Lat, p.Lon, ring)

		for shift := 1; shift < len(ring); shift++ {
			rotated := append(append([]domain.LatLon{}, ring[shift:]...), ring[:shift]...)
			assert.Equal(t, want, PointInPolygon(p.Lat, p.Lon, rotated), "point %v rotated by %d", p, shift)
		}

		reversed := make([]domain.LatLon, len(ring))
		for i, v := range ring {
			reversed[len(ring)-1-i] = v
		}
		assert.Equal(t, want, PointInPolygon(p.Lat, p.Lon, reversed), "point %v reversed", p)
	}

	assert.True(t, PointInPolygon(0.5, 3.5, ring))
	assert.False(t, PointInPolygon(2, 2, ring))
}

func TestPointInPolygon_HorizontalEdge(t *testing.T) {
	triangle := []domain.LatLon{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 2},
		{Lat: 2, Lon: 1},
	}
	assert.True(t, PointInPolygon(0.5, 1, triangle))
	assert.False(t, PointInPolygon(0, 5, triangle))
}

func TestPointInCircle_Boundary(t *testing.T) {
	// 0.001 degrees of latitude is exactly 111 m under the approximation
	d := PlanarDistance(0.001, 0, 0, 0)
	assert.True(t, PointInCircle(0.001, 0, 0, 0, d))
	assert.False(t, PointInCircle(0.001, 0, 0, 0, d-1e-6))
	assert.InDelta(t, 111.0, d, 1e-6)
}

func TestPointInCircle_Center(t *testing.T) {
	assert.True(t, PointInCircle(-6.2088, 106.8456, -6.2088, 106.8456, 0))
	assert.False(t, PointInCircle(-7.0, 107.0, -6.2088, 106.8456, 50))
}

func TestPlanarDistance(t *testing.T) {
	assert.Equal(t, 0.0, PlanarDistance(10, 20, 10, 20))
	// 3-4-5 triangle in degree units
	assert.InDelta(t, 5*111000.0, PlanarDistance(3, 4, 0, 0), 1e-6)
	// longitude is not shrunk at high latitude
	assert.InDelta(t, PlanarDistance(0, 1, 0, 0), PlanarDistance(80, 1, 80, 0), 1e-6)
}
