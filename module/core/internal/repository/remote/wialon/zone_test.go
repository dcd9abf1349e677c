package wialon

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zavalalgamer/wialon-backend/module/core/domain"
)

func rawZone(t *testing.T, s string) map[string]any {
	t.Helper()
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &raw))
	return raw
}

func TestNormalizeZone_LegacyObjectPoints(t *testing.T) {
	z := NormalizeZone(rawZone(t, `{"id":1,"n":"depot","t":2,"p":[{"x":10,"y":20}]}`))

	assert.Equal(t, []domain.LatLon{{Lat: 20, Lon: 10}}, z.Polygon)
	assert.Nil(t, z.Circle)
	assert.Equal(t, int64(1), z.ID)
	assert.Equal(t, "depot", z.Name)
	assert.Equal(t, float64(2), z.Kind)
}

func TestNormalizeZone_LegacyPairPoints(t *testing.T) {
	z := NormalizeZone(rawZone(t, `{"i":3,"p":[[10,20],[11,21],[12,20]]}`))

	assert.Equal(t, []domain.LatLon{
		{Lat: 20, Lon: 10},
		{Lat: 21, Lon: 11},
		{Lat: 20, Lon: 12},
	}, z.Polygon)
	assert.Equal(t, int64(3), z.ID)
	assert.Equal(t, "", z.Name)
}

func TestNormalizeZone_NestedWins(t *testing.T) {
	z := NormalizeZone(rawZone(t, `{
		"id": 5,
		"jp": {"points": [{"lat":1,"lon":2},{"lat":3,"lon":4},{"lat":5,"lon":6}]},
		"p": [{"x":10,"y":20},{"x":11,"y":21},{"x":12,"y":22}]
	}`))

	assert.Equal(t, []domain.LatLon{{Lat: 1, Lon: 2}, {Lat: 3, Lon: 4}, {Lat: 5, Lon: 6}}, z.Polygon)
}

func TestNormalizeZone_Circles(t *testing.T) {
	nested := NormalizeZone(rawZone(t, `{"id":1,"jp":{"center":{"lat":-6.2,"lon":106.8},"radius":150},"ct":{"x":1,"y":2},"r":5}`))
	require.NotNil(t, nested.Circle)
	assert.Equal(t, domain.Circle{Center: domain.LatLon{Lat: -6.2, Lon: 106.8}, RadiusMeters: 150}, *nested.Circle)
	assert.Nil(t, nested.Polygon)

	legacy := NormalizeZone(rawZone(t, `{"id":2,"ct":{"x":106.8,"y":-6.2},"r":75}`))
	require.NotNil(t, legacy.Circle)
	assert.Equal(t, domain.Circle{Center: domain.LatLon{Lat: -6.2, Lon: 106.8}, RadiusMeters: 75}, *legacy.Circle)
}

func TestNormalizeZone_PolygonBeatsCircle(t *testing.T) {
	z := NormalizeZone(rawZone(t, `{"id":1,"p":[[0,0],[1,0],[1,1]],"ct":{"x":0,"y":0},"r":10}`))

	assert.Len(t, z.Polygon, 3)
	assert.Nil(t, z.Circle)
}

func TestNormalizeZone_NameAndColor(t *testing.T) {
	z := NormalizeZone(rawZone(t, `{"id":1,"name":"long","n":"short","c":16711680,"jp":{"color_argb":255}}`))
	assert.Equal(t, "long", z.Name)
	require.NotNil(t, z.ColorARGB)
	assert.Equal(t, int64(16711680), *z.ColorARGB)

	z = NormalizeZone(rawZone(t, `{"id":1,"n":"short","jp":{"color_argb":255}}`))
	assert.Equal(t, "short", z.Name)
	require.NotNil(t, z.ColorARGB)
	assert.Equal(t, int64(255), *z.ColorARGB)

	z = NormalizeZone(rawZone(t, `{"id":1}`))
	assert.Nil(t, z.ColorARGB)
}

func TestNormalizeZone_MalformedGeometry(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no geometry", `{"id":1,"n":"bare"}`},
		{"points not a list", `{"id":1,"p":"oops"}`},
		{"bad vertex", `{"id":1,"p":[{"x":1,"y":2},{"x":"a","y":3},{"x":1,"y":1}]}`},
		{"short pair", `{"id":1,"p":[[1]]}`},
		{"empty nested points", `{"id":1,"jp":{"points":[]}}`},
		{"circle without radius", `{"id":1,"ct":{"x":1,"y":2}}`},
		{"nested circle bad center", `{"id":1,"jp":{"center":{"lat":1},"radius":5}}`},
		{"jp not an object", `{"id":1,"jp":7}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z := NormalizeZone(rawZone(t, tt.raw))
			assert.False(t, z.HasGeometry())
			assert.Equal(t, int64(1), z.ID)
		})
	}
}

func TestNormalizeZone_FallsBackPastMalformedNested(t *testing.T) {
	z := NormalizeZone(rawZone(t, `{"id":1,"jp":{"points":[{"lat":1}]},"p":[{"x":10,"y":20}]}`))
	assert.Equal(t, []domain.LatLon{{Lat: 20, Lon: 10}}, z.Polygon)
}
