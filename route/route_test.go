package route

import (
	"math"
	"testing"

	"github.com/rotblauer/trackindex/errkind"
	"github.com/rotblauer/trackindex/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsShortRoute(t *testing.T) {
	_, err := New(0, []LatLon{{Lat: 1, Lon: 1}})
	assert.ErrorIs(t, err, errkind.ErrEmptyRoute)

	_, err = New(0, nil)
	assert.ErrorIs(t, err, errkind.ErrEmptyRoute)
}

func TestNewRejectsNonFiniteCoordinate(t *testing.T) {
	_, err := New(0, []LatLon{{Lat: 0, Lon: 0}, {Lat: math.NaN(), Lon: 0}})
	assert.ErrorIs(t, err, errkind.ErrInvalidCoordinate)

	_, err = New(0, []LatLon{{Lat: 0, Lon: 0}, {Lat: math.Inf(1), Lon: 0}})
	assert.ErrorIs(t, err, errkind.ErrInvalidCoordinate)
}

func TestNewComputesLengthAndBbox(t *testing.T) {
	r, err := New(3, []LatLon{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 1, Lon: 1}})
	require.NoError(t, err)
	assert.Equal(t, 3, r.PointCount())
	assert.Greater(t, r.LengthM(), 0.0)
	assert.True(t, r.Bbox().Min[0] <= r.Bbox().Max[0])
	assert.Equal(t, LatLon{Lat: 0, Lon: 0}, r.Geographic(0))
}

func TestNewClampsExtremeLatitude(t *testing.T) {
	r, err := New(0, []LatLon{{Lat: 89.9, Lon: 0}, {Lat: -89.9, Lon: 0}})
	require.NoError(t, err)
	assert.Equal(t, geo.Project(geo.MaxLatitude, 0), r.Projected(0))
	assert.Equal(t, geo.EarthMercatorMax, r.Projected(0).Y())
	assert.Equal(t, geo.Project(-geo.MaxLatitude, 0), r.Projected(1))
	assert.Equal(t, -geo.EarthMercatorMax, r.Projected(1).Y())
}
