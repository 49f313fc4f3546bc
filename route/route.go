// Package route holds the immutable per-track data the rest of the index
// is built on: raw geographic samples, their planar projection, bounding
// rectangle, and total geodesic length.
package route

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/rotblauer/trackindex/conceptual"
	"github.com/rotblauer/trackindex/errkind"
	"github.com/rotblauer/trackindex/geo"
)

// LatLon is one raw WGS84 sample, degrees.
type LatLon struct {
	Lat, Lon float64
}

// Route is an immutable holder of one track's raw points, their planar
// projection, bounding rectangle, and total geodesic length. Once
// constructed by New, no operation mutates it; it is safe to share across
// goroutines.
type Route struct {
	id         conceptual.RouteID
	geographic []LatLon
	projected  []orb.Point
	bbox       geo.Rect
	lengthM    float64
}

// New validates and constructs a Route from a non-empty sequence of WGS84
// samples. It fails with errkind.ErrEmptyRoute if fewer than two samples
// survive validation, or errkind.ErrInvalidCoordinate if any sample is
// non-finite or degenerate after latitude-band clamping.
func New(id conceptual.RouteID, samples []LatLon) (*Route, error) {
	if len(samples) < 2 {
		return nil, errkind.ErrEmptyRoute
	}

	projected := make([]orb.Point, len(samples))
	for i, s := range samples {
		if math.IsNaN(s.Lat) || math.IsNaN(s.Lon) || math.IsInf(s.Lat, 0) || math.IsInf(s.Lon, 0) {
			return nil, errkind.ErrInvalidCoordinate
		}
		p := geo.Project(s.Lat, s.Lon)
		if !geo.Valid(p) {
			return nil, errkind.ErrInvalidCoordinate
		}
		projected[i] = p
	}

	length := 0.0
	for i := 1; i < len(samples); i++ {
		length += geo.HaversineDistance(samples[i-1].Lat, samples[i-1].Lon, samples[i].Lat, samples[i].Lon)
	}

	return &Route{
		id:         id,
		geographic: samples,
		projected:  projected,
		bbox:       geo.BoundOf(projected),
		lengthM:    length,
	}, nil
}

func (r *Route) ID() conceptual.RouteID { return r.id }

// Bbox is the tight planar bounding rectangle of the route's projected
// points.
func (r *Route) Bbox() geo.Rect { return r.bbox }

// PointCount is the number of raw samples, N.
func (r *Route) PointCount() int { return len(r.geographic) }

// Geographic returns the raw WGS84 sample at index i.
func (r *Route) Geographic(i int) LatLon { return r.geographic[i] }

// Projected returns the planar sample at index i.
func (r *Route) Projected(i int) orb.Point { return r.projected[i] }

// ProjectedPoints returns the full planar polyline. Callers must not
// mutate the returned slice.
func (r *Route) ProjectedPoints() []orb.Point { return r.projected }

// LengthM is the accumulated great-circle length of the raw polyline, in
// meters.
func (r *Route) LengthM() float64 { return r.lengthM }
