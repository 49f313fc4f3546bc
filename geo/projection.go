// Package geo provides the planar projection and rectangle primitives the
// rest of the index is built on: WGS84 <-> Web Mercator conversion,
// meters-per-pixel at a slippy-map zoom level, and axis-aligned rectangles
// over paulmach/orb geometry.
package geo

import (
	"math"

	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
)

// Web Mercator (EPSG:3857) bounds in meters. The projection is undefined
// beyond MaxLatitude; callers clamp before projecting.
const (
	EarthMercatorMax = 20037508.342789244
	EarthMercatorMin = -EarthMercatorMax
	EarthSizeMeters  = EarthMercatorMax - EarthMercatorMin
	MaxLatitude      = 85.05112878
)

// Project converts a WGS84 (lat, lon) pair in degrees to Web Mercator
// meters. Latitude is clamped to +/-MaxLatitude, the band in which the
// conformal projection is defined, and y is clamped to the Mercator square
// so a clamped latitude lands exactly on its edge.
func Project(lat, lon float64) orb.Point {
	lat = clamp(lat, -MaxLatitude, MaxLatitude)
	x := lon * EarthMercatorMax / 180.0
	rad := lat * math.Pi / 180.0
	y := math.Log(math.Tan(rad)+1/math.Cos(rad)) * EarthMercatorMax / math.Pi
	y = clamp(y, EarthMercatorMin, EarthMercatorMax)
	return orb.Point{x, y}
}

// Unproject is the inverse of Project.
func Unproject(p orb.Point) (lat, lon float64) {
	lon = (p[0] / EarthMercatorMax) * 180.0
	lat = (math.Pi/2 - 2*math.Atan(math.Exp(-p[1]/EarthMercatorMax*math.Pi))) * 180.0 / math.Pi
	return lat, lon
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Valid reports whether a planar point lies within the Mercator square,
// i.e. is a well-formed result of Project (not NaN/Inf and in-bounds).
func Valid(p orb.Point) bool {
	if math.IsNaN(p[0]) || math.IsNaN(p[1]) || math.IsInf(p[0], 0) || math.IsInf(p[1], 0) {
		return false
	}
	return p[0] >= EarthMercatorMin && p[0] <= EarthMercatorMax &&
		p[1] >= EarthMercatorMin && p[1] <= EarthMercatorMax
}

// earthRadiusMeters is the mean Earth radius used for great-circle
// distance, matching the sphere golang/geo's s1.Angle assumes.
const earthRadiusMeters = 6371010.0

// HaversineDistance returns the great-circle distance in meters between two
// WGS84 points. It is used only for user-visible route lengths, never for
// indexing, per the planar-projection index design. Delegates to
// golang/geo's spherical angle between two LatLngs rather than a
// hand-rolled haversine formula.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	a := s2.LatLngFromDegrees(lat1, lon1)
	b := s2.LatLngFromDegrees(lat2, lon2)
	return float64(a.Distance(b)) * earthRadiusMeters
}
