// Package segment defines the reference type the quadtree stores: a
// contiguous run of a route's kept indices at one LOD level, with optional
// boundary context for seamless rendering across node edges.
package segment

import (
	"github.com/rotblauer/trackindex/conceptual"
	"github.com/rotblauer/trackindex/geo"
)

// Segment references a contiguous run of kept indices at a given LOD level
// within one route. It never copies points: FirstKept and LastKept are
// members of that LOD level's kept subset, and the optional context
// indices are the single kept index immediately outside the run on each
// side, at the same LOD, used as off-screen anchors so adjacent segments
// render as one continuous line.
type Segment struct {
	RouteID     conceptual.RouteID
	LOD         conceptual.LOD
	FirstKept   int
	LastKept    int
	LeftCtx     int // valid iff HasLeftCtx
	HasLeftCtx  bool
	RightCtx    int // valid iff HasRightCtx
	HasRightCtx bool

	// Bbox is the planar bounding rectangle of the run's kept points,
	// FirstKept through LastKept; the context points are not included. It
	// is precomputed once at build time so the quadtree never needs to
	// re-derive it from the route.
	Bbox geo.Rect

	// Epsilon is the simplification tolerance of the LOD level this
	// segment was built at. It is not part of a viewport reply (LOD alone
	// identifies the resolution), but the quadtree keeps it to re-route a
	// segment when a leaf it occupies subdivides, without needing the
	// route's points back.
	Epsilon float64
}

// New builds a Segment, validating first < last per the data-model
// invariant.
func New(routeID conceptual.RouteID, level conceptual.LOD, first, last int, epsilon float64, bbox geo.Rect) Segment {
	if first >= last {
		panic("segment: first_kept_index must be < last_kept_index")
	}
	return Segment{RouteID: routeID, LOD: level, FirstKept: first, LastKept: last, Epsilon: epsilon, Bbox: bbox}
}

// WithLeftContext returns a copy of s with a left boundary context index
// set.
func (s Segment) WithLeftContext(idx int) Segment {
	s.LeftCtx, s.HasLeftCtx = idx, true
	return s
}

// WithRightContext returns a copy of s with a right boundary context index
// set.
func (s Segment) WithRightContext(idx int) Segment {
	s.RightCtx, s.HasRightCtx = idx, true
	return s
}
