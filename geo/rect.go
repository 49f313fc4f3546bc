package geo

import "github.com/paulmach/orb"

// Rect is an axis-aligned rectangle in planar (Web Mercator) meters. It is
// a thin wrapper over orb.Bound rather than a reimplementation, so it gets
// orb's Min/Max representation for free; the methods below add the
// closed (edge-inclusive) containment/intersection and quadrant-subdivision semantics
// the quadtree needs, which orb.Bound does not define on its own.
type Rect struct {
	orb.Bound
}

// NewRect builds a Rect from two corner points, ordering them as needed.
func NewRect(a, b orb.Point) Rect {
	return Rect{orb.Bound{Min: orb.Point{min(a[0], b[0]), min(a[1], b[1])}, Max: orb.Point{max(a[0], b[0]), max(a[1], b[1])}}}
}

// EarthRect is the full planar extent of the projection: the fixed root
// rectangle of the earth-rooted quadtree.
func EarthRect() Rect {
	return Rect{orb.Bound{
		Min: orb.Point{EarthMercatorMin, EarthMercatorMin},
		Max: orb.Point{EarthMercatorMax, EarthMercatorMax},
	}}
}

// BoundOf returns the tight bounding Rect of a planar polyline.
func BoundOf(points []orb.Point) Rect {
	b := orb.Bound{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b = b.Extend(p)
	}
	return Rect{b}
}

// Width and Height in planar meters.
func (r Rect) Width() float64  { return r.Max[0] - r.Min[0] }
func (r Rect) Height() float64 { return r.Max[1] - r.Min[1] }

// ContainsRect reports whether other lies entirely within r, both edges
// inclusive. Because sibling quadrants share a boundary coordinate, a rect
// that lies exactly on a split can test as contained by more than one
// quadrant; callers that need the "unique child" routing rule from the
// quadtree design (a rect coincident with a split lives at the parent) must
// check all four quadrants and require exactly one match, not rely on this
// method alone. See quadtree.uniqueContainingChild.
func (r Rect) ContainsRect(other Rect) bool {
	return other.Min[0] >= r.Min[0] && other.Min[1] >= r.Min[1] &&
		other.Max[0] <= r.Max[0] && other.Max[1] <= r.Max[1]
}

// Intersects reports whether r and other overlap, treating a shared edge
// or corner as intersecting (closed convention, used consistently for
// query rectangles).
func (r Rect) Intersects(other Rect) bool {
	return r.Min[0] <= other.Max[0] && r.Max[0] >= other.Min[0] &&
		r.Min[1] <= other.Max[1] && r.Max[1] >= other.Min[1]
}

// Quadrant identifies one of a node's four equal children.
type Quadrant int

const (
	QuadrantSW Quadrant = iota
	QuadrantSE
	QuadrantNW
	QuadrantNE
)

// Quadrants splits r into four quadrants sharing r's center point. Every
// quadrant's Min/Max is inclusive of its own boundary, so the four
// quadrants overlap along the shared split lines: a point or rectangle
// lying exactly on cx or cy matches more than one quadrant's
// ContainsRect. This is intentional, not a partition — uniqueContainingChild
// relies on it to detect a segment straddling a split (no single quadrant
// uniquely contains it) and route that segment to the parent instead.
func (r Rect) Quadrants() [4]Rect {
	cx := (r.Min[0] + r.Max[0]) / 2
	cy := (r.Min[1] + r.Max[1]) / 2
	var out [4]Rect
	out[QuadrantSW] = Rect{orb.Bound{Min: orb.Point{r.Min[0], r.Min[1]}, Max: orb.Point{cx, cy}}}
	out[QuadrantSE] = Rect{orb.Bound{Min: orb.Point{cx, r.Min[1]}, Max: orb.Point{r.Max[0], cy}}}
	out[QuadrantNW] = Rect{orb.Bound{Min: orb.Point{r.Min[0], cy}, Max: orb.Point{cx, r.Max[1]}}}
	out[QuadrantNE] = Rect{orb.Bound{Min: orb.Point{cx, cy}, Max: orb.Point{r.Max[0], r.Max[1]}}}
	return out
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
