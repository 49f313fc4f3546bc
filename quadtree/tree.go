package quadtree

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/rotblauer/trackindex/conceptual"
	"github.com/rotblauer/trackindex/geo"
	"github.com/rotblauer/trackindex/lod"
	"github.com/rotblauer/trackindex/params"
	"github.com/rotblauer/trackindex/segment"
)

// Tree is one earth-rooted adaptive quadtree: a single root covering the
// full planar extent, subdividing only where and as deep as inserted
// data requires. Two trees built independently over disjoint routes
// partition the identical coordinate space at every depth, which is what
// makes Merge a plain recursive union instead of a rebuild.
type Tree struct {
	root *Node
	cfg  params.Config
}

// New creates an empty tree rooted at the full Mercator extent.
func New(cfg params.Config) *Tree {
	return &Tree{root: newNode(geo.EarthRect(), cfg.ReferenceMin()), cfg: cfg}
}

// Root is the tree's root node.
func (t *Tree) Root() *Node { return t.root }

// InsertRoute inserts every LOD level of one route's precomputed ladder.
// points is the route's full planar polyline; ladder.Kept indices at
// each level index into it.
func (t *Tree) InsertRoute(routeID conceptual.RouteID, points []orb.Point, ladder lod.Ladder) {
	for level, lv := range ladder {
		if len(lv.Kept) < 2 {
			continue
		}
		t.insertRun(t.root, points, lv.Kept, 0, len(lv.Kept)-1, routeID, conceptual.LOD(level), lv.Epsilon)
	}
}

// insertRun places the sub-run keptAll[lo:hi+1] of one LOD level. It
// descends while a single child fully contains the run's bounding
// rectangle and that child's tau is still at or above the level's target
// tolerance (the "deepest ancestor node whose tau >= epsilon(L)" rule).
// If descent stops at a node that already has children (because the run
// straddles a split, or because the containing child's tau is below the
// level's tolerance), the run is bisected at its midpoint index and each
// half is placed independently, so a long raw-resolution polyline still
// ends up as many small, well-localized segments instead of one segment
// with a tree-spanning bounding box.
func (t *Tree) insertRun(node *Node, points []orb.Point, keptAll []int, lo, hi int, routeID conceptual.RouteID, level conceptual.LOD, epsL float64) {
	bbox := bboxOfRun(points, keptAll[lo:hi+1])

	for node.children != nil {
		childIdx, ok := uniqueContainingChild(node.rect, bbox)
		if !ok {
			break
		}
		child := node.children[childIdx]
		if child.tau < epsL {
			break
		}
		node = child
	}

	if node.children != nil {
		if hi-lo > 1 {
			mid := lo + (hi-lo)/2
			t.insertRun(node, points, keptAll, lo, mid, routeID, level, epsL)
			t.insertRun(node, points, keptAll, mid, hi, routeID, level, epsL)
			return
		}
		appendSegment(node, keptAll, lo, hi, routeID, level, epsL, bbox)
		return
	}

	if len(node.segments)+1 < t.cfg.MaxSegmentsPerNode {
		appendSegment(node, keptAll, lo, hi, routeID, level, epsL, bbox)
		return
	}

	finestAfter := node.finestWanted
	if epsL < finestAfter {
		finestAfter = epsL
	}
	if node.tau > finestAfter {
		subdivide(node, t.cfg)
		t.insertRun(node, points, keptAll, lo, hi, routeID, level, epsL)
		return
	}

	// Bounded leaf already at its maximum useful resolution: grow the
	// payload without subdividing further.
	appendSegment(node, keptAll, lo, hi, routeID, level, epsL, bbox)
}

// subdivide gives node four fresh children, clears node's own payload, and
// re-routes the old payload into the children; a segment that straddles
// the new split, or whose tolerance is coarser than the children's tau,
// stays at node. A free function, not a Tree method, so merge.go can
// reuse it without a Tree wrapper.
func subdivide(node *Node, cfg params.Config) {
	quads := node.rect.Quadrants()
	var children [4]*Node
	referenceMin := cfg.ReferenceMin()
	for i := range quads {
		children[i] = newNode(quads[i], referenceMin)
	}
	node.children = &children

	old := node.segments
	node.segments = nil
	node.finestWanted = math.Inf(1)
	for _, seg := range old {
		reinsertExisting(node, seg, cfg)
	}
}

// reinsertExisting routes an already-built segment into node's newly
// created children, or leaves it at node if it straddles the split. It
// does not re-split the segment further: only fresh insertion (which
// still has the underlying points) does that.
func reinsertExisting(node *Node, seg segment.Segment, cfg params.Config) {
	for node.children != nil {
		childIdx, ok := uniqueContainingChild(node.rect, seg.Bbox)
		if !ok {
			break
		}
		child := node.children[childIdx]
		if child.tau < seg.Epsilon {
			break
		}
		node = child
	}
	node.segments = append(node.segments, seg)
	if node.children != nil {
		return
	}
	if seg.Epsilon < node.finestWanted {
		node.finestWanted = seg.Epsilon
	}
	if len(node.segments) >= cfg.MaxSegmentsPerNode && node.tau > node.finestWanted {
		subdivide(node, cfg)
	}
}

func appendSegment(node *Node, keptAll []int, lo, hi int, routeID conceptual.RouteID, level conceptual.LOD, epsL float64, bbox geo.Rect) {
	seg := segment.New(routeID, level, keptAll[lo], keptAll[hi], epsL, bbox)
	if lo > 0 {
		seg = seg.WithLeftContext(keptAll[lo-1])
	}
	if hi < len(keptAll)-1 {
		seg = seg.WithRightContext(keptAll[hi+1])
	}
	node.segments = append(node.segments, seg)
	if epsL < node.finestWanted {
		node.finestWanted = epsL
	}
}

// uniqueContainingChild reports which of rect's four quadrants fully
// contains bbox, and whether exactly one does. A bbox coincident with a
// split coordinate matches more than one quadrant and is correctly
// reported as not uniquely contained, per the "segment straddling a
// split lives at the parent" invariant.
func uniqueContainingChild(rect geo.Rect, bbox geo.Rect) (int, bool) {
	quads := rect.Quadrants()
	match := -1
	for i, q := range quads {
		if q.ContainsRect(bbox) {
			if match != -1 {
				return -1, false
			}
			match = i
		}
	}
	return match, match != -1
}

func bboxOfRun(points []orb.Point, run []int) geo.Rect {
	first := points[run[0]]
	b := orb.Bound{Min: first, Max: first}
	for _, idx := range run[1:] {
		b = b.Extend(points[idx])
	}
	return geo.Rect{Bound: b}
}
