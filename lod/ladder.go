// Package lod computes a route's level-of-detail ladder: an ordered
// sequence of index subsets, each a Visvalingam-Whyatt simplification of
// the previous level at a doubling metric tolerance. No point is ever
// copied or duplicated; every level is a view expressed as indices into
// the route's own point slice.
//
// paulmach/orb/simplify implements the same algorithm (VisvalingamThreshold)
// but only against orb.Geometry, returning a new, shorter geometry -- it
// has no way to report which original indices survived. Since segments
// must reference indices, not copied points (spec: "no point duplication;
// indices only"), the ladder below re-implements Visvalingam-Whyatt over
// an index array instead of reusing that geometry-in/geometry-out API. See
// ladder_test.go for a cross-check against orb/simplify's own output.
package lod

import (
	"container/heap"
	"math"

	"github.com/paulmach/orb"
)

// Level is one rung of the ladder: a strictly ascending subset of point
// indices kept at simplification tolerance Epsilon.
type Level struct {
	Epsilon float64
	Kept    []int
}

// Ladder is a route's precomputed multi-resolution simplification, indexed
// by LOD level (Ladder[0] is the finest, i.e. every raw point).
type Ladder []Level

// Build computes the full ladder for a planar polyline. epsilon0 is the
// finest tolerance for which simplification of this route is non-trivial;
// callers derive it from the route's point density (see EpsilonZero).
// Each level L>0 is Visvalingam-Whyatt applied to level L-1's kept subset
// at tolerance epsilon0*2^(L-1) (level 1 uses epsilon0 itself; level 0
// keeps every point and records Epsilon 0), terminating once a level's
// kept subset is just the two endpoints.
func Build(points []orb.Point, epsilon0 float64) Ladder {
	n := len(points)
	full := make([]int, n)
	for i := range full {
		full[i] = i
	}
	ladder := Ladder{{Epsilon: 0, Kept: full}}
	if n <= 2 {
		return ladder
	}

	prev := full
	epsilon := epsilon0
	for {
		kept := visvalingamWhyatt(points, prev, epsilon)
		ladder = append(ladder, Level{Epsilon: epsilon, Kept: kept})
		if len(kept) <= 2 {
			return ladder
		}
		prev = kept
		epsilon *= 2
	}
}

// EpsilonZero picks a starting tolerance from a route's total planar
// extent and point count: the effective-area threshold below which the
// average point spacing produces no visible simplification. This mirrors
// spec.md's "chosen per route from its point density" without pinning a
// single global constant that would over- or under-simplify sparse vs.
// dense routes.
func EpsilonZero(points []orb.Point) float64 {
	if len(points) < 3 {
		return 1.0
	}
	b := orb.Bound{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b = b.Extend(p)
	}
	dx, dy := b.Max[0]-b.Min[0], b.Max[1]-b.Min[1]
	diag := math.Sqrt(dx*dx + dy*dy)
	if diag <= 0 {
		return 1.0
	}
	// The bounding-box diagonal divided by the point count gives a
	// scale-appropriate spacing, and from it a starting effective
	// area: the smallest triangle worth collapsing is on the order of one
	// average-spacing point sitting off a straight line by one
	// average-spacing distance.
	avgSpacing := diag / float64(len(points))
	area := 0.5 * avgSpacing * avgSpacing
	if area <= 0 {
		return 1.0
	}
	return area
}

// visvalingamWhyatt returns the subset of `kept` (already ascending
// indices into points) that survives simplification at effective-area
// tolerance epsilon. Endpoints are always retained.
func visvalingamWhyatt(points []orb.Point, kept []int, epsilon float64) []int {
	n := len(kept)
	if n <= 2 {
		out := make([]int, n)
		copy(out, kept)
		return out
	}

	nodes := make([]vwNode, n)
	for i, idx := range kept {
		nodes[i] = vwNode{pointIndex: idx, prev: i - 1, next: i + 1, alive: true}
	}
	nodes[0].prev = -1
	nodes[n-1].next = -1

	pq := make(vwHeap, 0, n)
	for i := 1; i < n-1; i++ {
		nodes[i].area = triangleArea(points[nodes[i-1].pointIndex], points[nodes[i].pointIndex], points[nodes[i+1].pointIndex])
		item := &vwItem{node: i, area: nodes[i].area}
		nodes[i].item = item
		pq = append(pq, item)
	}
	heap.Init(&pq)

	remaining := n
	for pq.Len() > 0 && remaining > 2 {
		item := heap.Pop(&pq).(*vwItem)
		i := item.node
		if !nodes[i].alive || item.stale {
			continue
		}
		if nodes[i].area > epsilon {
			break
		}
		nodes[i].alive = false
		remaining--

		p, nx := nodes[i].prev, nodes[i].next
		nodes[p].next = nx
		nodes[nx].prev = p

		if nodes[p].prev != -1 {
			nodes[p].item.stale = true
			nodes[p].area = triangleArea(points[nodes[nodes[p].prev].pointIndex], points[nodes[p].pointIndex], points[nodes[nx].pointIndex])
			newItem := &vwItem{node: p, area: nodes[p].area}
			nodes[p].item = newItem
			heap.Push(&pq, newItem)
		}
		if nodes[nx].next != -1 {
			nodes[nx].item.stale = true
			nodes[nx].area = triangleArea(points[nodes[p].pointIndex], points[nodes[nx].pointIndex], points[nodes[nodes[nx].next].pointIndex])
			newItem := &vwItem{node: nx, area: nodes[nx].area}
			nodes[nx].item = newItem
			heap.Push(&pq, newItem)
		}
	}

	out := make([]int, 0, remaining)
	for i := 0; i != -1; i = nodes[i].next {
		out = append(out, nodes[i].pointIndex)
	}
	return out
}

type vwNode struct {
	pointIndex int
	prev, next int
	area       float64
	alive      bool
	item       *vwItem
}

type vwItem struct {
	node  int
	area  float64
	stale bool
	index int
}

type vwHeap []*vwItem

func (h vwHeap) Len() int            { return len(h) }
func (h vwHeap) Less(i, j int) bool  { return h[i].area < h[j].area }
func (h vwHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *vwHeap) Push(x interface{}) { item := x.(*vwItem); item.index = len(*h); *h = append(*h, item) }
func (h *vwHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// triangleArea is the unsigned area of the triangle formed by three
// consecutive points, matching the Visvalingam-Whyatt "effective area"
// metric (the shoelace cross product, made unsigned and halved).
func triangleArea(a, b, c orb.Point) float64 {
	area := (b[0]-a[0])*(c[1]-a[1]) - (c[0]-a[0])*(b[1]-a[1])
	if area < 0 {
		area = -area
	}
	return area / 2
}

