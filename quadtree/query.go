package quadtree

import (
	"github.com/rotblauer/trackindex/conceptual"
	"github.com/rotblauer/trackindex/geo"
	"github.com/rotblauer/trackindex/segment"
)

// Query returns every stored segment whose bounding rectangle intersects
// viewRect and whose LOD is the target level for its route.
//
// epsQuery is the target pixel tolerance for this query (viewport
// meters-per-pixel at the requested zoom, adjusted by the caller's
// bias); traversal does not descend into a child whose tau has already
// fallen below it, since any segment stored deeper is finer than any
// route's chosen target level could need at this resolution.
//
// targetLevel maps each route to the single LOD level chosen for it at
// this query's tolerance (see collection.chooseLOD); a route absent from
// the map contributes nothing. A nil map disables the LOD filter and
// returns every intersecting segment at every level, used by tests and
// full-detail dumps.
func (t *Tree) Query(viewRect geo.Rect, epsQuery float64, targetLevel map[conceptual.RouteID]conceptual.LOD) []segment.Segment {
	var out []segment.Segment
	stack := []*Node{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !n.rect.Intersects(viewRect) {
			continue
		}
		for _, s := range n.segments {
			if !s.Bbox.Intersects(viewRect) {
				continue
			}
			if targetLevel != nil {
				lvl, ok := targetLevel[s.RouteID]
				if !ok || lvl != s.LOD {
					continue
				}
			}
			out = append(out, s)
		}
		if n.children == nil {
			continue
		}
		for _, c := range n.children {
			if c.tau < epsQuery {
				continue
			}
			stack = append(stack, c)
		}
	}
	return out
}

// Stats reports the tree's node and segment counts. Segments counts the
// segments stored at every node, internal nodes included.
type Stats struct {
	Nodes    int
	Leaves   int
	Segments int
	MaxDepth int
}

// ComputeStats walks the whole tree once.
func (t *Tree) ComputeStats() Stats {
	var st Stats
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		st.Nodes++
		if depth > st.MaxDepth {
			st.MaxDepth = depth
		}
		st.Segments += len(n.segments)
		if n.children == nil {
			st.Leaves++
			return
		}
		for _, c := range n.children {
			walk(c, depth+1)
		}
	}
	walk(t.root, 0)
	return st
}
