package quadtree

import (
	"github.com/rotblauer/trackindex/params"
)

// Merge combines two trees built independently (typically one per route,
// or one per batch of routes) into a single tree covering their union.
// Because every tree shares the same root rectangle and the same
// deterministic midpoint split at every level, a node at a given
// position always covers the identical rectangle in both trees, so
// merging is a structural walk rather than a rebuild from scratch: two
// leaves union their payload (subdividing if the combined leaf reaches
// capacity), two internal nodes merge child-by-child and then
// reinsert whichever operand held segments of its own at that internal
// node (insertRun places a coarse-LOD segment at the deepest ancestor
// whose tau is still >= the level's epsilon, so an internal node
// routinely carries live segments alongside its children), and a leaf
// merging with an internal node has its segments re-routed into the
// internal node's existing children.
//
// Merge is associative and commutative, which is what lets a parallel
// build reduce per-route trees pairwise in any order or grouping. It
// mutates both operands' nodes in place and returns a tree whose root is
// one of the operands' root nodes; neither input tree should be used
// again afterward.
func Merge(a, b *Tree) *Tree {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return &Tree{root: mergeNodes(a.root, b.root, a.cfg), cfg: a.cfg}
}

func mergeNodes(a, b *Node, cfg params.Config) *Node {
	switch {
	case a.children == nil && b.children == nil:
		return mergeLeaves(a, b, cfg)
	case a.children != nil && b.children == nil:
		return mergeLeafIntoInternal(a, b, cfg)
	case a.children == nil && b.children != nil:
		return mergeLeafIntoInternal(b, a, cfg)
	default:
		pending := append(a.segments, b.segments...)
		a.segments = nil
		b.segments = nil

		var children [4]*Node
		for i := range children {
			children[i] = mergeNodes(a.children[i], b.children[i], cfg)
		}
		a.children = &children

		for _, s := range pending {
			reinsertExisting(a, s, cfg)
		}
		return a
	}
}

func mergeLeaves(a, b *Node, cfg params.Config) *Node {
	a.segments = append(a.segments, b.segments...)
	for _, s := range b.segments {
		if s.Epsilon < a.finestWanted {
			a.finestWanted = s.Epsilon
		}
	}
	if len(a.segments) >= cfg.MaxSegmentsPerNode && a.tau > a.finestWanted {
		subdivide(a, cfg)
	}
	return a
}

func mergeLeafIntoInternal(internal, leaf *Node, cfg params.Config) *Node {
	pending := leaf.segments
	leaf.segments = nil
	for _, s := range pending {
		reinsertExisting(internal, s, cfg)
	}
	return internal
}
