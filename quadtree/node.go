// Package quadtree implements the earth-rooted adaptive spatial index:
// its root rectangle is the fixed planar extent of the projection
// regardless of data distribution, so merging per-route trees is a pure
// union with no rebalancing (every tree partitions the same coordinate
// space at every depth). Node variants are modeled as a tagged sum
// (Node.children nil or not), not via subclassing, following the "one
// concrete type" design in spec section 9.
package quadtree

import (
	"math"

	"github.com/rotblauer/trackindex/geo"
	"github.com/rotblauer/trackindex/segment"
)

// Node is one rectangle of the tree: either an internal node with four
// children covering its equal quadrants, or a leaf holding the segments
// whose bounding rectangles are contained in its rectangle.
type Node struct {
	rect     geo.Rect
	tau      float64
	children *[4]*Node // nil for a leaf
	segments []segment.Segment

	// finestWanted is the smallest LOD tolerance among this leaf's stored
	// segments (plus any pending insert), used by the subdivision
	// decision in rule 3: subdividing only helps if some segment here
	// still wants finer resolution than this node's tau provides.
	finestWanted float64
}

// newNode builds a node covering rect, deriving its pixel tolerance from
// the reference viewport's smaller dimension (referenceMin) so a square
// node's tau is well-defined against a non-square viewport.
func newNode(rect geo.Rect, referenceMin float64) *Node {
	return &Node{
		rect:         rect,
		tau:          rect.Width() / referenceMin,
		finestWanted: math.Inf(1),
	}
}

// Rect is the node's planar rectangle.
func (n *Node) Rect() geo.Rect { return n.rect }

// Tau is the node's pixel tolerance: the metric size one screen pixel
// represents when this node exactly fills the reference viewport.
func (n *Node) Tau() float64 { return n.tau }

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return n.children == nil }

// Segments returns the segments stored at n. An internal node can hold
// segments too: those that straddle its split or whose tolerance is
// coarser than its children's tau.
func (n *Node) Segments() []segment.Segment { return n.segments }

// Children returns the four child nodes in SW, SE, NW, NE order, or nil
// for a leaf.
func (n *Node) Children() *[4]*Node { return n.children }
