// Package conceptual holds small identity types shared across the index,
// kept apart from route/segment/quadtree so none of those packages need to
// import each other just to name a route.
package conceptual

// RouteID identifies one route within a collection. It is assigned by the
// collection on insertion, in input order starting at zero, and never
// reused within the collection's lifetime.
type RouteID uint64

// LOD is a level of detail: 0 is the finest (raw) level, increasing values
// are coarser simplifications.
type LOD uint32
