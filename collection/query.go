package collection

import (
	"time"

	"github.com/rotblauer/trackindex/common"
	"github.com/rotblauer/trackindex/conceptual"
	"github.com/rotblauer/trackindex/geo"
	"github.com/rotblauer/trackindex/lod"
	"github.com/rotblauer/trackindex/params"
	"github.com/rotblauer/trackindex/segment"
)

// QueryResult is the reply to a viewport query: the intersecting
// segments at the resolution matched to the requested pixel scale, how
// long the query took, and a redundant count for callers that only want
// the size.
type QueryResult struct {
	Segments      []segment.Segment
	Elapsed       time.Duration
	SegmentsCount int
}

// Query returns the segments intersecting viewRect at the LOD implied
// by zoom and bias against the committed snapshot; it never observes a
// partially merged state and never blocks on an in-progress Load.
//
// bias is clamped to [params.MinBias, params.MaxBias]; the query
// tolerance is bias * meters-per-pixel at zoom, per spec section 4.5.
func (c *Collection) Query(viewRect geo.Rect, zoom common.SlippyZoomLevelT, bias float64) QueryResult {
	start := time.Now()
	bias = params.ClampBias(bias)
	epsQuery := bias * geo.MetersPerPixel(zoom)

	snap := c.current.Load()
	target := make(map[conceptual.RouteID]conceptual.LOD, len(snap.ladders))
	for id, ladder := range snap.ladders {
		target[id] = c.chooseLOD(id, zoom, bias, ladder, epsQuery)
	}

	segs := snap.tree.Query(viewRect, epsQuery, target)
	elapsed := time.Since(start)
	c.latencies.Add(elapsed)

	return QueryResult{Segments: segs, Elapsed: elapsed, SegmentsCount: len(segs)}
}

// chooseLOD returns the coarsest LOD level whose tolerance still
// satisfies epsQuery for one route, memoized per (route, zoom, bias
// bucket) since the same viewport is typically re-queried many times as
// the user pans without changing zoom.
func (c *Collection) chooseLOD(id conceptual.RouteID, zoom common.SlippyZoomLevelT, bias float64, ladder lod.Ladder, epsQuery float64) conceptual.LOD {
	key := lodCacheKey{route: id, zoom: int(zoom), biasBucket: int(bias * 100)}
	if v, ok := c.lodCache.Get(key); ok {
		return v
	}

	chosen := conceptual.LOD(0)
	for l, lv := range ladder {
		if lv.Epsilon <= epsQuery {
			chosen = conceptual.LOD(l)
		}
	}
	c.lodCache.Add(key, chosen)
	return chosen
}

// GroupByRoute reorganizes a query's flat segment list by RouteId for
// rendering collaborators that draw one route at a time.
func GroupByRoute(segs []segment.Segment) map[conceptual.RouteID][]segment.Segment {
	out := make(map[conceptual.RouteID][]segment.Segment)
	for _, s := range segs {
		out[s.RouteID] = append(out[s.RouteID], s)
	}
	return out
}
