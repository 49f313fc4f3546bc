package collection

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/jellydator/ttlcache/v3"
	"github.com/rotblauer/trackindex/conceptual"
	"github.com/rotblauer/trackindex/errkind"
	"github.com/rotblauer/trackindex/lod"
	"github.com/rotblauer/trackindex/quadtree"
	"github.com/rotblauer/trackindex/route"
	"github.com/rotblauer/trackindex/stream"
)

// Source is one opaque input to Load: the collaborator has already
// parsed a track into WGS84 samples, so the only work left to the core
// is validation, projection, LOD ladder construction, and per-route
// tree building.
type Source struct {
	Samples []route.LatLon
}

// LoadOutcome reports which sources became routes and which failed,
// attributing every failure to its input index without aborting
// siblings.
type LoadOutcome struct {
	Succeeded []conceptual.RouteID
	Failed    []errkind.LoadError
}

type buildResult struct {
	idx    int
	id     conceptual.RouteID
	rt     *route.Route
	ladder lod.Ladder
	tree   *quadtree.Tree
	err    error
}

// Load builds a Route, LOD ladder, and per-route quadtree for each
// source, in parallel across a bounded worker pool, then merges the
// successful per-route trees into the committed tree with one atomic
// swap. ctx is checked when a source's build starts and again after its
// LOD ladder is computed, before tree insertion: a source that has passed
// the second check finishes and is merged, any other is reported as
// errkind.KindCancelled rather than silently dropped.
func (c *Collection) Load(ctx context.Context, sources []Source) LoadOutcome {
	if len(sources) == 0 {
		return LoadOutcome{}
	}

	baseID := conceptual.RouteID(c.nextID.Add(uint64(len(sources))) - uint64(len(sources)))

	indices := make([]int, len(sources))
	for i := range indices {
		indices[i] = i
	}
	in := stream.Slice(ctx, indices)

	workers := runtime.GOMAXPROCS(0)
	if workers > len(sources) {
		workers = len(sources)
	}
	out := make(chan buildResult)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for idx := range in {
				out <- c.buildOne(ctx, baseID, idx, sources[idx])
			}
		}()
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	results := stream.Collect(context.Background(), out)

	byIndex := make([]buildResult, len(sources))
	got := make([]bool, len(sources))
	for _, r := range results {
		byIndex[r.idx] = r
		got[r.idx] = true
	}
	// stream.Slice stops dispatching once ctx is done, so an index never
	// sent into the worker pool never produces a buildResult; treat it
	// the same as one cancelled inside buildOne rather than letting its
	// zero-valued (err=nil) slot read as a false success.
	for idx := range byIndex {
		if !got[idx] {
			byIndex[idx] = buildResult{idx: idx, id: baseID + conceptual.RouteID(idx), err: errkind.ErrCancelled}
		}
	}

	var (
		succeeded  []conceptual.RouteID
		failed     []errkind.LoadError
		trees      []*quadtree.Tree
		newRoutes  = make(map[conceptual.RouteID]*route.Route, len(sources))
		newLadders = make(map[conceptual.RouteID]lod.Ladder, len(sources))
		newPoints  int
		newLengthM float64
	)
	for _, r := range byIndex {
		if r.err != nil {
			failed = append(failed, errkind.LoadError{Index: r.idx, Kind: errkind.Classify(r.err), Err: r.err})
			continue
		}
		succeeded = append(succeeded, r.id)
		newRoutes[r.id] = r.rt
		newLadders[r.id] = r.ladder
		trees = append(trees, r.tree)
		newPoints += r.rt.PointCount()
		newLengthM += r.rt.LengthM()
	}

	batchTree := reduceTreesParallel(trees)

	c.commit.Lock()
	old := c.current.Load()
	merged := old.tree
	if batchTree != nil {
		merged = quadtree.Merge(old.tree, batchTree)
	}
	routes := make(map[conceptual.RouteID]*route.Route, len(old.routes)+len(newRoutes))
	for k, v := range old.routes {
		routes[k] = v
	}
	for k, v := range newRoutes {
		routes[k] = v
	}
	ladders := make(map[conceptual.RouteID]lod.Ladder, len(old.ladders)+len(newLadders))
	for k, v := range old.ladders {
		ladders[k] = v
	}
	for k, v := range newLadders {
		ladders[k] = v
	}
	c.current.Store(&snapshot{
		routes:       routes,
		ladders:      ladders,
		tree:         merged,
		pointCount:   old.pointCount + newPoints,
		totalLengthM: old.totalLengthM + newLengthM,
	})
	c.commit.Unlock()

	outcome := LoadOutcome{Succeeded: succeeded, Failed: failed}
	slog.Info("load batch committed",
		"succeeded", humanize.Comma(int64(len(succeeded))),
		"failed", humanize.Comma(int64(len(failed))),
		"points_added", humanize.Comma(int64(newPoints)),
		"route_count", humanize.Comma(int64(len(routes))),
	)
	c.loadFeed.Send(outcome)
	return outcome
}

func (c *Collection) buildOne(ctx context.Context, baseID conceptual.RouteID, idx int, src Source) buildResult {
	id := baseID + conceptual.RouteID(idx)
	select {
	case <-ctx.Done():
		return buildResult{idx: idx, id: id, err: errkind.ErrCancelled}
	default:
	}

	rt, err := route.New(id, src.Samples)
	if err != nil {
		return buildResult{idx: idx, id: id, err: err}
	}

	points := rt.ProjectedPoints()
	var ladder lod.Ladder
	key, cacheable := ladderKeyOf(points)
	if cacheable {
		if item := c.ladderCache.Get(key); item != nil {
			ladder = item.Value()
		}
	}
	if ladder == nil {
		ladder = lod.Build(points, lod.EpsilonZero(points))
		if cacheable {
			c.ladderCache.Set(key, ladder, ttlcache.DefaultTTL)
		}
	}

	select {
	case <-ctx.Done():
		return buildResult{idx: idx, id: id, err: errkind.ErrCancelled}
	default:
	}

	t := quadtree.New(c.cfg)
	t.InsertRoute(id, points, ladder)
	return buildResult{idx: idx, id: id, rt: rt, ladder: ladder, tree: t}
}

// reduceTreesParallel folds a batch of per-route trees into one via the
// pairwise associative merge, halving the work list concurrently rather
// than a sequential left fold: spec section 5 calls this a "parallel
// associative reduction," and a fan-in tree is the standard shape for
// one (see also stream.go's channel pipeline for the collection's other
// concurrency primitive).
func reduceTreesParallel(trees []*quadtree.Tree) *quadtree.Tree {
	switch len(trees) {
	case 0:
		return nil
	case 1:
		return trees[0]
	}
	mid := len(trees) / 2
	var left, right *quadtree.Tree
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); left = reduceTreesParallel(trees[:mid]) }()
	go func() { defer wg.Done(); right = reduceTreesParallel(trees[mid:]) }()
	wg.Wait()
	return quadtree.Merge(left, right)
}
