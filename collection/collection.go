// Package collection is the orchestrator: it owns every Route and the
// single global quadtree, loads batches of routes in parallel, merges
// per-route trees into the committed tree by atomic snapshot swap, and
// answers viewport queries against the most recently committed
// snapshot. Grounded on the teacher's daemon-style ownership model
// (state.State-like exclusive ownership of durable data) generalized
// here to a lock-free-read, single-writer-commit snapshot instead of a
// persistent store, since the index lives entirely in memory.
package collection

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/event"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jellydator/ttlcache/v3"
	"github.com/mitchellh/hashstructure/v2"
	"github.com/paulmach/orb"
	"github.com/rotblauer/trackindex/common"
	"github.com/rotblauer/trackindex/conceptual"
	"github.com/rotblauer/trackindex/lod"
	"github.com/rotblauer/trackindex/params"
	"github.com/rotblauer/trackindex/quadtree"
	"github.com/rotblauer/trackindex/route"
)

// snapshot is one immutable, fully-committed view of the collection: the
// route table, each route's LOD ladder, the merged global tree, and the
// aggregate figures Stats reports. Readers hold a *snapshot for the
// duration of one call; nothing about it is ever mutated after
// publication.
type snapshot struct {
	routes       map[conceptual.RouteID]*route.Route
	ladders      map[conceptual.RouteID]lod.Ladder
	tree         *quadtree.Tree
	pointCount   int
	totalLengthM float64
}

// Collection is the public entry point: Load routes into it, then Query
// the committed state. Safe for concurrent use; queries never block on
// an in-progress load.
type Collection struct {
	cfg params.Config

	current atomic.Pointer[snapshot]
	nextID  atomic.Uint64
	commit  sync.Mutex // serializes the merge-and-swap step only

	lodCache    *lru.Cache[lodCacheKey, conceptual.LOD]
	ladderCache *ttlcache.Cache[uint64, lod.Ladder]
	latencies   *common.RingBuffer[time.Duration]
	loadFeed    event.FeedOf[LoadOutcome]
}

// SubscribeLoadOutcomes registers ch to receive every LoadOutcome
// published by a future Load call. Send blocks until every subscriber
// has received the value, so callers should give ch enough buffer to
// keep Load from waiting on a slow reader.
func (c *Collection) SubscribeLoadOutcomes(ch chan<- LoadOutcome) event.Subscription {
	return c.loadFeed.Subscribe(ch)
}

// New builds an empty collection tuned by cfg.
func New(cfg params.Config) *Collection {
	c := &Collection{cfg: cfg}
	c.current.Store(&snapshot{
		routes:  make(map[conceptual.RouteID]*route.Route),
		ladders: make(map[conceptual.RouteID]lod.Ladder),
		tree:    quadtree.New(cfg),
	})
	lodCache, _ := lru.New[lodCacheKey, conceptual.LOD](4096)
	c.lodCache = lodCache
	c.ladderCache = ttlcache.New[uint64, lod.Ladder](
		ttlcache.WithTTL[uint64, lod.Ladder](5 * time.Minute),
	)
	c.latencies = common.NewRingBuffer[time.Duration](256)
	return c
}

// CollectionStats is the aggregate figures reported by Stats.
type CollectionStats struct {
	RouteCount   int
	PointCount   int
	TotalLengthM float64
	LastQueryMS  float64
}

// Stats reports the committed snapshot's aggregate figures and the most
// recent query's latency. Never blocks on a load.
func (c *Collection) Stats() CollectionStats {
	snap := c.current.Load()
	var lastMS float64
	if c.latencies.Len() > 0 {
		lastMS = common.DecimalToFixed(float64(c.latencies.Last())/float64(time.Millisecond), 3)
	}
	return CollectionStats{
		RouteCount:   len(snap.routes),
		PointCount:   snap.pointCount,
		TotalLengthM: snap.totalLengthM,
		LastQueryMS:  lastMS,
	}
}

// Route returns a borrowed pointer to the route id as of the current
// committed snapshot, and whether it exists. The returned *route.Route
// is immutable and safe to hold onto, but a route removed by a future
// Clear (or absent from an older snapshot) is not reflected in it: the
// snapshot it came from stays valid for as long as the caller keeps it.
func (c *Collection) Route(id conceptual.RouteID) (*route.Route, bool) {
	snap := c.current.Load()
	rt, ok := snap.routes[id]
	return rt, ok
}

// Clear discards every route and resets to an empty committed tree.
// Existing query snapshots already handed out remain valid; only the
// next Query call observes the empty state.
func (c *Collection) Clear() {
	c.commit.Lock()
	defer c.commit.Unlock()
	c.current.Store(&snapshot{
		routes:  make(map[conceptual.RouteID]*route.Route),
		ladders: make(map[conceptual.RouteID]lod.Ladder),
		tree:    quadtree.New(c.cfg),
	})
}

// ladderKeyOf hashes a route's planar polyline for the simplification
// cache; a hash collision only costs a wasted recompute, never
// correctness, so a fast non-cryptographic content hash is enough.
func ladderKeyOf(points []orb.Point) (uint64, bool) {
	h, err := hashstructure.Hash(points, hashstructure.FormatV2, nil)
	if err != nil {
		return 0, false
	}
	return h, true
}

type lodCacheKey struct {
	route      conceptual.RouteID
	zoom       int
	biasBucket int
}
