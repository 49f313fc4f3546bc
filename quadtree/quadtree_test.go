package quadtree

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/rotblauer/trackindex/conceptual"
	"github.com/rotblauer/trackindex/geo"
	"github.com/rotblauer/trackindex/lod"
	"github.com/rotblauer/trackindex/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// straightRoute builds n planar points walking a straight diagonal line
// across a few hundred kilometers, comfortably inside the Mercator
// square, so ladder levels and tree placement are easy to reason about.
func straightRoute(n int, originX, originY float64) []orb.Point {
	pts := make([]orb.Point, n)
	for i := 0; i < n; i++ {
		pts[i] = orb.Point{originX + float64(i)*50, originY + float64(i)*50}
	}
	return pts
}

func buildTree(t *testing.T, cfg params.Config, routes map[conceptual.RouteID][]orb.Point) *Tree {
	t.Helper()
	tree := New(cfg)
	for id, pts := range routes {
		ladder := lod.Build(pts, lod.EpsilonZero(pts))
		tree.InsertRoute(id, pts, ladder)
	}
	return tree
}

func TestInsertRouteEveryLevelReachableByQuery(t *testing.T) {
	cfg := params.DefaultConfig()
	cfg.MaxSegmentsPerNode = 4
	pts := straightRoute(2000, -1_000_000, -1_000_000)
	ladder := lod.Build(pts, lod.EpsilonZero(pts))

	tree := New(cfg)
	tree.InsertRoute(0, pts, ladder)

	full := tree.Query(geo.EarthRect(), 0, nil)
	require.NotEmpty(t, full)

	byLevel := map[conceptual.LOD]int{}
	for _, s := range full {
		byLevel[s.LOD]++
	}
	assert.Len(t, byLevel, len(ladder), "every ladder level should have placed at least one segment")
}

func TestQueryRestrictsToTargetLevel(t *testing.T) {
	cfg := params.DefaultConfig()
	pts := straightRoute(500, 0, 0)
	ladder := lod.Build(pts, lod.EpsilonZero(pts))
	tree := New(cfg)
	tree.InsertRoute(7, pts, ladder)

	target := map[conceptual.RouteID]conceptual.LOD{7: conceptual.LOD(len(ladder) - 1)}
	coarse := tree.Query(geo.EarthRect(), 0, target)
	require.NotEmpty(t, coarse)
	for _, s := range coarse {
		assert.Equal(t, conceptual.LOD(len(ladder)-1), s.LOD)
	}
}

func TestQueryIsolatesDisjointRoutes(t *testing.T) {
	cfg := params.DefaultConfig()
	a := straightRoute(300, -5_000_000, -5_000_000)
	b := straightRoute(300, 5_000_000, 5_000_000)
	tree := buildTree(t, cfg, map[conceptual.RouteID][]orb.Point{0: a, 1: b})

	nearA := geo.NewRect(orb.Point{-5_100_000, -5_100_000}, orb.Point{-4_800_000, -4_800_000})
	got := tree.Query(nearA, 0, nil)
	require.NotEmpty(t, got)
	for _, s := range got {
		assert.Equal(t, conceptual.RouteID(0), s.RouteID)
	}
}

func TestSubdivisionRespectsCapacity(t *testing.T) {
	cfg := params.DefaultConfig()
	cfg.MaxSegmentsPerNode = 2
	pts := straightRoute(4000, -2_000_000, -2_000_000)
	ladder := lod.Build(pts, lod.EpsilonZero(pts))
	tree := New(cfg)
	tree.InsertRoute(0, pts, ladder)

	st := tree.ComputeStats()
	assert.Greater(t, st.MaxDepth, 0, "a dense route should force at least one subdivision")
	assert.Equal(t, st.Segments, len(tree.Query(geo.EarthRect(), 0, nil)))
}

func TestMergeIsOrderIndependent(t *testing.T) {
	cfg := params.DefaultConfig()
	cfg.MaxSegmentsPerNode = 8
	a := straightRoute(600, -3_000_000, 1_000_000)
	b := straightRoute(600, 2_000_000, -3_000_000)

	treeA1 := New(cfg)
	treeA1.InsertRoute(0, a, lod.Build(a, lod.EpsilonZero(a)))
	treeB1 := New(cfg)
	treeB1.InsertRoute(1, b, lod.Build(b, lod.EpsilonZero(b)))
	mergedAB := Merge(treeA1, treeB1)

	treeA2 := New(cfg)
	treeA2.InsertRoute(0, a, lod.Build(a, lod.EpsilonZero(a)))
	treeB2 := New(cfg)
	treeB2.InsertRoute(1, b, lod.Build(b, lod.EpsilonZero(b)))
	mergedBA := Merge(treeB2, treeA2)

	statsAB := mergedAB.ComputeStats()
	statsBA := mergedBA.ComputeStats()
	assert.Equal(t, statsAB.Segments, statsBA.Segments)

	gotAB := mergedAB.Query(geo.EarthRect(), 0, nil)
	gotBA := mergedBA.Query(geo.EarthRect(), 0, nil)
	assert.Equal(t, len(gotAB), len(gotBA))
}

func TestQueryPruningRespectsEpsilon(t *testing.T) {
	cfg := params.DefaultConfig()
	cfg.MaxSegmentsPerNode = 4
	pts := straightRoute(3000, -1_000_000, -1_000_000)
	tree := New(cfg)
	tree.InsertRoute(0, pts, lod.Build(pts, lod.EpsilonZero(pts)))

	all := tree.Query(geo.EarthRect(), 0, nil)
	pruned := tree.Query(geo.EarthRect(), math.MaxFloat64/2, nil)
	assert.LessOrEqual(t, len(pruned), len(all))
}
