package segment

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/rotblauer/trackindex/conceptual"
	"github.com/rotblauer/trackindex/geo"
	"github.com/stretchr/testify/assert"
)

func TestNewPanicsOnInvertedRange(t *testing.T) {
	bbox := geo.NewRect(orb.Point{0, 0}, orb.Point{1, 1})
	assert.Panics(t, func() {
		New(1, 0, 5, 5, 0.1, bbox)
	})
}

func TestWithContextBuildersDoNotMutateOriginal(t *testing.T) {
	bbox := geo.NewRect(orb.Point{0, 0}, orb.Point{1, 1})
	base := New(1, conceptual.LOD(2), 3, 7, 0.5, bbox)

	withLeft := base.WithLeftContext(2)
	assert.False(t, base.HasLeftCtx)
	assert.True(t, withLeft.HasLeftCtx)
	assert.Equal(t, 2, withLeft.LeftCtx)

	withBoth := withLeft.WithRightContext(8)
	assert.True(t, withBoth.HasLeftCtx)
	assert.True(t, withBoth.HasRightCtx)
	assert.Equal(t, 8, withBoth.RightCtx)
}
