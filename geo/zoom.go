package geo

import (
	"github.com/rotblauer/trackindex/common"
	"github.com/shopspring/decimal"
)

// metersPerPixelZoom0 is the standard dyadic tile ladder constant: meters
// per pixel at zoom 0 on the equator, for 256px tiles. Tabulated as a
// decimal rather than a float literal so the halving at each zoom level
// below is computed from one exact base value instead of re-deriving it
// with math.Pow at each call site.
//
//	Level  m/pixel (equator)
//	0      156543.03392804097
//	1       78271.51696402048
//	2       39135.75848201024
//	...    (halves each level)
var metersPerPixelZoom0 = decimal.NewFromFloat(156543.03392804097)

// MetersPerPixel returns the meters one screen pixel represents at the
// given slippy-map zoom level, on the equator, following the standard
// dyadic tile ladder tabulated in metersPerPixelZoom0's doc comment.
func MetersPerPixel(zoom common.SlippyZoomLevelT) float64 {
	z := int(zoom)
	if z < 0 {
		z = 0
	}
	divisor := decimal.New(1, 0)
	two := decimal.New(2, 0)
	for i := 0; i < z; i++ {
		divisor = divisor.Mul(two)
	}
	return metersPerPixelZoom0.Div(divisor).InexactFloat64()
}
