package common

// SlippyZoomLevelT is a standard slippy-map zoom level: 0 is the whole
// world in one 256px tile; each increment doubles the tile count per axis
// and halves the ground distance one screen pixel represents. geo.
// MetersPerPixel and collection.Query take one of these rather than a bare
// int so a caller can't accidentally pass a pixel count or a LOD level
// where a zoom level belongs.
type SlippyZoomLevelT int

// SlippyZoomLevel0 is the coarsest zoom level, the whole world in one
// view. geo.MetersPerPixel's dyadic tile ladder is anchored here
// (156543.034 m/pixel on the equator, 256px tiles) and halves once per
// level above it.
const SlippyZoomLevel0 SlippyZoomLevelT = 0
