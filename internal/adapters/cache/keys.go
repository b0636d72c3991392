package cache

import "math"

// coordKey quantizes a coordinate to integer thousandths of a degree
// (about 110 m) so float jitter cannot split cache entries for the same
// place.
func coordKey(deg float64) int64 {
	return int64(math.Round(deg * 1000))
}
