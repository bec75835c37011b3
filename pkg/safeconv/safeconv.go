// Package safeconv provides integer conversions for byte sizes and counts.
package safeconv

// ClampToUint64 converts v to uint64, mapping negative values to zero.
func ClampToUint64(v int64) uint64 {
	if v < 0 {
		return 0
	}

	return uint64(v)
}

// MustIntToUint64 converts int to uint64, panics if negative.
// Use only when negative values are logically impossible.
func MustIntToUint64(v int) uint64 {
	if v < 0 {
		panic("safeconv: negative int to uint64 conversion")
	}

	return uint64(v)
}
