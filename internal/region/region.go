// Package region implements the abstract geometric region algebra used to
// express neighborhood constraints over 3D points: an inclusion oracle
// (is point p in R?) and a conservative intersection oracle (does box
// [min,max] intersect R?).
package region

// Region is an abstract subset of ℝᵈ exposing two oracles.
//
// Invariants:
//   - Inclusion(p) implies Intersects(p, p).
//   - Intersects must be conservative: it may return true for a box that
//     turns out to be empty of region points, but must never return false
//     for a box that does contain one.
type Region interface {
	// Inclusion reports whether p lies in the region. A dimension mismatch
	// between p and the region is reported as false, not a panic.
	Inclusion(p []float64) bool

	// Intersects reports whether the axis-aligned box [min, max] can
	// possibly intersect the region.
	Intersects(min, max []float64) bool
}
