package region

// Annulus is {x ∈ ℝᵈ : a ≤ |x−u| ≤ b}. On construction a and b are
// normalized (a ≤ b, both clamped to [0, ∞)) and stored squared so the
// hot-path oracles never take a square root.
type Annulus struct {
	centre []float64
	minSq  float64
	maxSq  float64
}

// NewAnnulus builds an annulus centred at u with inner/outer radii a and b.
// a and b may arrive in either order or with negative values; both are
// clamped to [0, ∞) and swapped if necessary so a ≤ b before squaring.
func NewAnnulus(u []float64, a, b float64) *Annulus {
	if a < 0 {
		a = 0
	}
	if b < 0 {
		b = 0
	}
	if a > b {
		a, b = b, a
	}
	centre := make([]float64, len(u))
	copy(centre, u)
	return &Annulus{centre: centre, minSq: a * a, maxSq: b * b}
}

// Inclusion reports whether p's squared distance to the centre lies in
// [minSq, maxSq].
func (an *Annulus) Inclusion(p []float64) bool {
	if len(p) != len(an.centre) {
		return false
	}
	d2 := sqDist(p, an.centre)
	return d2 >= an.minSq && d2 <= an.maxSq
}

// Intersects is the conservative box oracle from spec.md §4.1: the box is
// disjoint from the annulus iff the minimum possible squared distance from
// the centre to the box exceeds maxSq, or the maximum possible squared
// distance is below minSq.
func (an *Annulus) Intersects(min, max []float64) bool {
	if len(min) != len(an.centre) || len(max) != len(an.centre) {
		return false
	}
	var minSum, maxSum float64
	for i, c := range an.centre {
		lo, hi := min[i], max[i]
		// minimum squared distance contributed by coordinate i
		if c < lo {
			d := lo - c
			minSum += d * d
		} else if c > hi {
			d := c - hi
			minSum += d * d
		}
		// maximum squared distance contributed by coordinate i
		dlo := c - lo
		dhi := c - hi
		if dlo < 0 {
			dlo = -dlo
		}
		if dhi < 0 {
			dhi = -dhi
		}
		if dlo > dhi {
			maxSum += dlo * dlo
		} else {
			maxSum += dhi * dhi
		}
	}
	if minSum > an.maxSq {
		return false
	}
	if maxSum < an.minSq {
		return false
	}
	return true
}

func sqDist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
