package region

// Volume estimates the d-dimensional volume of R restricted to the box
// [a, b] by adaptive box subdivision: boxes are split in half at the
// midpoint of a cycling axis until each surviving sub-box has volume ≤ eps,
// then the volumes of intersecting leaves are accumulated. Diagnostic only
// (spec.md §4.1); not on the scanner's hot path.
func Volume(r Region, eps float64, a, b []float64) float64 {
	if !r.Intersects(a, b) {
		return 0
	}
	return subdivide(r, eps, a, b, 0)
}

func subdivide(r Region, eps float64, a, b []float64, axis int) float64 {
	vol := boxVolume(a, b)
	if vol <= eps {
		return vol
	}
	d := len(a)
	axis = axis % d
	mid := (a[axis] + b[axis]) / 2

	loB := make([]float64, d)
	copy(loB, b)
	loB[axis] = mid
	hiA := make([]float64, d)
	copy(hiA, a)
	hiA[axis] = mid

	var total float64
	if r.Intersects(a, loB) {
		total += subdivide(r, eps, a, loB, axis+1)
	}
	if r.Intersects(hiA, b) {
		total += subdivide(r, eps, hiA, b, axis+1)
	}
	return total
}

func boxVolume(a, b []float64) float64 {
	vol := 1.0
	for i := range a {
		vol *= b[i] - a[i]
	}
	return vol
}
