package superpose

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// offDiagPairs is the fixed cyclic sweep order over a symmetric 3x3
// matrix's three off-diagonal positions (spec.md §4.3 step 4).
var offDiagPairs = [3][2]int{{0, 1}, {0, 2}, {1, 2}}

// jacobiEigen3 diagonalizes the symmetric 3x3 matrix w by cyclic Jacobi
// rotations, repeating sweeps until the sum of absolute off-diagonal
// entries drops below jacobiTolerance. It returns the (clamped
// non-negative) eigenvalues and the matrix of eigenvectors as columns.
func jacobiEigen3(w *mat.Dense) (eigenvalues [3]float64, eigenvectors *mat.Dense) {
	a := mat.NewDense(3, 3, nil)
	a.Copy(w)
	v := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})

	for sweep := 0; sweep < 100; sweep++ {
		if offDiagSum(a) < jacobiTolerance {
			break
		}
		for _, pq := range offDiagPairs {
			p, q := pq[0], pq[1]
			jacobiRotate(a, v, p, q)
		}
	}

	for i := 0; i < 3; i++ {
		e := a.At(i, i)
		if e < 0 {
			e = 0
		}
		eigenvalues[i] = e
	}
	return eigenvalues, v
}

// jacobiRotate applies a single Jacobi rotation eliminating a[p][q], with
// angle θ = ½·atan2(2·a[p][q], a[q][q]−a[p][p]) per spec.md §4.3 step 4.
func jacobiRotate(a, v *mat.Dense, p, q int) {
	apq := a.At(p, q)
	if apq == 0 {
		return
	}
	app, aqq := a.At(p, p), a.At(q, q)
	theta := 0.5 * math.Atan2(2*apq, aqq-app)
	c, s := math.Cos(theta), math.Sin(theta)

	newApp := c*c*app - 2*s*c*apq + s*s*aqq
	newAqq := s*s*app + 2*s*c*apq + c*c*aqq
	a.Set(p, p, newApp)
	a.Set(q, q, newAqq)
	a.Set(p, q, 0)
	a.Set(q, p, 0)

	for k := 0; k < 3; k++ {
		if k == p || k == q {
			continue
		}
		akp, akq := a.At(k, p), a.At(k, q)
		nkp := c*akp - s*akq
		nkq := s*akp + c*akq
		a.Set(k, p, nkp)
		a.Set(p, k, nkp)
		a.Set(k, q, nkq)
		a.Set(q, k, nkq)
	}

	for k := 0; k < 3; k++ {
		vkp, vkq := v.At(k, p), v.At(k, q)
		v.Set(k, p, c*vkp-s*vkq)
		v.Set(k, q, s*vkp+c*vkq)
	}
}

func offDiagSum(a *mat.Dense) float64 {
	var sum float64
	for _, pq := range offDiagPairs {
		v := a.At(pq[0], pq[1])
		if v < 0 {
			v = -v
		}
		sum += v
	}
	return sum
}
