// Package superpose computes the RMSD-optimal rigid superposition of two
// paired 3D point sets (spec.md §4.3): an append-only accumulator with a
// lazily-computed, cache-invalidated result (centroids, rotation, RMSD).
package superpose

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// jacobiTolerance is the convergence threshold on the sum of absolute
// off-diagonal entries of the covariance-product matrix being diagonalized.
const jacobiTolerance = 1e-12

// reflectionThreshold flags a reflected (improper) superposition.
const reflectionThreshold = 1e-8

// Vec3 is a 3D vector.
type Vec3 [3]float64

// Superposition accumulates paired vectors (xᵢ, yᵢ) and, on demand,
// computes the rotation taking the centred x-frame onto the centred
// y-frame, plus its RMSD. Append invalidates the cache; any observation
// recomputes it if stale.
type Superposition struct {
	xs, ys []Vec3

	upToDate bool
	c0, c1   Vec3
	rotation [3][3]float64
	det      float64
	rmsd     float64
	rmsd100  float64
}

// New returns an empty Superposition.
func New() *Superposition {
	return &Superposition{}
}

// Append adds a paired observation (x, y) and marks the cached result
// stale.
func (s *Superposition) Append(x, y Vec3) {
	s.xs = append(s.xs, x)
	s.ys = append(s.ys, y)
	s.upToDate = false
}

// Len returns the number of appended pairs.
func (s *Superposition) Len() int {
	return len(s.xs)
}

func (s *Superposition) compute() {
	if s.upToDate {
		return
	}
	s.upToDate = true
	n := len(s.xs)
	if n <= 1 {
		s.rmsd, s.rmsd100 = 0, 0
		s.rotation = identity3()
		s.det = 1
		if n == 1 {
			s.c0, s.c1 = s.xs[0], s.ys[0]
		}
		return
	}

	c0 := centroid(s.xs)
	c1 := centroid(s.ys)
	s.c0, s.c1 = c0, c1

	A := mat.NewDense(n, 3, nil)
	B := mat.NewDense(n, 3, nil)
	var sumA2, sumB2 float64
	for i := 0; i < n; i++ {
		ax := s.xs[i][0] - c0[0]
		ay := s.xs[i][1] - c0[1]
		az := s.xs[i][2] - c0[2]
		bx := s.ys[i][0] - c1[0]
		by := s.ys[i][1] - c1[1]
		bz := s.ys[i][2] - c1[2]
		A.Set(i, 0, ax)
		A.Set(i, 1, ay)
		A.Set(i, 2, az)
		B.Set(i, 0, bx)
		B.Set(i, 1, by)
		B.Set(i, 2, bz)
		sumA2 += ax*ax + ay*ay + az*az
		sumB2 += bx*bx + by*by + bz*bz
	}

	// X = AᵀB, the 3x3 cross-covariance.
	var X mat.Dense
	X.Mul(A.T(), B)
	det := mat.Det(&X)
	s.det = det

	var XtX mat.Dense
	XtX.Mul(X.T(), &X)

	e, P := jacobiEigen3(&XtX)

	minIdx := 0
	for i := 1; i < 3; i++ {
		if e[i] < e[minIdx] {
			minIdx = i
		}
	}

	sumE := math.Sqrt(e[0]) + math.Sqrt(e[1]) + math.Sqrt(e[2])
	reflected := det < reflectionThreshold
	if reflected {
		sumE -= 2 * math.Sqrt(e[minIdx])
	}

	s.rmsd = math.Sqrt(math.Max(sumA2+sumB2-2*sumE, 0) / float64(n))
	s.rmsd100 = s.rmsd / (1 + 0.5*math.Log(float64(n)/100))

	// Recover the rotation: T[i,j] = Σ_k X[i,k] P[k,j] / factor(j).
	var T [3][3]float64
	for j := 0; j < 3; j++ {
		factor := math.Sqrt(e[j])
		if reflected && j == minIdx {
			factor = -factor
		}
		for i := 0; i < 3; i++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += X.At(i, k) * P.At(k, j)
			}
			if factor != 0 {
				T[i][j] = sum / factor
			}
		}
	}
	// M[i,j] = Σ_k P[i,k] T[j,k]  (M = P · Tᵀ)
	var M [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += P.At(i, k) * T[j][k]
			}
			M[i][j] = sum
		}
	}
	s.rotation = M
}

// Centroid returns the pair of centroids (c0, c1), recomputing if stale.
func (s *Superposition) Centroid() (Vec3, Vec3) {
	s.compute()
	return s.c0, s.c1
}

// Rotation returns the rotation matrix M such that y ≈ M·(x − c0) + c1,
// recomputing if stale.
func (s *Superposition) Rotation() [3][3]float64 {
	s.compute()
	return s.rotation
}

// Det returns det(X) for the covariance X = AᵀB, used by callers to
// diagnose a reflected (improper) superposition (spec.md §4.3 step 5, §7).
func (s *Superposition) Det() float64 {
	s.compute()
	return s.det
}

// RMSD returns the root-mean-square deviation of the optimal superposition,
// recomputing if stale.
func (s *Superposition) RMSD() float64 {
	s.compute()
	return s.rmsd
}

// RMSD100 returns the size-normalized RMSD100 = rmsd / (1 + 0.5·ln(n/100)).
func (s *Superposition) RMSD100() float64 {
	s.compute()
	return s.rmsd100
}

// Transform applies the recovered rigid transform to x: M·(x − c0) + c1.
func (s *Superposition) Transform(x Vec3) Vec3 {
	s.compute()
	c0, c1 := s.c0, s.c1
	M := s.rotation
	d := Vec3{x[0] - c0[0], x[1] - c0[1], x[2] - c0[2]}
	var out Vec3
	for i := 0; i < 3; i++ {
		out[i] = M[i][0]*d[0] + M[i][1]*d[1] + M[i][2]*d[2] + c1[i]
	}
	return out
}

func centroid(pts []Vec3) Vec3 {
	var c Vec3
	for _, p := range pts {
		c[0] += p[0]
		c[1] += p[1]
		c[2] += p[2]
	}
	n := float64(len(pts))
	c[0] /= n
	c[1] /= n
	c[2] /= n
	return c
}

func identity3() [3][3]float64 {
	return [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}
