package region

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnnulusInclusionMatchesSquaredDistanceRelation(t *testing.T) {
	u := []float64{0, 0, 0}
	an := NewAnnulus(u, 1, 3)

	cases := []struct {
		name string
		p    []float64
		want bool
	}{
		{"at inner radius", []float64{1, 0, 0}, true},
		{"at outer radius", []float64{0, 3, 0}, true},
		{"inside annulus", []float64{0, 2, 0}, true},
		{"inside the hole", []float64{0.5, 0, 0}, false},
		{"outside the shell", []float64{0, 0, 4}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, an.Inclusion(c.p))
		})
	}
}

func TestAnnulusNormalizesOutOfOrderAndNegativeRadii(t *testing.T) {
	an := NewAnnulus([]float64{0, 0, 0}, 5, -2)
	// normalized to [0, 5]
	assert.True(t, an.Inclusion([]float64{0, 0, 0}))
	assert.True(t, an.Inclusion([]float64{5, 0, 0}))
	assert.False(t, an.Inclusion([]float64{6, 0, 0}))
}

func TestAnnulusDimensionMismatchIsFalse(t *testing.T) {
	an := NewAnnulus([]float64{0, 0, 0}, 0, 1)
	assert.False(t, an.Inclusion([]float64{0, 0}))
	assert.False(t, an.Intersects([]float64{0, 0}, []float64{1, 1}))
}

func TestIntersectionOracleIsSoundForEveryInclusion(t *testing.T) {
	an := NewAnnulus([]float64{2, 2, 2}, 1, 4)
	box := [][2]float64{{0, 5}, {0, 5}, {0, 5}}
	min := []float64{box[0][0], box[1][0], box[2][0]}
	max := []float64{box[0][1], box[1][1], box[2][1]}

	for x := 0.0; x <= 5; x += 0.5 {
		for y := 0.0; y <= 5; y += 0.5 {
			for z := 0.0; z <= 5; z += 0.5 {
				p := []float64{x, y, z}
				if an.Inclusion(p) {
					assert.True(t, an.Intersects(min, max),
						"point %v included but box reported disjoint", p)
				}
			}
		}
	}
}

func TestAnnulusIntersectsDisjointBox(t *testing.T) {
	an := NewAnnulus([]float64{0, 0, 0}, 0, 1)
	// box entirely beyond the outer radius
	assert.False(t, an.Intersects([]float64{10, 10, 10}, []float64{20, 20, 20}))
}

func TestJoinInnerIsConjunction(t *testing.T) {
	a := NewAnnulus([]float64{0, 0, 0}, 0, 2)
	b := NewAnnulus([]float64{1, 0, 0}, 0, 2)
	j := NewJoin(Inner, a, b)

	assert.True(t, j.Inclusion([]float64{0.5, 0, 0}))
	assert.False(t, j.Inclusion([]float64{-2, 0, 0}))
}

func TestJoinOuterIsDisjunction(t *testing.T) {
	a := NewAnnulus([]float64{-5, 0, 0}, 0, 1)
	b := NewAnnulus([]float64{5, 0, 0}, 0, 1)
	j := NewJoin(Outer, a, b)

	assert.True(t, j.Inclusion([]float64{-5, 0, 0}))
	assert.True(t, j.Inclusion([]float64{5, 0, 0}))
	assert.False(t, j.Inclusion([]float64{0, 0, 0}))
}

func TestJoinEmptyIdentities(t *testing.T) {
	inner := NewJoin(Inner)
	outer := NewJoin(Outer)
	p := []float64{1, 2, 3}
	assert.True(t, inner.Inclusion(p))
	assert.False(t, outer.Inclusion(p))
}

func TestVolumeOfBallApproximatesKnownValue(t *testing.T) {
	an := NewAnnulus([]float64{0, 0, 0}, 0, 1)
	a := []float64{-1, -1, -1}
	b := []float64{1, 1, 1}

	v := Volume(an, 1e-6, a, b)
	want := 4.0 / 3.0 * math.Pi
	assert.InDelta(t, want, v, 0.2)
}
