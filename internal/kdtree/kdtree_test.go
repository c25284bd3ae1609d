package kdtree

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iriziotis/jess/internal/region"
)

func collect(c *Cursor) []int {
	var out []int
	for {
		i, ok := c.Next()
		if !ok {
			break
		}
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

func bruteForce(points [][3]float64, r region.Region) []int {
	var out []int
	for i, p := range points {
		if r.Inclusion(p[:]) {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

func TestBuildOnEmptyInputYieldsNilTree(t *testing.T) {
	tree := Build(nil)
	assert.Nil(t, tree)
	// querying a nil tree yields no results
	c := tree.Query(region.NewAnnulus([]float64{0, 0, 0}, 0, 1))
	_, ok := c.Next()
	assert.False(t, ok)
}

func TestQueryIsCompleteAndSound(t *testing.T) {
	points := [][3]float64{
		{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {0, 1, 0}, {0, 2, 0},
		{1, 1, 1}, {-1, -1, -1}, {3, 3, 3}, {0.5, 0.5, 0.5}, {2, 2, 0},
	}
	tree := Build(points)
	require.NotNil(t, tree)

	r := region.NewAnnulus([]float64{0, 0, 0}, 0.5, 2.5)
	got := collect(tree.Query(r))
	want := bruteForce(points, r)
	assert.Equal(t, want, got)
}

func TestQueryWithDuplicateCoordinatesTieBreaksDeterministically(t *testing.T) {
	points := [][3]float64{
		{1, 0, 0}, {1, 0, 0}, {1, 0, 0}, {0, 0, 0}, {2, 0, 0},
	}
	tree := Build(points)
	require.NotNil(t, tree)

	r := region.NewAnnulus([]float64{1, 0, 0}, 0, 0)
	got := collect(tree.Query(r))
	assert.Equal(t, []int{0, 1, 2}, got)
}

func TestSingleItemTree(t *testing.T) {
	points := [][3]float64{{5, 5, 5}}
	tree := Build(points)
	require.NotNil(t, tree)

	r := region.NewAnnulus([]float64{5, 5, 5}, 0, 0)
	got := collect(tree.Query(r))
	assert.Equal(t, []int{0}, got)

	far := region.NewAnnulus([]float64{0, 0, 0}, 0, 1)
	got = collect(tree.Query(far))
	assert.Nil(t, got)
}
