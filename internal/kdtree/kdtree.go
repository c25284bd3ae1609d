// Package kdtree implements a static 3D kd-tree supporting region queries:
// given a region.Region, return the indices of the tree's points that lie
// inside it.
package kdtree

import (
	"sort"

	"github.com/iriziotis/jess/internal/region"
)

const dims = 3

// node is either an internal split node or a leaf holding one point index.
type node struct {
	// leaf fields
	isLeaf bool
	point  int // index into Tree.points

	// internal fields
	axis  int
	left  *node
	right *node

	// every node (leaf or internal) carries the bounding box of its subtree
	min, max [dims]float64
}

// Tree is an immutable kd-tree over a fixed set of 3D points. The zero
// value is not usable; build one with Build.
type Tree struct {
	points [][dims]float64
	root   *node
}

// Build constructs a kd-tree over points. An empty input yields a nil Tree
// (spec.md §4.2: "empty input ⇒ no tree").
func Build(points [][dims]float64) *Tree {
	if len(points) == 0 {
		return nil
	}
	idx := make([]int, len(points))
	for i := range idx {
		idx[i] = i
	}
	t := &Tree{points: points}
	t.root = build(points, idx, 0)
	return t
}

// build recurses on the index slice idx, splitting on axis r = depth mod 3.
// The median position is advanced rightward through any run of points that
// share the splitting coordinate, so ties break deterministically (equal
// values go left of the split). When that run reaches the end of the slice,
// which would leave the right half empty, the split falls back to the plain
// halves idx[:n/2] and idx[n/2:]; equal values may then fall on both sides.
func build(points [][dims]float64, idx []int, depth int) *node {
	axis := depth % dims
	if len(idx) == 1 {
		p := points[idx[0]]
		return &node{isLeaf: true, point: idx[0], min: p, max: p}
	}

	sort.Slice(idx, func(i, j int) bool {
		return points[idx[i]][axis] < points[idx[j]][axis]
	})

	mid := len(idx) / 2
	medianVal := points[idx[mid]][axis]
	for mid+1 < len(idx) && points[idx[mid+1]][axis] == medianVal {
		mid++
	}
	if mid+1 == len(idx) {
		mid = len(idx)/2 - 1
	}

	leftIdx := idx[:mid+1]
	rightIdx := idx[mid+1:]

	var left, right *node
	left = build(points, leftIdx, depth+1)
	if len(rightIdx) > 0 {
		right = build(points, rightIdx, depth+1)
	}

	n := &node{axis: axis, left: left, right: right}
	n.min, n.max = left.min, left.max
	if right != nil {
		n.min, n.max = unionBox(n.min, n.max, right.min, right.max)
	}
	return n
}

func unionBox(aMin, aMax, bMin, bMax [dims]float64) (min, max [dims]float64) {
	for i := 0; i < dims; i++ {
		min[i] = mathMin(aMin[i], bMin[i])
		max[i] = mathMax(aMax[i], bMax[i])
	}
	return
}

func mathMin(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func mathMax(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// depth reports the tree's height, used to pre-size the explicit query
// stack.
func (t *Tree) depth() int {
	if t == nil || t.root == nil {
		return 0
	}
	return nodeDepth(t.root)
}

func nodeDepth(n *node) int {
	if n.isLeaf {
		return 1
	}
	ld, rd := 0, 0
	if n.left != nil {
		ld = nodeDepth(n.left)
	}
	if n.right != nil {
		rd = nodeDepth(n.right)
	}
	if ld > rd {
		return ld + 1
	}
	return rd + 1
}

// Query returns an iterator over the indices of points lying in r. The
// traversal maintains an explicit stack (no recursion, per spec.md §9):
// callers must not assume any particular emission order among the matching
// indices.
func (t *Tree) Query(r region.Region) *Cursor {
	c := &Cursor{}
	if t == nil || t.root == nil {
		return c
	}
	c.stack = make([]*node, 0, t.depth()+1)
	c.region = r
	c.points = t.points
	c.stack = append(c.stack, t.root)
	return c
}

// Cursor is a pull-based iterator over a region query's matching point
// indices, preserving the backtracking-friendly explicit-state style used
// throughout this engine (spec.md §9).
type Cursor struct {
	stack  []*node
	region region.Region
	points [][dims]float64
}

// Next advances the cursor and reports the next matching point index. ok is
// false once the traversal is exhausted.
func (c *Cursor) Next() (idx int, ok bool) {
	for len(c.stack) > 0 {
		n := c.stack[len(c.stack)-1]
		c.stack = c.stack[:len(c.stack)-1]

		if n.isLeaf {
			if c.region.Inclusion(c.points[n.point][:]) {
				return n.point, true
			}
			continue
		}
		if !c.region.Intersects(n.min[:], n.max[:]) {
			continue
		}
		if n.left != nil {
			c.stack = append(c.stack, n.left)
		}
		if n.right != nil {
			c.stack = append(c.stack, n.right)
		}
	}
	return 0, false
}
