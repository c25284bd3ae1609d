// Package scanner implements the backtracking enumerator that pairs
// template slots with molecule atoms under per-pair distance constraints,
// using an explicit stack (no recursion) so suspension points line up
// exactly with the boundaries between emitted results.
package scanner

import (
	"github.com/pkg/errors"

	"github.com/iriziotis/jess/internal/kdtree"
	"github.com/iriziotis/jess/internal/molecule"
	"github.com/iriziotis/jess/internal/region"
	"github.com/iriziotis/jess/internal/template"
)

// Config holds the distance-slack policy shared by every slot pairing.
type Config struct {
	IgnoreChain        bool
	GlobalThreshold    float64
	MaxTotalThreshold  float64
}

// Scanner enumerates assignments of molecule atoms to template slots. It
// owns its per-slot candidate sets and kd-trees; it does not own the
// molecule or the template.
type Scanner struct {
	tpl    template.Template
	cfg    Config
	n      int
	sets   [][]*molecule.Atom
	trees  []*kdtree.Tree

	atom    []*molecule.Atom
	index   []int
	cursors []*kdtree.Cursor
	k       int

	done bool // n==1 fast path exhausted
}

// New builds a Scanner over tpl against the candidate pool atoms. If any
// template slot has zero matching candidates, construction fails and no
// scanner is returned (spec.md §7's "empty candidate" kind).
func New(tpl template.Template, atoms []*molecule.Atom, cfg Config) (*Scanner, error) {
	n := tpl.Count()
	if n == 0 {
		return nil, errors.New("template has no slots")
	}

	sets := make([][]*molecule.Atom, n)
	trees := make([]*kdtree.Tree, n)
	for k := 0; k < n; k++ {
		var set []*molecule.Atom
		for _, a := range atoms {
			if tpl.Match(k, a) {
				set = append(set, a)
			}
		}
		if len(set) == 0 {
			return nil, errors.Errorf("slot %d has no matching candidates", k)
		}
		sets[k] = set
		points := make([][3]float64, len(set))
		for i, a := range set {
			points[i] = a.Pos()
		}
		trees[k] = kdtree.Build(points)
	}

	s := &Scanner{
		tpl:   tpl,
		cfg:   cfg,
		n:     n,
		sets:  sets,
		trees: trees,

		atom:    make([]*molecule.Atom, n),
		index:   make([]int, n),
		cursors: make([]*kdtree.Cursor, n),
	}
	s.index[0] = 0
	s.atom[0] = sets[0][0]
	for k := 1; k < n; k++ {
		s.index[k] = -1
	}
	s.k = n - 1
	return s, nil
}

// Next produces the next assignment surviving identity, pairwise-distance
// and coherence checks, or reports exhaustion. The returned slice is a
// fresh copy; callers may retain it across calls.
func (s *Scanner) Next() ([]*molecule.Atom, bool) {
	if s.n == 1 {
		return s.nextSingleSlot()
	}

	for {
		switch {
		case s.k == s.n:
			result := make([]*molecule.Atom, s.n)
			copy(result, s.atom)
			s.k = s.n - 1
			return result, true

		case s.k == 0:
			s.index[0]++
			if s.index[0] >= len(s.sets[0]) {
				return nil, false
			}
			s.atom[0] = s.sets[0][s.index[0]]
			s.k = 1

		case s.cursors[s.k] != nil:
			idx, ok := s.cursors[s.k].Next()
			if !ok {
				s.cursors[s.k] = nil
				s.atom[s.k] = nil
				s.index[s.k] = -1
				s.k--
				continue
			}
			s.atom[s.k] = s.sets[s.k][idx]
			s.index[s.k] = idx
			if s.tpl.Check(s.atom, s.k+1, s.cfg.IgnoreChain) {
				s.k++
			}

		default: // no active cursor at s.k, s.k > 0
			if s.index[s.k-1] < 0 {
				s.k--
				continue
			}
			s.cursors[s.k] = s.trees[s.k].Query(s.buildRegion(s.k))
		}
	}
}

// nextSingleSlot is the n==1 fast path: Setup already assigned atom[0] from
// set[0][0], so the first call emits it directly, and later calls just walk
// the remaining candidates of set[0].
func (s *Scanner) nextSingleSlot() ([]*molecule.Atom, bool) {
	if s.done {
		return nil, false
	}
	if s.index[0] >= len(s.sets[0]) {
		s.done = true
		return nil, false
	}
	result := []*molecule.Atom{s.sets[0][s.index[0]]}
	s.index[0]++
	return result, true
}

// buildRegion constructs the inner-join annulus region bounding slot k's
// candidates, one annulus per already-placed slot j < k.
func (s *Scanner) buildRegion(k int) region.Region {
	children := make([]region.Region, 0, k)
	for j := 0; j < k; j++ {
		min, max := s.tpl.Range(j, k)
		slack := s.tpl.DistWeight(j) + s.tpl.DistWeight(k) + s.cfg.GlobalThreshold
		if s.cfg.MaxTotalThreshold > 0 && slack > s.cfg.MaxTotalThreshold {
			slack = s.cfg.MaxTotalThreshold
		}
		min -= slack
		if min < 0.5 {
			min = 0.5
		}
		max += slack
		centre := s.atom[j].Pos()
		children = append(children, region.NewAnnulus(centre[:], min, max))
	}
	return region.NewJoin(region.Inner, children...)
}
