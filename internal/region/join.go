package region

// JoinMode selects the combining rule for a Join region.
type JoinMode int

const (
	// Inner is set intersection: a point must lie in every child.
	Inner JoinMode = iota
	// Outer is set union: a point need only lie in one child.
	Outer
)

// Join combines zero or more child regions under Inner (intersection) or
// Outer (union) semantics. Join owns its children: there is no separate
// release step in Go, but callers should treat a Join's children as
// consumed once passed to NewJoin (mirrors the C original's ownership
// transfer, see spec.md §5).
type Join struct {
	children []Region
	mode     JoinMode
}

// NewJoin builds a Join over children with the given mode.
func NewJoin(mode JoinMode, children ...Region) *Join {
	return &Join{children: children, mode: mode}
}

// Inclusion is the conjunction (Inner) or disjunction (Outer) of the
// children's inclusion oracles. An empty Inner join includes everything
// (the identity of intersection); an empty Outer join includes nothing
// (the identity of union).
func (j *Join) Inclusion(p []float64) bool {
	if j.mode == Inner {
		for _, c := range j.children {
			if !c.Inclusion(p) {
				return false
			}
		}
		return true
	}
	for _, c := range j.children {
		if c.Inclusion(p) {
			return true
		}
	}
	return false
}

// Intersects mirrors Inclusion's combining rule. For Inner this is
// deliberately conservative (spec.md §4.1): the conjunction of child
// intersection oracles may overestimate when the children's boxes overlap
// without the region itself being non-empty.
func (j *Join) Intersects(min, max []float64) bool {
	if j.mode == Inner {
		for _, c := range j.children {
			if !c.Intersects(min, max) {
				return false
			}
		}
		return true
	}
	for _, c := range j.children {
		if c.Intersects(min, max) {
			return true
		}
	}
	return false
}
