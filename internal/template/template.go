// Package template models the polymorphic Template contract of spec.md §4.4
// as a capability interface, with TessTemplate as its concrete variant.
package template

import "github.com/iriziotis/jess/internal/molecule"

// Template is the scanner's view of a geometric template: identity
// predicates per slot, pairwise distance ranges, a cross-atom coherence
// check, reference positions, and the pieces needed for the log-expectation
// heuristic and per-atom distance slack.
type Template interface {
	// Count returns the number of template slots, n.
	Count() int

	// Match reports whether candidate molecule atom a may fill slot k.
	Match(k int, a *molecule.Atom) bool

	// Range returns the allowed [min, max] distance between slots i and j.
	Range(i, j int) (min, max float64)

	// Check evaluates the cross-atom coherence predicate once count slots
	// (0..count-1) of assigned hold a candidate; the newly placed slot is
	// assigned[count-1]. ignoreChain disables chain-identity filtering.
	Check(assigned []*molecule.Atom, count int, ignoreChain bool) bool

	// Position returns slot k's reference position in the template frame.
	Position(k int) [3]float64

	// Name returns the template's symbolic name.
	Name() string

	// LogE estimates the log-expectation of a spurious hit with the given
	// RMSD, against a molecule of nMoleculeAtoms atoms.
	LogE(rmsd float64, nMoleculeAtoms int) float64

	// DistWeight returns slot k's per-atom distance slack.
	DistWeight(k int) float64
}
