package template

import "github.com/iriziotis/jess/internal/molecule"

// TessAtom is one slot of a TessTemplate: a match code, the set of
// acceptable atom-name and residue-name alternates, the slot's chain/residue
// identity (for the Check coherence predicate), its reference position and
// its per-atom distance weight.
type TessAtom struct {
	Code int

	// Names are the acceptable (normalized, 4-char) atom-name alternates;
	// Names[0] is also used as the reference name for the atom-type
	// (code 3/103) and same-position (code 8) predicates.
	Names []string

	// ResNames are the acceptable (3-char) residue-name alternates.
	ResNames []string

	ChainID1, ChainID2 byte
	ResSeq             int

	Position   [3]float64
	DistWeight float64
}

// matchesAny reports whether s equals any entry of set.
func matchesAny(set []string, s string) bool {
	for _, c := range set {
		if c == s {
			return true
		}
	}
	return false
}

// elementOf extracts the element symbol from a normalized 4-char atom name:
// a leading '_' means the element occupies a single column (name[1]),
// otherwise it occupies the first two columns.
func elementOf(name string) string {
	if len(name) < 2 {
		return name
	}
	if name[0] == '_' {
		return name[1:2]
	}
	return name[0:2]
}

// samePosition compares the structural "position" of two atom names: the
// substituent-index characters, ignoring the element character(s). For a
// single-column element (name[0] == '_') only name[2] is compared;
// otherwise both name[1] and name[2] are compared.
func samePosition(a, b string) bool {
	if len(a) < 3 || len(b) < 3 {
		return false
	}
	if a[0] == '_' {
		return a[2] == b[2]
	}
	return a[1] == b[1] && a[2] == b[2]
}

// Match reports whether candidate atom a may fill this slot, dispatching on
// the Tess match code (spec.md §4.4):
//
//	0/-1  exact atom name, exact residue
//	1     side-chain, non-carbon, non-hydrogen; exact residue
//	2     any non-carbon, non-hydrogen; exact residue
//	3     matching element, non-hydrogen; exact residue
//	4     main-chain, non-carbon, non-hydrogen; exact residue
//	5     any main-chain, non-hydrogen; exact residue
//	6     any side-chain, non-hydrogen; exact residue
//	7     any non-hydrogen; exact residue
//	8     same structural position, non-hydrogen; exact residue (one of several)
//	100-107  as 0-7, without the residue-name requirement
func (t *TessAtom) Match(a *molecule.Atom) bool {
	name := a.Name
	resOK := matchesAny(t.ResNames, a.ResName)

	code := t.Code
	requireRes := true
	base := code
	if code >= 100 && code <= 107 {
		requireRes = false
		base = code - 100
	}

	var ok bool
	switch base {
	case 0, -1:
		ok = matchesAny(t.Names, name)
	case 1:
		ok = !molecule.IsMainChain(name) && !molecule.IsCarbon(name) && !molecule.IsHydrogen(name)
	case 2:
		ok = !molecule.IsCarbon(name) && !molecule.IsHydrogen(name)
	case 3:
		ok = len(t.Names) > 0 && elementOf(t.Names[0]) == elementOf(name) && !molecule.IsHydrogen(name)
	case 4:
		ok = molecule.IsMainChain(name) && !molecule.IsCarbon(name) && !molecule.IsHydrogen(name)
	case 5:
		ok = molecule.IsMainChain(name) && !molecule.IsHydrogen(name)
	case 6:
		ok = !molecule.IsMainChain(name) && !molecule.IsHydrogen(name)
	case 7:
		ok = !molecule.IsHydrogen(name)
	case 8:
		ok = len(t.Names) > 0 && samePosition(t.Names[0], name) && !molecule.IsHydrogen(name)
	default:
		return false
	}

	if !ok {
		return false
	}
	if requireRes {
		return resOK
	}
	return true
}
