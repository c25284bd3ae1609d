// Package hitio writes accepted query.Hit values as PDB-like hit records:
// a REMARK summary line, one ATOM line per matched template slot, and a
// terminating ENDMDL (spec.md §6).
package hitio

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/iriziotis/jess/internal/molecule"
	"github.com/iriziotis/jess/internal/query"
	"github.com/iriziotis/jess/internal/superpose"
)

// Options controls how a Hit's atoms are emitted.
type Options struct {
	// ID is the 4-character molecule identifier printed on the REMARK line.
	ID string
	// Transform, when true, writes each matched atom's position transformed
	// into the template frame via the hit's superposition rather than its
	// raw molecule-frame coordinates.
	Transform bool
}

// Write emits one hit block: a REMARK line, one ATOM record per matched
// slot (in template order), and a terminating ENDMDL.
//
//	REMARK <id> <rmsd> <template_name> Det= <det> log(E)~ <logE>
func Write(w io.Writer, hit *query.Hit, opts Options) error {
	sp := hit.Super
	_, err := fmt.Fprintf(w, "REMARK %s %.3f %s Det= %.3f log(E)~ %.3f\n",
		blank4(opts.ID), hit.RMSD, hit.Template.Name(), sp.Det(), hit.LogE)
	if err != nil {
		return errors.Wrap(err, "write hit remark")
	}

	for _, a := range hit.Atoms {
		pos := a.Pos()
		if opts.Transform {
			pos = [3]float64(sp.Transform(superpose.Vec3(pos)))
		}
		out := cloneWithPos(a, pos)
		if err := molecule.WriteAtom(w, out); err != nil {
			return errors.Wrap(err, "write hit atom")
		}
	}

	_, err = io.WriteString(w, "ENDMDL\n")
	return errors.Wrap(err, "write hit endmdl")
}

// cloneWithPos copies a, substituting pos for its coordinates: the original
// molecule atom must not be mutated by a transformed write.
func cloneWithPos(a *molecule.Atom, pos [3]float64) *molecule.Atom {
	out := *a
	out.X, out.Y, out.Z = pos[0], pos[1], pos[2]
	return &out
}

func blank4(id string) string {
	if id == "" {
		return "????"
	}
	return id
}
