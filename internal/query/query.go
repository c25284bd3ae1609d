// Package query wraps scanner iteration across a list of templates behind
// a single cursor, lazily building a superposition per accepted tuple and
// gating on RMSD (spec.md §4.6).
package query

import (
	"github.com/iriziotis/jess/internal/molecule"
	"github.com/iriziotis/jess/internal/scanner"
	"github.com/iriziotis/jess/internal/superpose"
	"github.com/iriziotis/jess/internal/template"
)

// DefaultBudget is the emission cap applied when Config.Budget is zero: an
// injectable policy knob, not an algorithmic invariant (spec.md §5).
const DefaultBudget = 1000

// Config controls a Query's scanning and gating policy.
type Config struct {
	Scanner scanner.Config
	// RMSD is the maximum RMSD a hit may have to be reported.
	RMSD float64
	// Budget caps the number of candidate tuples drawn across the whole
	// query, regardless of template. Zero means DefaultBudget.
	Budget int
}

// Hit is one accepted, RMSD-gated template match.
type Hit struct {
	Template template.Template
	Atoms    []*molecule.Atom
	Super    *superpose.Superposition
	RMSD     float64
	LogE     float64
}

// Query drives a list of templates against a fixed pool of candidate atoms,
// one scanner at a time, in the order the templates were supplied.
type Query struct {
	templates []template.Template
	pool      []*molecule.Atom
	cfg       Config

	ti        int // index of the next template to try
	active    *scanner.Scanner
	activeTpl template.Template
	emitted   int
	done      bool
}

// New builds a Query over templates, to be matched against pool.
func New(templates []template.Template, pool []*molecule.Atom, cfg Config) *Query {
	if cfg.Budget == 0 {
		cfg.Budget = DefaultBudget
	}
	return &Query{templates: templates, pool: pool, cfg: cfg}
}

// Next advances to the next RMSD-gated hit, skipping over tuples that fail
// the gate, construction failures, and exhausted templates. ok is false
// once every template has been exhausted or the emission budget is spent.
func (q *Query) Next() (*Hit, bool) {
	if q.done {
		return nil, false
	}
	for {
		if q.emitted >= q.cfg.Budget {
			q.done = true
			return nil, false
		}
		if q.active == nil {
			if !q.advanceTemplate() {
				q.done = true
				return nil, false
			}
			continue
		}

		atoms, ok := q.active.Next()
		if !ok {
			q.active = nil
			continue
		}
		q.emitted++

		tpl := q.activeTpl
		sp := superpose.New()
		for k, a := range atoms {
			sp.Append(superpose.Vec3(a.Pos()), superpose.Vec3(tpl.Position(k)))
		}
		rmsd := sp.RMSD()
		if rmsd > q.cfg.RMSD {
			continue
		}
		return &Hit{
			Template: tpl,
			Atoms:    atoms,
			Super:    sp,
			RMSD:     rmsd,
			LogE:     tpl.LogE(rmsd, len(q.pool)),
		}, true
	}
}

// advanceTemplate moves to the next template with at least one matching
// candidate for every slot, building its scanner. It reports false once the
// template list is exhausted.
func (q *Query) advanceTemplate() bool {
	for q.ti < len(q.templates) {
		tpl := q.templates[q.ti]
		q.ti++
		s, err := scanner.New(tpl, q.pool, q.cfg.Scanner)
		if err != nil {
			continue
		}
		q.active = s
		q.activeTpl = tpl
		return true
	}
	return false
}
