package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/iriziotis/jess/internal/hitio"
	"github.com/iriziotis/jess/internal/jesscfg"
	"github.com/iriziotis/jess/internal/jesstemplate"
	"github.com/iriziotis/jess/internal/molecule"
	"github.com/iriziotis/jess/internal/query"
	"github.com/iriziotis/jess/internal/template"
)

// scanOptions holds the scan subcommand's flags, layered over jesscfg's
// file/env-sourced Config (flags take precedence — see runScan).
type scanOptions struct {
	templateDir        string
	molecules          []string
	rmsd               float64
	globalThreshold    float64
	maxTotalThreshold  float64
	conservationCutoff float64
	maxHits            int
	ignoreChain        bool
	ignoreEndMDL       bool
	transform          bool

	rmsdSet               bool
	globalThresholdSet    bool
	maxTotalThresholdSet  bool
	conservationCutoffSet bool
	maxHitsSet            bool
	transformSet           bool
}

// newScanCmd builds the `jess scan` command.
func newScanCmd(root *rootOptions) *cobra.Command {
	opts := &scanOptions{}

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan molecule files against a template library",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.rmsdSet = cmd.Flags().Changed("rmsd")
			opts.globalThresholdSet = cmd.Flags().Changed("threshold")
			opts.maxTotalThresholdSet = cmd.Flags().Changed("max-total-threshold")
			opts.conservationCutoffSet = cmd.Flags().Changed("conservation-cutoff")
			opts.maxHitsSet = cmd.Flags().Changed("max-hits")
			opts.transformSet = cmd.Flags().Changed("transform")
			return runScan(cmd, root, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.templateDir, "templates", "", "directory of template records, one template per file (required)")
	f.StringSliceVar(&opts.molecules, "molecules", nil, "PDB molecule files to scan (required)")
	f.Float64Var(&opts.rmsd, "rmsd", 2.0, "maximum RMSD for a reported hit")
	f.Float64Var(&opts.globalThreshold, "threshold", 0, "distance slack added to every template range")
	f.Float64Var(&opts.maxTotalThreshold, "max-total-threshold", 0, "cap on combined per-pair distance slack (0 = uncapped)")
	f.Float64Var(&opts.conservationCutoff, "conservation-cutoff", 0, "drop molecule atoms with TempFactor below this value (0 = no filter)")
	f.IntVar(&opts.maxHits, "max-hits", query.DefaultBudget, "emission budget per molecule, shared across all templates")
	f.BoolVar(&opts.ignoreChain, "ignore-chain", false, "disable the template's chain-identity coherence check")
	f.BoolVar(&opts.ignoreEndMDL, "ignore-endmdl", false, "keep reading a molecule past the first ENDMDL record")
	f.BoolVar(&opts.transform, "transform", true, "report hit atom coordinates in the template frame")
	_ = cmd.MarkFlagRequired("templates")
	_ = cmd.MarkFlagRequired("molecules")

	return cmd
}

// mergeConfig layers flags actually set by the user over the file/env/
// default-sourced jesscfg.Config; unset flags defer to the loaded config.
func mergeConfig(base jesscfg.Config, opts *scanOptions) jesscfg.Config {
	cfg := base
	if opts.rmsdSet {
		cfg.RMSD = opts.rmsd
	}
	if opts.globalThresholdSet {
		cfg.GlobalThreshold = opts.globalThreshold
	}
	if opts.maxTotalThresholdSet {
		cfg.MaxTotalThreshold = opts.maxTotalThreshold
	}
	if opts.conservationCutoffSet {
		cfg.ConservationCutoff = opts.conservationCutoff
	}
	if opts.maxHitsSet {
		cfg.MaxHits = opts.maxHits
	}
	if opts.transformSet {
		cfg.Transform = opts.transform
	}
	cfg.IgnoreChain = cfg.IgnoreChain || opts.ignoreChain
	cfg.IgnoreEndMDL = cfg.IgnoreEndMDL || opts.ignoreEndMDL
	return cfg
}

func runScan(cmd *cobra.Command, root *rootOptions, opts *scanOptions) error {
	logger, err := buildLogger(root.logLevel)
	if err != nil {
		return errors.Wrap(err, "build logger")
	}
	defer func() { _ = logger.Sync() }()

	fileCfg, err := jesscfg.Load(root.configPath)
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	cfg := mergeConfig(fileCfg, opts)

	templates, err := loadTemplates(opts.templateDir, logger)
	if err != nil {
		return errors.Wrap(err, "load templates")
	}
	if len(templates) == 0 {
		return errors.Errorf("no templates loaded from %s", opts.templateDir)
	}
	logger.Infow("loaded templates", "count", len(templates), "dir", opts.templateDir)

	out := cmd.OutOrStdout()
	for _, path := range opts.molecules {
		if err := scanMolecule(out, path, templates, cfg, logger); err != nil {
			logger.Errorw("scan failed", "molecule", path, "error", err)
		}
	}
	return nil
}

// loadTemplates parses every file in dir as a Tess template record, naming
// each by its base filename (without extension). A file that fails to
// parse is logged and skipped; the run continues (spec.md §7's local parse
// failure policy, carried up to this ambient layer).
func loadTemplates(dir string, logger loggerFacade) ([]template.Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read template dir %q", dir)
	}

	var out []template.Template
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		f, err := os.Open(path)
		if err != nil {
			logger.Warnw("cannot open template file", "file", path, "error", err)
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		tpl, err := jesstemplate.Parse(f, name)
		f.Close()
		if err != nil {
			logger.Warnw("template parse failed", "file", path, "error", err)
			continue
		}
		out = append(out, tpl)
	}
	return out, nil
}

// scanMolecule reads one molecule file, applies the conservation-score
// atom filter, and drives a Query across templates, writing each accepted
// hit to out.
func scanMolecule(out io.Writer, path string, templates []template.Template, cfg jesscfg.Config, logger loggerFacade) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open molecule")
	}
	defer f.Close()

	mol, err := molecule.Read(f, molecule.ReadOptions{IgnoreEndMDL: cfg.IgnoreEndMDL})
	if err != nil {
		return errors.Wrap(err, "read molecule")
	}
	if mol == nil {
		logger.Warnw("molecule file yielded no atoms", "file", path)
		return nil
	}

	pool := filterByConservation(mol.Atoms, cfg.ConservationCutoff)

	q := query.New(templates, pool, cfg.QueryConfig())
	id := mol.ID
	if id == "" {
		id = strings.ToUpper(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	}

	count := 0
	for {
		hit, ok := q.Next()
		if !ok {
			break
		}
		if err := hitio.Write(out, hit, hitio.Options{ID: id, Transform: cfg.Transform}); err != nil {
			return errors.Wrap(err, "write hit")
		}
		count++
	}
	logger.Infow("scanned molecule", "file", path, "hits", count)
	return nil
}

// filterByConservation drops atoms whose TempFactor (repurposed as a
// conservation score, spec.md §3) falls below cutoff. cutoff == 0 disables
// the filter and returns atoms unchanged (spec.md §8 scenario 6).
func filterByConservation(atoms []*molecule.Atom, cutoff float64) []*molecule.Atom {
	if cutoff <= 0 {
		return atoms
	}
	out := make([]*molecule.Atom, 0, len(atoms))
	for _, a := range atoms {
		if a.TempFactor >= cutoff {
			out = append(out, a)
		}
	}
	return out
}

// loggerFacade is the minimal subset of *zap.SugaredLogger this package
// uses, kept narrow so tests can supply a fake.
type loggerFacade interface {
	Infow(msg string, kv ...interface{})
	Warnw(msg string, kv ...interface{})
	Errorw(msg string, kv ...interface{})
}
