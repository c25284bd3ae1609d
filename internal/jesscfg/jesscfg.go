// Package jesscfg holds the run configuration shared by the jess CLI and
// the engine it drives: RMSD/distance thresholds, chain/model-parsing
// policy, and the emission budget. Values may come from an optional YAML
// file (loaded with spf13/viper) with flag values taking precedence.
package jesscfg

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/iriziotis/jess/internal/query"
	"github.com/iriziotis/jess/internal/scanner"
)

// envPrefix is the environment-variable prefix for config overrides, e.g.
// JESS_RMSD, JESS_GLOBAL_THRESHOLD.
const envPrefix = "JESS"

// Config is the full set of knobs a jess run needs, independent of how they
// were supplied (flags, file, env, or defaults).
type Config struct {
	// RMSD is the maximum per-hit RMSD to report (spec.md §4.6).
	RMSD float64 `mapstructure:"rmsd"`
	// GlobalThreshold is the distance slack added to every template range
	// before it is widened into a search annulus (spec.md §4.5).
	GlobalThreshold float64 `mapstructure:"global_threshold"`
	// MaxTotalThreshold caps the combined per-pair slack; zero disables the
	// cap (spec.md §4.5).
	MaxTotalThreshold float64 `mapstructure:"max_total_threshold"`
	// IgnoreChain disables the template's chain-identity coherence check
	// (spec.md §4.4 Check, scenario 4).
	IgnoreChain bool `mapstructure:"ignore_chain"`
	// IgnoreEndMDL keeps reading a molecule past the first ENDMDL record
	// instead of stopping there (spec.md §6).
	IgnoreEndMDL bool `mapstructure:"ignore_endmdl"`
	// ConservationCutoff drops molecule atoms whose TempFactor (repurposed
	// as a conservation score) falls below this value before they ever
	// reach the scanner (spec.md §8 scenario 6). Zero disables the filter.
	ConservationCutoff float64 `mapstructure:"conservation_cutoff"`
	// MaxHits is the emission budget for one molecule, shared across every
	// template scanned against it (spec.md §5's "ad-hoc cap of 1000", here a policy knob). Zero means
	// query.DefaultBudget.
	MaxHits int `mapstructure:"max_hits"`
	// Transform selects whether hit output reports molecule-frame or
	// template-frame coordinates (spec.md §6.3).
	Transform bool `mapstructure:"transform"`
}

// Default returns the engine's out-of-the-box policy: no distance slack, no
// conservation filter, chain-coherence enforced, default emission budget.
func Default() Config {
	return Config{
		RMSD:              2.0,
		GlobalThreshold:   0,
		MaxTotalThreshold: 0,
		IgnoreChain:       false,
		IgnoreEndMDL:      false,
		ConservationCutoff: 0,
		MaxHits:           query.DefaultBudget,
		Transform:         true,
	}
}

// Load reads configPath (if non-empty) as YAML via viper, merges JESS_*
// environment overrides, and applies Default() for any field the file and
// environment both leave unset. An empty configPath skips the file read
// and returns Default() merged with any environment overrides.
func Load(configPath string) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := Default()
	setDefaults(v, cfg)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "load config %q", configPath)
		}
	}

	out := Config{}
	if err := v.Unmarshal(&out); err != nil {
		return Config{}, errors.Wrap(err, "unmarshal config")
	}
	return out, nil
}

// setDefaults seeds viper with cfg's values (Default()) so Unmarshal always
// produces a fully-populated Config even when no file or env var overrides
// a given key.
func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("rmsd", cfg.RMSD)
	v.SetDefault("global_threshold", cfg.GlobalThreshold)
	v.SetDefault("max_total_threshold", cfg.MaxTotalThreshold)
	v.SetDefault("ignore_chain", cfg.IgnoreChain)
	v.SetDefault("ignore_endmdl", cfg.IgnoreEndMDL)
	v.SetDefault("conservation_cutoff", cfg.ConservationCutoff)
	v.SetDefault("max_hits", cfg.MaxHits)
	v.SetDefault("transform", cfg.Transform)
}

// ScannerConfig projects the relevant fields into scanner.Config.
func (c Config) ScannerConfig() scanner.Config {
	return scanner.Config{
		IgnoreChain:       c.IgnoreChain,
		GlobalThreshold:   c.GlobalThreshold,
		MaxTotalThreshold: c.MaxTotalThreshold,
	}
}

// QueryConfig projects the relevant fields into query.Config.
func (c Config) QueryConfig() query.Config {
	return query.Config{
		Scanner: c.ScannerConfig(),
		RMSD:    c.RMSD,
		Budget:  c.MaxHits,
	}
}
