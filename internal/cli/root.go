// Package cli wires the jess engine packages into a cobra command tree:
// flag registration, config/logger initialization, and the scan command
// that drives internal/query across a template library and a set of
// molecule files.
package cli

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// rootOptions holds the flags shared by every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string
}

// NewRootCmd builds the jess root command with the scan subcommand
// attached, grounded on the turtacn-KeyIP-Intelligence / theRebelliousNerd-
// codenerd cobra root-command idiom (persistent flags shared by
// subcommands; the scan command builds its zap logger when it runs).
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "jess",
		Short:         "jess — geometric template matcher for protein structures",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "optional YAML config file with threshold defaults")
	pf.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(newScanCmd(opts))
	return root
}

// buildLogger constructs a zap.SugaredLogger for CLI info/warn output and
// for reporting template files that fail to parse: the engine packages
// themselves take no logger dependency, only this layer does.
func buildLogger(level string) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapConsoleTimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	switch level {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return z.Sugar(), nil
}

// zapConsoleTimeEncoder formats timestamps the way a human running the CLI
// locally wants them: no sub-second noise.
func zapConsoleTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05"))
}
