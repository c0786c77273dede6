package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/version-stamper/internal/logger"
	"github.com/oshokin/version-stamper/internal/service/stamper"
	"github.com/oshokin/version-stamper/internal/version"
)

// EnvPrefix prefixes environment variables that override flags, e.g. VERSION_STAMPER_FORMAT.
const EnvPrefix = "VERSION_STAMPER"

const (
	flagConfig         = "config"
	flagLogLevel       = "log-level"
	flagQuiet          = "quiet"
	flagAt             = "at"
	flagFormat         = "format"
	flagOutput         = "output"
	keySourceDateEpoch = "source-date-epoch"
)

// Execute runs the version-stamper CLI and exits with non-zero status on error.
func Execute() {
	if err := NewRootCommand(viper.New()).Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCommand builds the command tree. Flags are bound to v, so every flag
// can also be set through a VERSION_STAMPER_* environment variable.
func NewRootCommand(v *viper.Viper) *cobra.Command {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "version-stamper",
		Short: "Stamp build variants with date-based version codes and names.",
		Long: `Derives the version code and version name of every build variant from a single
UTC build instant captured once per run.

The version code is the UTC calendar date as YYYYMMDD and is shared by all variants.
Release variants are named YYYY.MM.DD, debug variants YYYY.MM.DD HH:mm:ss UTC.
The build instant comes from --at, then SOURCE_DATE_EPOCH, then the system clock.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return fmt.Errorf("bind flags: %w", err)
			}

			return setupLogger(cmd, v)
		},
	}

	root.PersistentFlags().StringP(flagConfig, "c", "",
		"path to configuration file (default \"version-stamper.yaml\" when present)")
	root.PersistentFlags().String(flagLogLevel, "info", "log level: debug, info, warn or error")
	root.PersistentFlags().BoolP(flagQuiet, "q", false, "log errors only")

	root.AddCommand(newStampCommand(v), newVariantsCommand(v))

	version.AttachCobraVersionCommand(root)

	return root
}

// setupLogger applies the log level flags and stores the logger in the command context.
func setupLogger(cmd *cobra.Command, v *viper.Viper) error {
	level, ok := logger.ParseLogLevel(v.GetString(flagLogLevel))
	if !ok {
		return fmt.Errorf("unknown log level %q", v.GetString(flagLogLevel))
	}

	logger.SetLevel(level)

	l := logger.Logger()
	if v.GetBool(flagQuiet) {
		l = l.WithOptions(logger.WithLevel(zapcore.ErrorLevel))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cmd.SetContext(logger.ToContext(ctx, l))

	return nil
}

// baseOptions collects the options shared by all subcommands.
func baseOptions(cmd *cobra.Command, v *viper.Viper) *stamper.Options {
	return &stamper.Options{
		ConfigPath: v.GetString(flagConfig),
		Stdout:     cmd.OutOrStdout(),
	}
}
