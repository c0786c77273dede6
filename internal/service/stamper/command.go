package stamper

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/oshokin/version-stamper/internal/config"
	"github.com/oshokin/version-stamper/internal/domain/build"
	"github.com/oshokin/version-stamper/internal/domain/stamp"
	"github.com/oshokin/version-stamper/internal/logger"
	"github.com/oshokin/version-stamper/internal/repository/output"
)

// SourceDateEpochEnv is the reproducible-builds variable holding the build time in Unix seconds.
const SourceDateEpochEnv = "SOURCE_DATE_EPOCH"

// Options contains inputs for the stamper entry point.
type Options struct {
	// ConfigPath is the project settings file; empty means the default file if present.
	ConfigPath string
	// Variants restricts the pass to these variant names; empty means all.
	Variants []string
	// At overrides the build instant (RFC 3339).
	At string
	// SourceDateEpoch is the value of SOURCE_DATE_EPOCH, used when At is empty.
	SourceDateEpoch string
	// Format overrides the configured output format.
	Format string
	// OutputPath overrides the configured output file; "-" forces standard output.
	OutputPath string
	// Clock supplies the instant when neither At nor SourceDateEpoch is set.
	Clock Clock
	// Stdout receives the result when no output file is configured.
	Stdout io.Writer
}

// stamper holds everything one pass needs.
// It is unexported; callers should use Run.
type stamper struct {
	cfg        *config.Config
	opts       *Options
	format     output.Format
	outputPath string
}

// Run executes one stamping pass and writes its result.
// Any failure aborts the pass before output is written.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "stamper")

	s, err := newStamper(ctx, opts)
	if err != nil {
		return fmt.Errorf("initialize stamper: %w", err)
	}

	instant, err := s.captureInstant(ctx)
	if err != nil {
		return err
	}

	ctx = logger.WithKV(ctx, "build_instant", instant.Format(time.RFC3339))

	result, err := s.stamp(ctx, instant)
	if err != nil {
		return err
	}

	return s.write(ctx, result)
}

// Variants returns the variant matrix selected by opts without stamping it.
func Variants(ctx context.Context, opts *Options) ([]build.Variant, error) {
	ctx = logger.WithName(ctx, "stamper")

	s, err := newStamper(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("initialize stamper: %w", err)
	}

	return s.variants()
}

func newStamper(ctx context.Context, opts *Options) (*stamper, error) {
	if opts == nil {
		opts = new(Options)
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	logger.DebugKV(ctx, "Loaded settings",
		"build_types", cfg.BuildTypes,
		"flavors", len(cfg.Flavors),
	)

	formatName := cfg.Output.Format
	if opts.Format != "" {
		formatName = opts.Format
	}

	format, err := output.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}

	outputPath := cfg.Output.Path
	if opts.OutputPath != "" {
		outputPath = opts.OutputPath
	}

	if outputPath == "-" {
		outputPath = ""
	}

	if format == "" {
		format = output.FormatProperties
		if f, ok := stdoutOf(opts).(*os.File); ok && outputPath == "" {
			format = output.DetectFormat(f)
		}
	}

	return &stamper{
		cfg:        cfg,
		opts:       opts,
		format:     format,
		outputPath: outputPath,
	}, nil
}

// captureInstant resolves the build instant exactly once per pass.
func (s *stamper) captureInstant(ctx context.Context) (time.Time, error) {
	var (
		instant time.Time
		source  string
	)

	switch {
	case s.opts.At != "":
		parsed, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s.opts.At))
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: build instant %q: %w", stamp.ErrInvalidInput, s.opts.At, err)
		}

		instant, source = parsed, "flag"
	case s.opts.SourceDateEpoch != "":
		seconds, err := strconv.ParseInt(strings.TrimSpace(s.opts.SourceDateEpoch), 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %s=%q: %w",
				stamp.ErrInvalidInput, SourceDateEpochEnv, s.opts.SourceDateEpoch, err)
		}

		instant, source = time.Unix(seconds, 0), SourceDateEpochEnv
	default:
		clock := s.opts.Clock
		if clock == nil {
			clock = SystemClock{}
		}

		instant, source = clock.Now(), "clock"
	}

	instant = instant.UTC()

	logger.InfoKV(ctx, "Captured build instant", "instant", instant.Format(time.RFC3339), "source", source)

	return instant, nil
}

func (s *stamper) variants() ([]build.Variant, error) {
	all, err := s.cfg.Variants()
	if err != nil {
		return nil, err
	}

	return build.Filter(all, s.opts.Variants)
}

func (s *stamper) stamp(ctx context.Context, instant time.Time) (*build.Result, error) {
	variants, err := s.variants()
	if err != nil {
		return nil, err
	}

	result, err := build.StampAll(instant, variants)
	if err != nil {
		return nil, err
	}

	for _, entry := range result.Entries {
		logger.DebugKV(ctx, "Stamped variant",
			"variant", entry.Variant.Name,
			"version_code", entry.Stamp.Code,
			"version_name", entry.Stamp.Name,
		)
	}

	return result, nil
}

func (s *stamper) write(ctx context.Context, result *build.Result) error {
	if s.outputPath == "" {
		return output.Write(stdoutOf(s.opts), result, s.format)
	}

	if err := output.WriteFile(s.outputPath, result, s.format); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Saved version stamps",
		"path", s.outputPath,
		"format", s.format,
		"variants", len(result.Entries),
	)

	return nil
}

func stdoutOf(opts *Options) io.Writer {
	if opts.Stdout == nil {
		return os.Stdout
	}

	return opts.Stdout
}
