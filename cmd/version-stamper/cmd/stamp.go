package cmd

import (
	"context"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/oshokin/version-stamper/internal/repository/output"
	"github.com/oshokin/version-stamper/internal/service/stamper"
)

func newStampCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stamp [variant...]",
		Short: "Compute version codes and names for build variants.",
		Long: `Computes the version code and version name of the given variants, or of every
configured variant when none is given, and writes them in the selected format.

All variants of one run are stamped from the same build instant.`,
		Example: `  version-stamper stamp playRelease
  version-stamper stamp --format env --output build/version.env
  SOURCE_DATE_EPOCH=1727964309 version-stamper stamp release`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return runStamp(ctx, cmd, v, args)
		},
	}

	formats := make([]string, 0, len(output.Formats()))
	for _, f := range output.Formats() {
		formats = append(formats, string(f))
	}

	cmd.Flags().String(flagAt, "", "build instant in RFC 3339 format (default: SOURCE_DATE_EPOCH or now)")
	cmd.Flags().StringP(flagFormat, "f", "",
		"output format: "+strings.Join(formats, ", ")+" (default: table on a terminal, properties otherwise)")
	cmd.Flags().StringP(flagOutput, "o", "", `output file, "-" for standard output (default from configuration)`)

	return cmd
}

func runStamp(ctx context.Context, cmd *cobra.Command, v *viper.Viper, args []string) error {
	if err := v.BindEnv(keySourceDateEpoch, stamper.SourceDateEpochEnv); err != nil {
		return err
	}

	opts := baseOptions(cmd, v)
	opts.Variants = args
	opts.At = v.GetString(flagAt)
	opts.SourceDateEpoch = v.GetString(keySourceDateEpoch)
	opts.Format = v.GetString(flagFormat)
	opts.OutputPath = v.GetString(flagOutput)

	return stamper.Run(ctx, opts)
}
