package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/oshokin/version-stamper/internal/repository/output"
	"github.com/oshokin/version-stamper/internal/service/stamper"
)

func newVariantsCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "variants [variant...]",
		Short: "List the configured build variants.",
		Long:  "Lists the build variants produced by the configured flavors and build types, with the naming rule each one uses.",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := baseOptions(cmd, v)
			opts.Variants = args

			variants, err := stamper.Variants(cmd.Context(), opts)
			if err != nil {
				return err
			}

			output.WriteVariants(cmd.OutOrStdout(), variants)

			return nil
		},
	}
}
