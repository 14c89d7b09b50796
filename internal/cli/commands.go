package cli

import (
	"fmt"

	"github.com/couchcryptid/kilauea-seismicity/internal/adapter/report"
	"github.com/couchcryptid/kilauea-seismicity/internal/adapter/vegalite"
	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Analyze the catalog and write the interactive HTML dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			title, err := cmd.Flags().GetString("title")
			if err != nil {
				return fmt.Errorf("failed to get title flag: %w", err)
			}

			dashboard := vegalite.NewWriter(env.cfg.OutputPath, title, env.logger)
			res, err := env.run(cmd.Context(), dashboard)
			if err != nil {
				return err
			}

			report.Sets(cmd.OutOrStdout(), res.Sets)
			fmt.Fprintln(cmd.OutOrStdout(), "Dashboard:", dashboard.Path())
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "", "HTML output path (overrides OUTPUT_PATH)")
	cmd.Flags().String("title", vegalite.DefaultTitle, "dashboard title")
	return cmd
}

func newBValuesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bvalues",
		Short: "Print b-value estimates per explosion set and completeness magnitude",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}

			res, err := env.run(cmd.Context())
			if err != nil {
				return err
			}

			report.BValues(cmd.OutOrStdout(), res.BValues)
			return nil
		},
	}
}
