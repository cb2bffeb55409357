package cmd

import (
	"errors"
	"fmt"

	"github.com/MeKo-Tech/qrscan/internal/detect"
	"github.com/MeKo-Tech/qrscan/internal/imageio"
	"github.com/MeKo-Tech/qrscan/internal/report"
	"github.com/spf13/cobra"
)

// reportCmd represents the report command.
var reportCmd = &cobra.Command{
	Use:   "report [file]",
	Short: "Diagnose why an image fails to scan",
	Long: `Run a capture through three escalating option profiles (fast,
thorough, exhaustive) and print a troubleshooting report with
per-profile outcomes and heuristic suggestions.

Examples:
  qrscan report blurry.jpg`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input file provided")
		}

		img, meta, err := imageio.Load(args[0])
		if err != nil {
			return fmt.Errorf("load %s: %w", args[0], err)
		}

		rep := report.Run(cmd.Context(), detect.New(), img, meta.SizeBytes)
		fmt.Fprint(cmd.OutOrStdout(), rep.Text())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
