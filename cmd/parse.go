package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var parseCmd = &cobra.Command{
	Use:   "parse <resume-file>",
	Short: "Extract a structured record from a resume document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runParse(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().Bool("no-summary", false, "omit the summary field from the record")
}

func runParse(cmd *cobra.Command, args []string) {
	a := newAnalyzer(cmd)

	includeSummary := cmd.Flag("no-summary").Value.String() != "true"

	text := a.resumeText(args[0])
	record := a.normalizer.Parse(cmd.Context(), text, includeSummary)

	a.logger.Info("resume parsed",
		zap.String("file", args[0]),
		zap.Bool("include_summary", includeSummary),
	)

	if err := printJSON(record); err != nil {
		a.logger.Fatal("printing record", zap.Error(err))
	}
}
