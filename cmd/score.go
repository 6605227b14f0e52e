package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var scoreCmd = &cobra.Command{
	Use:   "score <resume-file>",
	Short: "Grade the overall quality of a resume",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runScore(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().Bool("no-spelling", false, "skip the spelling audit when computing the score")
}

func runScore(cmd *cobra.Command, args []string) {
	a := newAnalyzer(cmd)

	text := a.resumeText(args[0])
	record := a.normalizer.Parse(cmd.Context(), text, false)

	rawText := text
	if cmd.Flag("no-spelling").Value.String() == "true" {
		rawText = ""
	}

	report := a.scorer.Score(cmd.Context(), record, rawText)

	a.logger.Info("quality scoring finished",
		zap.String("file", args[0]),
		zap.Int("overall_score", report.Metrics.OverallScore),
		zap.String("rating", report.Metrics.QualityRating),
	)

	if err := printJSON(report); err != nil {
		a.logger.Fatal("printing report", zap.Error(err))
	}
}
