package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var matchCmd = &cobra.Command{
	Use:   "match <resume-file> <job-description-file>",
	Short: "Compare a resume against a job description and report the match score and gaps",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runMatch(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) {
	a := newAnalyzer(cmd)

	text := a.resumeText(args[0])

	jobText, err := os.ReadFile(args[1])
	if err != nil {
		a.logger.Fatal("reading job description", zap.String("path", args[1]), zap.Error(err))
	}
	if strings.TrimSpace(string(jobText)) == "" {
		a.logger.Fatal("job description is empty", zap.String("path", args[1]))
	}

	// Matching never sees the summary field.
	record := a.normalizer.Parse(cmd.Context(), text, false)
	result := a.matcher.Compare(cmd.Context(), record, string(jobText))

	a.logger.Info("comparison finished",
		zap.String("resume", args[0]),
		zap.String("job", args[1]),
		zap.Int("match_score", result.MatchScore),
	)

	if err := printJSON(result); err != nil {
		a.logger.Fatal("printing result", zap.Error(err))
	}
}
