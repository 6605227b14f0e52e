package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"resume-insight/internal/spell"
)

var spellcheckCmd = &cobra.Command{
	Use:   "spellcheck <resume-file>",
	Short: "Check a resume for spelling and grammar issues",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runSpellcheck(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(spellcheckCmd)

	spellcheckCmd.Flags().BoolP("text", "t", false, "print a human-readable report instead of JSON")
}

func runSpellcheck(cmd *cobra.Command, args []string) {
	a := newAnalyzer(cmd)

	text := a.resumeText(args[0])
	report := a.auditor.Check(cmd.Context(), text)

	a.logger.Info("spell check finished",
		zap.String("file", args[0]),
		zap.Int("total_errors", report.Summary.TotalErrors),
		zap.String("severity", report.Summary.Severity),
	)

	if cmd.Flag("text").Value.String() == "true" {
		fmt.Println(spell.Format(report))
		return
	}

	if err := printJSON(report); err != nil {
		a.logger.Fatal("printing report", zap.Error(err))
	}
}
