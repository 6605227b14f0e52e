package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"resume-insight/internal/resume"
	"resume-insight/internal/spell"
)

const (
	PromptParse     = "Show the structured record"
	PromptMatch     = "Match against a job description"
	PromptSpell     = "Spelling and grammar report"
	PromptScore     = "Quality score"
	PromptExit      = "Exit"
	PromptWithScore = "Include the spelling audit in the score?"
	PromptYes       = "Yes"
	PromptNo        = "No"
)

var errExit = errors.New("exit requested")

var reviewPrompt = promptui.Select{
	Label: "What do you want to know about this resume?",
	Items: []string{PromptParse, PromptMatch, PromptSpell, PromptScore, PromptExit},
}

var reviewCmd = &cobra.Command{
	Use:   "review <resume-file>",
	Short: "Interactively explore a resume: record, job match, spelling, quality",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		review(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)

	reviewCmd.Flags().StringP("job-file", "J", "", "job description file for the matching step")
}

// review drives the interactive session. The resume is parsed once and
// every analysis runs against the same record.
func review(cmd *cobra.Command, args []string) {
	a := newAnalyzer(cmd)

	text := a.resumeText(args[0])

	a.logger.Info("parsing the resume", zap.String("file", args[0]))
	record := a.normalizer.Parse(cmd.Context(), text, false)

	for {
		_, selected, err := reviewPrompt.Run()
		if err != nil {
			a.logger.Fatal("running the prompt", zap.Error(err))
		}

		if selected == PromptExit {
			return
		}

		if err := a.reviewStep(cmd, selected, record, text); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			a.logger.Error("review step failed", zap.String("step", selected), zap.Error(err))
		}
	}
}

func (a *analyzer) reviewStep(cmd *cobra.Command, selected string, record resume.Record, text string) error {
	ctx := cmd.Context()

	switch selected {
	case PromptParse:
		return printJSON(record)

	case PromptMatch:
		jobPath := cmd.Flag("job-file").Value.String()
		if jobPath == "" {
			entered, err := (&promptui.Prompt{Label: "Path to the job description file"}).Run()
			if err != nil {
				return err
			}
			jobPath = strings.TrimSpace(entered)
		}

		jobText, err := os.ReadFile(jobPath)
		if err != nil {
			return fmt.Errorf("reading job description: %w", err)
		}

		return printJSON(a.matcher.Compare(ctx, record, string(jobText)))

	case PromptSpell:
		fmt.Println(spell.Format(a.auditor.Check(ctx, text)))
		return nil

	case PromptScore:
		_, withSpelling, err := (&promptui.Select{
			Label: PromptWithScore,
			Items: []string{PromptYes, PromptNo},
		}).Run()
		if err != nil {
			return err
		}

		rawText := text
		if withSpelling == PromptNo {
			rawText = ""
		}

		return printJSON(a.scorer.Score(ctx, record, rawText))
	}

	return nil
}
