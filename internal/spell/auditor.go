package spell

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"resume-insight/internal/ai"
	"resume-insight/internal/utils"
)

//go:embed prompt.md
var checkPrompt string

const defaultMaxLogLength = 200

// Severity buckets for the volume of spelling issues. Unknown is reserved
// for the oracle failure path and is never produced by classification.
const (
	SeverityNone    = "none"
	SeverityLow     = "low"
	SeverityMedium  = "medium"
	SeverityHigh    = "high"
	SeverityUnknown = "unknown"
)

const noIssuesRecommendation = "No spelling or grammar issues detected. Your resume appears well-written."

// Issue is a single spelling or grammar problem reported by the oracle.
type Issue struct {
	ErrorText   string `json:"error_text" mapstructure:"error_text"`
	Suggestion  string `json:"suggestion" mapstructure:"suggestion"`
	Explanation string `json:"explanation" mapstructure:"explanation"`
}

// Summary aggregates a spell check run.
type Summary struct {
	TotalErrors               int    `json:"total_errors"`
	Severity                  string `json:"severity"`
	ImprovementRecommendation string `json:"improvement_recommendation"`
}

// Report is the full outcome of a spell check.
type Report struct {
	Errors  []Issue `json:"errors"`
	Summary Summary `json:"summary"`
}

// Auditor asks the oracle for a structured list of spelling and grammar
// issues and grades their severity.
type Auditor struct {
	generator ai.Generator
	logger    *zap.Logger
	maxLogLen int
}

func NewAuditor(generator ai.Generator, logger *zap.Logger, maxLogLength int) *Auditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Auditor{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Check audits the text for spelling and grammar issues. It never fails: an
// oracle error yields an empty report with unknown severity and the error
// message as the recommendation.
func (a *Auditor) Check(ctx context.Context, text string) *Report {
	prompt := strings.ReplaceAll(checkPrompt, "{{RESUME_TEXT}}", text)

	a.logger.Debug("spell check request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, a.maxLogLen)),
	)

	data, err := ai.GenerateMapping(ctx, a.generator, prompt)
	if err != nil {
		a.logger.Error("spell check failed", zap.Error(err))
		return failureReport(err)
	}

	issues, err := decodeIssues(data)
	if err != nil {
		a.logger.Error("spell check returned unusable issues", zap.Error(err))
		return failureReport(err)
	}

	total := len(issues)
	summary := Summary{
		TotalErrors:               total,
		Severity:                  classifySeverity(total),
		ImprovementRecommendation: noIssuesRecommendation,
	}
	if total > 0 {
		summary.ImprovementRecommendation = fmt.Sprintf("Correcting these %d issues will improve your resume's professionalism.", total)
	}

	return &Report{Errors: issues, Summary: summary}
}

func decodeIssues(data map[string]any) ([]Issue, error) {
	var payload struct {
		Errors []Issue `mapstructure:"errors"`
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &payload,
	})
	if err != nil {
		return nil, fmt.Errorf("build issues decoder: %w", err)
	}

	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decode issues: %w", err)
	}

	if payload.Errors == nil {
		payload.Errors = []Issue{}
	}

	return payload.Errors, nil
}

func classifySeverity(totalErrors int) string {
	switch {
	case totalErrors > 10:
		return SeverityHigh
	case totalErrors > 5:
		return SeverityMedium
	case totalErrors > 0:
		return SeverityLow
	default:
		return SeverityNone
	}
}

func failureReport(err error) *Report {
	return &Report{
		Errors: []Issue{},
		Summary: Summary{
			TotalErrors:               0,
			Severity:                  SeverityUnknown,
			ImprovementRecommendation: fmt.Sprintf("Error performing spell check: %v", err),
		},
	}
}

// Format renders a report for terminal output.
func Format(report *Report) string {
	if report == nil || len(report.Errors) == 0 {
		return noIssuesRecommendation
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "Found %d spelling/grammar issues:\n\n", report.Summary.TotalErrors)

	for i, issue := range report.Errors {
		fmt.Fprintf(&builder, "%d. Error: %q\n", i+1, issue.ErrorText)
		fmt.Fprintf(&builder, "   Suggestion: %q\n", issue.Suggestion)
		fmt.Fprintf(&builder, "   Explanation: %s\n\n", issue.Explanation)
	}

	fmt.Fprintf(&builder, "Severity: %s\n", titleCase(report.Summary.Severity))
	fmt.Fprintf(&builder, "Recommendation: %s", report.Summary.ImprovementRecommendation)

	return builder.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
