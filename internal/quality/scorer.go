package quality

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	_ "embed"

	"go.uber.org/zap"

	"resume-insight/internal/ai"
	"resume-insight/internal/resume"
	"resume-insight/internal/spell"
)

//go:embed prompt.md
var assessmentPrompt string

// Quality rating bands applied to the overall score.
const (
	RatingExcellent        = "Excellent"
	RatingGood             = "Good"
	RatingAverage          = "Average"
	RatingNeedsImprovement = "Needs Improvement"
)

const (
	maxSpellingPenalty  = 30
	perErrorPenalty     = 3
	maxOracleSuggestion = 3
)

// Lines of the oracle assessment starting with these prefixes restate the
// headline instead of suggesting something, so they are not promoted into
// suggestions.
var skippedLinePrefixes = []string{"quality", "assessment", "analysis", "overall"}

// Metrics carries the numeric quality signals for a resume.
type Metrics struct {
	Completeness     int           `json:"completeness"`
	SpellingErrors   *int          `json:"spelling_errors,omitempty"`
	SpellingSeverity string        `json:"spelling_severity,omitempty"`
	SpellingDetails  []spell.Issue `json:"spelling_details,omitempty"`
	OverallScore     int           `json:"overall_score"`
	QualityRating    string        `json:"quality_rating"`
}

// Report is the full quality assessment of a resume record.
type Report struct {
	Metrics     Metrics  `json:"metrics"`
	Suggestions []string `json:"suggestions"`
	Assessment  string   `json:"assessment"`
}

// Checker audits raw resume text for spelling issues.
type Checker interface {
	Check(ctx context.Context, text string) *spell.Report
}

// completenessCheck is one presence check contributing a unit to the
// completeness score, with the suggestion raised when it fails.
type completenessCheck struct {
	name       string
	passed     func(resume.Record) bool
	suggestion string
}

var completenessChecks = []completenessCheck{
	{
		name:       "contact_name",
		passed:     func(r resume.Record) bool { return r.ContactField("name") != "" },
		suggestion: "Add your name to the contact information section",
	},
	{
		name:       "contact_email",
		passed:     func(r resume.Record) bool { return r.ContactField("email") != "" },
		suggestion: "Add your email to the contact information section",
	},
	{
		name:       "contact_phone",
		passed:     func(r resume.Record) bool { return r.ContactField("phone") != "" },
		suggestion: "Add your phone to the contact information section",
	},
	{
		name:       "education",
		passed:     func(r resume.Record) bool { return r.SectionLen("education") > 0 },
		suggestion: "Add your educational background to strengthen your resume",
	},
	{
		name:       "technical_skills",
		passed:     func(r resume.Record) bool { return len(r.SkillList("technical")) > 0 },
		suggestion: "List your technical skills to showcase your capabilities",
	},
	{
		name:       "work_experience",
		passed:     func(r resume.Record) bool { return r.SectionLen("work_experience") > 0 },
		suggestion: "Include your work experience with detailed responsibilities",
	},
}

// Scorer grades a resume record: deterministic completeness and spelling
// penalties locally, qualitative assessment from the oracle.
type Scorer struct {
	generator ai.Generator
	checker   Checker
	logger    *zap.Logger
}

func NewScorer(generator ai.Generator, checker Checker, logger *zap.Logger) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scorer{
		generator: generator,
		checker:   checker,
		logger:    logger,
	}
}

// Score computes the quality report for a record. When rawText is supplied
// the spell auditor runs and its error count lowers the overall score by a
// capped linear penalty. The oracle assessment call may fail; the report
// then keeps the locally computed score and carries the error in the
// assessment field.
func (s *Scorer) Score(ctx context.Context, record resume.Record, rawText string) *Report {
	metrics := Metrics{}
	suggestions := []string{}

	passed := 0
	for _, check := range completenessChecks {
		if check.passed(record) {
			passed++
			continue
		}
		suggestions = append(suggestions, check.suggestion)
	}

	metrics.Completeness = int(math.Round(float64(passed) / float64(len(completenessChecks)) * 100))
	metrics.OverallScore = metrics.Completeness

	if rawText != "" && s.checker != nil {
		spellReport := s.checker.Check(ctx, rawText)
		total := spellReport.Summary.TotalErrors

		metrics.SpellingErrors = &total
		metrics.SpellingSeverity = spellReport.Summary.Severity
		metrics.SpellingDetails = spellReport.Errors

		if total > 0 {
			suggestions = append(suggestions, spellReport.Summary.ImprovementRecommendation)
		}

		penalty := min(maxSpellingPenalty, total*perErrorPenalty)
		metrics.OverallScore = max(0, metrics.Completeness-penalty)
	}

	metrics.QualityRating = ratingFor(metrics.OverallScore)

	assessment, oracleSuggestions, err := s.assess(ctx, record)
	if err != nil {
		s.logger.Error("quality assessment failed", zap.Error(err))
		assessment = fmt.Sprintf("Error generating AI assessment: %v", err)
	} else {
		suggestions = append(suggestions, oracleSuggestions...)
	}

	return &Report{
		Metrics:     metrics,
		Suggestions: suggestions,
		Assessment:  assessment,
	}
}

func (s *Scorer) assess(ctx context.Context, record resume.Record) (string, []string, error) {
	replacer := strings.NewReplacer(
		"{{CONTACT_INFO}}", sectionJSON(record["contact_info"]),
		"{{EDUCATION}}", sectionJSON(record["education"]),
		"{{SKILLS}}", sectionJSON(record["skills"]),
		"{{EXPERIENCE}}", sectionJSON(record["work_experience"]),
		"{{PROJECTS}}", sectionJSON(record["projects"]),
	)

	raw, err := s.generator.GenerateContent(ctx, replacer.Replace(assessmentPrompt))
	if err != nil {
		return "", nil, err
	}

	suggestions := []string{}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || hasSkippedPrefix(line) {
			continue
		}
		suggestions = append(suggestions, line)
		if len(suggestions) == maxOracleSuggestion {
			break
		}
	}

	return raw, suggestions, nil
}

func hasSkippedPrefix(line string) bool {
	lowered := strings.ToLower(line)
	for _, prefix := range skippedLinePrefixes {
		if strings.HasPrefix(lowered, prefix) {
			return true
		}
	}
	return false
}

func sectionJSON(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(data)
}

func ratingFor(score int) string {
	switch {
	case score >= 90:
		return RatingExcellent
	case score >= 75:
		return RatingGood
	case score >= 60:
		return RatingAverage
	default:
		return RatingNeedsImprovement
	}
}
