package match

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"resume-insight/internal/ai"
	"resume-insight/internal/resume"
	"resume-insight/internal/utils"
)

//go:embed prompt_requirements.md
var requirementsPrompt string

//go:embed prompt_suggestions.md
var suggestionsPrompt string

const (
	defaultMaxLogLength  = 200
	maxOracleSuggestions = 3
)

// Result is the outcome of comparing a resume record to a job description.
type Result struct {
	MatchScore      int        `json:"match_score"`
	Matches         Categories `json:"matches"`
	Gaps            Categories `json:"gaps"`
	Recommendations []string   `json:"recommendations"`
}

// Categories groups matched or missing requirements by the four requirement
// categories extracted from the job description.
type Categories struct {
	Technical  []string `json:"technical"`
	Soft       []string `json:"soft"`
	Education  []string `json:"education"`
	Experience []string `json:"experience"`
}

func (c Categories) empty() bool {
	return len(c.Technical) == 0 && len(c.Soft) == 0 && len(c.Education) == 0 && len(c.Experience) == 0
}

func (c Categories) total() int {
	return len(c.Technical) + len(c.Soft) + len(c.Education) + len(c.Experience)
}

// requirements mirrors the category mapping the oracle extracts from a job
// description. Missing categories decode to nil and count as empty.
type requirements struct {
	TechnicalSkills        []string `mapstructure:"technical_skills"`
	SoftSkills             []string `mapstructure:"soft_skills"`
	EducationRequirements  []string `mapstructure:"education_requirements"`
	ExperienceRequirements []string `mapstructure:"experience_requirements"`
}

// Matcher compares a normalized resume record to a job description.
type Matcher struct {
	generator ai.Generator
	logger    *zap.Logger
	maxLogLen int
}

func NewMatcher(generator ai.Generator, logger *zap.Logger, maxLogLength int) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Matcher{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Compare extracts the job's requirements via the oracle and matches them
// against the record with case-insensitive substring comparison. It never
// fails: any error in the pipeline yields the fallback result carrying the
// error as its only recommendation.
func (m *Matcher) Compare(ctx context.Context, record resume.Record, jobText string) *Result {
	reqs, err := m.extractRequirements(ctx, jobText)
	if err != nil {
		m.logger.Error("job requirement extraction failed", zap.Error(err))
		return fallbackResult(err)
	}

	matches := emptyCategories()
	gaps := emptyCategories()

	matches.Technical, gaps.Technical = matchSkills(record.SkillList("technical"), reqs.TechnicalSkills)
	matches.Soft, gaps.Soft = matchSkills(record.SkillList("soft"), reqs.SoftSkills)
	matches.Education, gaps.Education = matchEducation(record.EducationEntries(), reqs.EducationRequirements)
	matches.Experience, gaps.Experience = matchExperience(record.ExperienceEntries(), reqs.ExperienceRequirements)

	totalRequirements := matches.total() + gaps.total()
	score := 0
	if totalRequirements > 0 {
		score = int(math.Round(float64(matches.total()) / float64(totalRequirements) * 100))
	}

	recommendations := templateRecommendations(gaps)
	if !gaps.empty() {
		recommendations = append(recommendations, m.oracleSuggestions(ctx, gaps, score)...)
	}

	return &Result{
		MatchScore:      score,
		Matches:         matches,
		Gaps:            gaps,
		Recommendations: recommendations,
	}
}

func (m *Matcher) extractRequirements(ctx context.Context, jobText string) (requirements, error) {
	var reqs requirements

	prompt := strings.ReplaceAll(requirementsPrompt, "{{JOB_DESCRIPTION}}", jobText)

	m.logger.Debug("job requirement extraction request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, m.maxLogLen)),
	)

	data, err := ai.GenerateMapping(ctx, m.generator, prompt)
	if err != nil {
		return reqs, err
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &reqs,
	})
	if err != nil {
		return reqs, fmt.Errorf("build requirements decoder: %w", err)
	}

	if err := decoder.Decode(data); err != nil {
		return reqs, fmt.Errorf("decode job requirements: %w", err)
	}

	return reqs, nil
}

// matchSkills classifies each requirement as matched when its lowercased
// form is a substring of at least one lowercased resume skill. The
// asymmetry (requirement inside skill, not the reverse) is deliberate.
func matchSkills(resumeSkills, required []string) (matches, gaps []string) {
	matches = []string{}
	gaps = []string{}

	lowered := make([]string, len(resumeSkills))
	for i, skill := range resumeSkills {
		lowered[i] = strings.ToLower(skill)
	}

	for _, req := range required {
		reqLower := strings.ToLower(req)
		found := false
		for _, skill := range lowered {
			if strings.Contains(skill, reqLower) {
				found = true
				break
			}
		}
		if found {
			matches = append(matches, reqLower)
		} else {
			gaps = append(gaps, reqLower)
		}
	}

	return matches, gaps
}

// matchEducation matches a requirement when it, or any whitespace-split
// token of it, appears inside the degree field of some education entry. The
// first matching entry short-circuits the search.
func matchEducation(entries []map[string]any, required []string) (matches, gaps []string) {
	matches = []string{}
	gaps = []string{}

	for _, req := range required {
		reqLower := strings.ToLower(req)
		found := false
		for _, entry := range entries {
			degree := strings.ToLower(resume.StringField(entry, "degree"))
			if strings.Contains(degree, reqLower) || anyTokenContained(degree, reqLower) {
				found = true
				break
			}
		}
		if found {
			matches = append(matches, req)
		} else {
			gaps = append(gaps, req)
		}
	}

	return matches, gaps
}

func anyTokenContained(haystack, req string) bool {
	for _, token := range strings.Fields(req) {
		if strings.Contains(haystack, token) {
			return true
		}
	}
	return false
}

// matchExperience matches a requirement against the job title or the
// space-joined responsibilities of each experience entry. Responsibilities
// that are not a sequence count as empty.
func matchExperience(entries []map[string]any, required []string) (matches, gaps []string) {
	matches = []string{}
	gaps = []string{}

	for _, req := range required {
		reqLower := strings.ToLower(req)
		found := false
		for _, entry := range entries {
			title := strings.ToLower(resume.StringField(entry, "job_title"))
			responsibilities := strings.ToLower(strings.Join(resume.StringList(entry["responsibilities"]), " "))
			if strings.Contains(title, reqLower) || strings.Contains(responsibilities, reqLower) {
				found = true
				break
			}
		}
		if found {
			matches = append(matches, req)
		} else {
			gaps = append(gaps, req)
		}
	}

	return matches, gaps
}

func templateRecommendations(gaps Categories) []string {
	recommendations := []string{}

	if len(gaps.Technical) > 0 {
		recommendations = append(recommendations, fmt.Sprintf("Add these technical skills to your resume: %s", strings.Join(gaps.Technical, ", ")))
	}
	if len(gaps.Soft) > 0 {
		recommendations = append(recommendations, fmt.Sprintf("Highlight these soft skills if you have them: %s", strings.Join(gaps.Soft, ", ")))
	}
	if len(gaps.Education) > 0 {
		recommendations = append(recommendations, fmt.Sprintf("Consider addressing these education requirements: %s", strings.Join(gaps.Education, ", ")))
	}
	if len(gaps.Experience) > 0 {
		recommendations = append(recommendations, fmt.Sprintf("Emphasize experience related to: %s", strings.Join(gaps.Experience, ", ")))
	}

	return recommendations
}

// oracleSuggestions asks the oracle for free-text improvement suggestions.
// Lines that carry a numbered list prefix are dropped to avoid duplicating
// the enumeration the templates already imply. A failing suggestion call
// degrades to no extra suggestions.
func (m *Matcher) oracleSuggestions(ctx context.Context, gaps Categories, score int) []string {
	replacer := strings.NewReplacer(
		"{{TECHNICAL_GAPS}}", strings.Join(gaps.Technical, ", "),
		"{{SOFT_GAPS}}", strings.Join(gaps.Soft, ", "),
		"{{EDUCATION_GAPS}}", strings.Join(gaps.Education, ", "),
		"{{EXPERIENCE_GAPS}}", strings.Join(gaps.Experience, ", "),
		"{{MATCH_SCORE}}", strconv.Itoa(score),
	)

	raw, err := m.generator.GenerateContent(ctx, replacer.Replace(suggestionsPrompt))
	if err != nil {
		m.logger.Debug("skipping oracle suggestions", zap.Error(err))
		return nil
	}

	suggestions := []string{}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || hasNumberedPrefix(line) {
			continue
		}
		suggestions = append(suggestions, line)
		if len(suggestions) == maxOracleSuggestions {
			break
		}
	}

	return suggestions
}

func hasNumberedPrefix(line string) bool {
	for _, prefix := range []string{"1.", "2.", "3."} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

func emptyCategories() Categories {
	return Categories{
		Technical:  []string{},
		Soft:       []string{},
		Education:  []string{},
		Experience: []string{},
	}
}

func fallbackResult(err error) *Result {
	return &Result{
		MatchScore:      0,
		Matches:         emptyCategories(),
		Gaps:            emptyCategories(),
		Recommendations: []string{fmt.Sprintf("Error processing comparison: %v", err)},
	}
}
