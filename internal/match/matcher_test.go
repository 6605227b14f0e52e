package match

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"resume-insight/internal/resume"
)

// scriptedGenerator pops one queued response per call, so a single test can
// script the requirement extraction and the suggestion call separately.
type scriptedGenerator struct {
	responses []string
	errs      []error
	prompts   []string
}

func (s *scriptedGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)

	var err error
	if len(s.errs) > 0 {
		err = s.errs[0]
		s.errs = s.errs[1:]
	}
	if err != nil {
		return "", err
	}

	if len(s.responses) == 0 {
		return "", errors.New("no scripted response left")
	}
	response := s.responses[0]
	s.responses = s.responses[1:]
	return response, nil
}

func skillsRecord(technical ...string) resume.Record {
	items := make([]any, len(technical))
	for i, s := range technical {
		items[i] = s
	}
	return resume.Normalize(map[string]any{
		"skills": map[string]any{"technical": items},
	}, false)
}

func TestCompareTechnicalSubstringMatching(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		`{"technical_skills": ["python", "sql"]}`,
		"Take a SQL course.",
	}}
	matcher := NewMatcher(gen, zap.NewNop(), 0)

	result := matcher.Compare(context.Background(), skillsRecord("Python", "React"), "job text")

	if !reflect.DeepEqual(result.Matches.Technical, []string{"python"}) {
		t.Fatalf("unexpected technical matches: %v", result.Matches.Technical)
	}
	if !reflect.DeepEqual(result.Gaps.Technical, []string{"sql"}) {
		t.Fatalf("unexpected technical gaps: %v", result.Gaps.Technical)
	}
	if result.MatchScore != 50 {
		t.Fatalf("expected score 50, got %d", result.MatchScore)
	}
}

func TestCompareOrderIndependent(t *testing.T) {
	run := func(skills []string, reqs string) *Result {
		gen := &scriptedGenerator{responses: []string{reqs, "extra advice"}}
		matcher := NewMatcher(gen, zap.NewNop(), 0)
		return matcher.Compare(context.Background(), skillsRecord(skills...), "job")
	}

	first := run([]string{"Python", "React"}, `{"technical_skills": ["python", "sql"]}`)
	second := run([]string{"React", "Python"}, `{"technical_skills": ["sql", "python"]}`)

	if first.MatchScore != second.MatchScore {
		t.Fatalf("score changed with ordering: %d vs %d", first.MatchScore, second.MatchScore)
	}

	sameMembers := func(a, b []string) bool {
		if len(a) != len(b) {
			return false
		}
		seen := map[string]int{}
		for _, s := range a {
			seen[s]++
		}
		for _, s := range b {
			seen[s]--
		}
		for _, n := range seen {
			if n != 0 {
				return false
			}
		}
		return true
	}

	if !sameMembers(first.Matches.Technical, second.Matches.Technical) {
		t.Fatalf("matches changed with ordering: %v vs %v", first.Matches.Technical, second.Matches.Technical)
	}
	if !sameMembers(first.Gaps.Technical, second.Gaps.Technical) {
		t.Fatalf("gaps changed with ordering: %v vs %v", first.Gaps.Technical, second.Gaps.Technical)
	}
}

func TestCompareEducationTokenMatching(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		`{"education_requirements": ["Bachelor's degree in Computer Science", "PhD in Physics"]}`,
		"advice",
	}}
	matcher := NewMatcher(gen, zap.NewNop(), 0)

	record := resume.Normalize(map[string]any{
		"education": []any{
			map[string]any{"institution": "MIT", "degree": "BSc Computer Science"},
		},
	}, false)

	result := matcher.Compare(context.Background(), record, "job")

	// "computer" and "science" are tokens of the first requirement and
	// substrings of the degree; nothing in the degree mentions physics.
	if !reflect.DeepEqual(result.Matches.Education, []string{"Bachelor's degree in Computer Science"}) {
		t.Fatalf("unexpected education matches: %v", result.Matches.Education)
	}
	if !reflect.DeepEqual(result.Gaps.Education, []string{"PhD in Physics"}) {
		t.Fatalf("unexpected education gaps: %v", result.Gaps.Education)
	}
}

func TestCompareExperienceResponsibilities(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		`{"experience_requirements": ["Kubernetes", "team leadership"]}`,
		"advice",
	}}
	matcher := NewMatcher(gen, zap.NewNop(), 0)

	record := resume.Normalize(map[string]any{
		"work_experience": []any{
			map[string]any{
				"job_title":        "Platform Engineer",
				"responsibilities": []any{"Operated Kubernetes clusters", "On-call rotation"},
			},
			map[string]any{
				"job_title":        "Engineer",
				"responsibilities": "not-a-sequence",
			},
		},
	}, false)

	result := matcher.Compare(context.Background(), record, "job")

	if !reflect.DeepEqual(result.Matches.Experience, []string{"Kubernetes"}) {
		t.Fatalf("unexpected experience matches: %v", result.Matches.Experience)
	}
	if !reflect.DeepEqual(result.Gaps.Experience, []string{"team leadership"}) {
		t.Fatalf("unexpected experience gaps: %v", result.Gaps.Experience)
	}
}

func TestCompareZeroRequirementsScoresZero(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{`{}`}}
	matcher := NewMatcher(gen, zap.NewNop(), 0)

	result := matcher.Compare(context.Background(), skillsRecord("Go"), "job")

	if result.MatchScore != 0 {
		t.Fatalf("expected score 0 without requirements, got %d", result.MatchScore)
	}
	if len(result.Recommendations) != 0 {
		t.Fatalf("expected no recommendations, got %v", result.Recommendations)
	}
	if len(gen.prompts) != 1 {
		t.Fatalf("expected no suggestion call without gaps, got %d prompts", len(gen.prompts))
	}
}

func TestCompareScoreBounds(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		`{"technical_skills": ["go", "python", "rust"]}`,
		"advice",
	}}
	matcher := NewMatcher(gen, zap.NewNop(), 0)

	result := matcher.Compare(context.Background(), skillsRecord("Go", "Python"), "job")

	if result.MatchScore < 0 || result.MatchScore > 100 {
		t.Fatalf("score out of range: %d", result.MatchScore)
	}
	if result.MatchScore != 67 {
		t.Fatalf("expected rounded score 67, got %d", result.MatchScore)
	}
}

func TestCompareRecommendationTemplates(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		`{
			"technical_skills": ["sql"],
			"soft_skills": ["mentoring"],
			"education_requirements": ["MBA"],
			"experience_requirements": ["5 years of management"]
		}`,
		"1. numbered lines are filtered\nPair with a senior DBA.\nShadow the sales team.\nDocument your projects.\nThis one is beyond the cap.",
	}}
	matcher := NewMatcher(gen, zap.NewNop(), 0)

	result := matcher.Compare(context.Background(), skillsRecord("Go"), "job")

	want := []string{
		"Add these technical skills to your resume: sql",
		"Highlight these soft skills if you have them: mentoring",
		"Consider addressing these education requirements: MBA",
		"Emphasize experience related to: 5 years of management",
		"Pair with a senior DBA.",
		"Shadow the sales team.",
		"Document your projects.",
	}
	if !reflect.DeepEqual(result.Recommendations, want) {
		t.Fatalf("unexpected recommendations:\ngot:  %v\nwant: %v", result.Recommendations, want)
	}
}

func TestCompareSuggestionFailureDegrades(t *testing.T) {
	gen := &scriptedGenerator{
		responses: []string{`{"technical_skills": ["sql"]}`},
		errs:      []error{nil, errors.New("suggestion call failed")},
	}
	matcher := NewMatcher(gen, zap.NewNop(), 0)

	result := matcher.Compare(context.Background(), skillsRecord("Go"), "job")

	want := []string{"Add these technical skills to your resume: sql"}
	if !reflect.DeepEqual(result.Recommendations, want) {
		t.Fatalf("unexpected recommendations: %v", result.Recommendations)
	}
}

func TestCompareOracleFailureFallback(t *testing.T) {
	gen := &scriptedGenerator{errs: []error{errors.New("oracle unreachable")}}
	matcher := NewMatcher(gen, zap.NewNop(), 0)

	result := matcher.Compare(context.Background(), skillsRecord("Go"), "job")

	if result.MatchScore != 0 {
		t.Fatalf("expected score 0, got %d", result.MatchScore)
	}
	if !reflect.DeepEqual(result.Matches, emptyCategories()) || !reflect.DeepEqual(result.Gaps, emptyCategories()) {
		t.Fatalf("expected empty categories, got %+v", result)
	}
	if len(result.Recommendations) != 1 {
		t.Fatalf("expected single error recommendation, got %v", result.Recommendations)
	}
}

func TestCompareMalformedCategoriesFallback(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{`{"technical_skills": {"not": "a list"}}`}}
	matcher := NewMatcher(gen, zap.NewNop(), 0)

	result := matcher.Compare(context.Background(), skillsRecord("Go"), "job")

	if result.MatchScore != 0 || len(result.Recommendations) != 1 {
		t.Fatalf("expected fallback result, got %+v", result)
	}
}
