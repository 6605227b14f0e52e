package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Generator is the capability every analysis component depends on: send a
// prompt to the extraction oracle and get its textual response back. The
// oracle is a natural-language black box and may be slow, unavailable, or
// return content that is not usable JSON.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// OracleError reports that the oracle was unreachable or returned content
// that could not be parsed as a JSON object.
type OracleError struct {
	Err error
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("oracle: %v", e.Err)
}

func (e *OracleError) Unwrap() error {
	return e.Err
}

// GenerateMapping sends the prompt to the oracle and parses the response as
// a JSON object, unwrapping markdown code fences first. Every failure is
// reported as an *OracleError; callers treat missing keys in the returned
// mapping as absent, never as an error.
func GenerateMapping(ctx context.Context, g Generator, prompt string) (map[string]any, error) {
	raw, err := g.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, &OracleError{Err: err}
	}

	cleaned := ExtractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, &OracleError{Err: fmt.Errorf("parse oracle response: %w", err)}
	}

	return data, nil
}

// ExtractJSON unwraps a JSON payload from optional triple-backtick fences,
// with or without a json language tag.
func ExtractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
