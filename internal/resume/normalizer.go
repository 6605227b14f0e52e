package resume

import (
	"context"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"resume-insight/internal/ai"
	"resume-insight/internal/utils"
)

//go:embed prompt.md
var parsePrompt string

const defaultMaxLogLength = 200

// Normalizer turns raw resume text into a canonical Record by asking the
// extraction oracle for structured data and reconciling the answer against
// the canonical shape.
type Normalizer struct {
	generator ai.Generator
	logger    *zap.Logger
	maxLogLen int
}

func NewNormalizer(generator ai.Generator, logger *zap.Logger, maxLogLength int) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Normalizer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Parse extracts a structured record from resume text. An oracle failure is
// logged once and produces the all-defaults record, so downstream consumers
// always receive a structurally valid record.
func (n *Normalizer) Parse(ctx context.Context, text string, includeSummary bool) Record {
	prompt := strings.ReplaceAll(parsePrompt, "{{RESUME_TEXT}}", text)

	n.logger.Debug("resume extraction request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, n.maxLogLen)),
	)

	data, err := ai.GenerateMapping(ctx, n.generator, prompt)
	if err != nil {
		n.logger.Error("resume extraction failed, returning empty record", zap.Error(err))
		return NewRecord(includeSummary)
	}

	return Normalize(data, includeSummary)
}
