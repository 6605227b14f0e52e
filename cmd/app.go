package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"resume-insight/internal/ai/gemini"
	"resume-insight/internal/extract"
	"resume-insight/internal/logger"
	"resume-insight/internal/match"
	"resume-insight/internal/quality"
	"resume-insight/internal/resume"
	"resume-insight/internal/secrets"
	"resume-insight/internal/spell"
)

// analyzer bundles the components behind the command surface. Everything is
// built fresh per invocation; no state survives a command.
type analyzer struct {
	logger     *zap.Logger
	normalizer *resume.Normalizer
	matcher    *match.Matcher
	auditor    *spell.Auditor
	scorer     *quality.Scorer
}

// newAnalyzer wires the logger, the Gemini generator, and the analysis
// components. Any setup failure is fatal: without an oracle there is
// nothing the tool can do.
func newAnalyzer(cmd *cobra.Command) *analyzer {
	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating a logger: %v\n", err)
		os.Exit(1)
	}

	log = log.With(zap.String("run_id", uuid.NewString()))

	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}

	apiKey, err := secrets.Load("gemini api key", config.Gemini.APIKey, config.Gemini.APIKeyFile)
	if err != nil {
		log.Fatal("loading gemini api key",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY or the 'gemini.api-key-file' key in the configuration file"),
		)
	}

	generator, err := gemini.NewGenerator(cmd.Context(), apiKey, config.Gemini.Model, config.Gemini.MaxRetries, log.With(zap.String("provider", "gemini")))
	if err != nil {
		log.Fatal("creating gemini generator", zap.Error(err))
	}

	auditor := spell.NewAuditor(generator, log, config.Gemini.MaxLogLength)

	return &analyzer{
		logger:     log,
		normalizer: resume.NewNormalizer(generator, log, config.Gemini.MaxLogLength),
		matcher:    match.NewMatcher(generator, log, config.Gemini.MaxLogLength),
		auditor:    auditor,
		scorer:     quality.NewScorer(generator, auditor, log),
	}
}

// resumeText extracts plain text from the document at path, exiting with a
// user-facing rejection for unsupported formats.
func (a *analyzer) resumeText(path string) string {
	text, err := extract.File(path)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupportedFormat) {
			a.logger.Fatal("unsupported document format",
				zap.Error(err),
				zap.Strings("allowed_extensions", extract.AllowedExtensions),
			)
		}
		a.logger.Fatal("extracting document text", zap.String("path", path), zap.Error(err))
	}

	return text
}

func printJSON(v any) error {
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	fmt.Println(string(pretty))
	return nil
}
