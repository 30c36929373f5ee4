package cli

import (
	"context"
	"math/rand"
	"time"

	"talentscope/internal/ai"
	"talentscope/internal/analytics"
	"talentscope/internal/config"
	"talentscope/internal/errors"
	"talentscope/internal/extract"
	"talentscope/internal/interview"
	"talentscope/internal/questions"
	"talentscope/internal/session"
)

// appDeps holds the domain services shared by the serve and interview
// commands.
type appDeps struct {
	manager   *interview.Manager
	extractor *extract.Extractor
	questions *questions.Generator
}

// unavailableGenerator stands in for an AI provider that could not be
// created (missing key, bad config). Engines degrade to their
// deterministic fallbacks.
type unavailableGenerator struct {
	err error
}

func (g unavailableGenerator) GenerateJSON(context.Context, ai.Request) (string, *ai.TokenUsage, error) {
	return "", nil, g.err
}

// newJSONGenerator returns the AI provider for an operation, or a
// generator that always fails when the provider cannot be created.
func newJSONGenerator(opCfg config.OperationAIConfig, operation string, logger *errors.Logger) ai.JSONGenerator {
	svc, err := ai.NewService(&opCfg, operation, logger)
	if err != nil {
		logger.Warn("AI service unavailable, deterministic fallbacks in effect",
			"operation", operation,
			"error", err.Error())
		return unavailableGenerator{err: err}
	}
	return svc.Provider
}

// newExtractor builds the experience extractor. Without a working AI
// provider it runs regex-only.
func newExtractor(cfg *config.Config, logger *errors.Logger) *extract.Extractor {
	opCfg := cfg.GetExtractConfig()
	svc, err := ai.NewService(&opCfg, "extract", logger)
	if err != nil {
		logger.Warn("extract AI service unavailable, regex extraction only",
			"error", err.Error())
		return extract.New(nil, logger)
	}
	return extract.New(svc.Provider, logger)
}

// newQuestionGenerator builds the smart question generator, optionally
// backed by a hot-reloadable template file.
func newQuestionGenerator(cfg *config.Config, logger *errors.Logger, stop <-chan struct{}) *questions.Generator {
	seed := cfg.Interview.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	if cfg.Interview.TemplatesFile == "" {
		return questions.New(rng)
	}

	loader, err := questions.NewLoader(cfg.Interview.TemplatesFile, logger)
	if err != nil {
		logger.Warn("question template file unusable, using built-in templates",
			"file", cfg.Interview.TemplatesFile,
			"error", err.Error())
		return questions.New(rng)
	}
	go func() {
		if err := loader.Watch(stop); err != nil {
			logger.Warn("question template watch stopped", "error", err.Error())
		}
	}()
	return questions.NewWithLoader(rng, loader)
}

// buildDeps wires the session store, engines, extractor and question
// generator into an interview manager.
func buildDeps(cfg *config.Config, logger *errors.Logger, stop <-chan struct{}) appDeps {
	store := session.NewStore(cfg.Interview.SessionTTL, cfg.Interview.CleanupInterval, logger)
	extractor := newExtractor(cfg, logger)
	generator := newQuestionGenerator(cfg, logger, stop)

	advanced := interview.NewAdvancedEngine(
		newJSONGenerator(cfg.GetInterviewConfig(), "interview", logger), logger)
	basic := interview.NewBasicEngine(logger)

	manager := interview.NewManager(store, advanced, basic,
		extractor, generator, analytics.Analyze, cfg.Interview, logger)

	return appDeps{
		manager:   manager,
		extractor: extractor,
		questions: generator,
	}
}
