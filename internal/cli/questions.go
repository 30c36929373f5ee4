package cli

import (
	"context"
	"fmt"
	"time"

	"talentscope/internal/ai"
	"talentscope/internal/analytics"
	"talentscope/internal/common"
	"talentscope/internal/timeline"
	"talentscope/internal/types"

	"github.com/spf13/cobra"
)

var questionsCmd = &cobra.Command{
	Use:   "questions [resume-file]",
	Short: "Generate targeted interview questions from a resume",
	Long: `Extract the work history from a resume, analyze it, and generate
interview questions targeted at the specific patterns found: gaps,
short tenures, industry moves, trajectory changes and red flags.
Questions are ordered by priority.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if questionsConfig.OutputFormat == "" {
			questionsConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(questionsConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runQuestions,
}

var (
	questionsConfig common.CommandConfig
	maxQuestions    int
)

func init() {
	questionsCmd.Flags().StringVarP(&questionsConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	questionsCmd.Flags().StringVar(&questionsConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	questionsCmd.Flags().IntVar(&maxQuestions, "max", 10, "Maximum number of questions to generate")

	// Add completion for format flag
	_ = questionsCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runQuestions(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	extractor := newExtractor(cfg, logger)
	generator := newQuestionGenerator(cfg, logger, cmd.Context().Done())

	createInput := func(contents []string) (string, error) {
		if len(contents) != 1 {
			return "", fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		return contents[0], nil
	}

	logDetails := func(resumeText string, cfg common.CommandConfig) {
		logger.Info("Starting question generation",
			"resume_chars", len(resumeText),
			"max_questions", maxQuestions,
			"output_format", cfg.OutputFormat)
	}

	questionsOperation := func(ctx context.Context, resumeText string) (types.QuestionPlan, *ai.TokenUsage, error) {
		entries := extractor.Extract(ctx, resumeText)
		insights := analytics.Analyze(entries, timeline.Of(time.Now()))
		generated := generator.Generate(insights, entries, maxQuestions)
		return types.QuestionPlan{Questions: generated, ExperienceCount: len(entries)}, nil, nil
	}

	err := common.RunAICommand(
		cmd.Context(),
		logger,
		questionsConfig,
		args,
		createInput,
		questionsOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to generate questions: %w", err)
	}
	logger.Info("Question generation completed successfully")
	return nil
}
