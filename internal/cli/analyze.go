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

var analyzeCmd = &cobra.Command{
	Use:   "analyze [resume-file]",
	Short: "Analyze a resume's career patterns",
	Long: `Extract the work history from a resume and analyze it for patterns
worth probing in an interview.

The analysis includes:
- Employment gaps with severity ratings
- Job hopping and tenure statistics
- Industry transitions and career trajectory
- Overlapping positions and authenticity concerns
- Red flags that warrant verification`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if analyzeConfig.OutputFormat == "" {
			analyzeConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(analyzeConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runAnalyze,
}

var analyzeConfig common.CommandConfig

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	// Add completion for format flag
	_ = analyzeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	extractor := newExtractor(cfg, logger)

	createInput := func(contents []string) (string, error) {
		if len(contents) != 1 {
			return "", fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		return contents[0], nil
	}

	logDetails := func(resumeText string, cfg common.CommandConfig) {
		logger.Info("Starting career analysis",
			"resume_chars", len(resumeText),
			"output_format", cfg.OutputFormat)
	}

	analyzeOperation := func(ctx context.Context, resumeText string) (types.CareerReport, *ai.TokenUsage, error) {
		entries := extractor.Extract(ctx, resumeText)
		insights := analytics.Analyze(entries, timeline.Of(time.Now()))
		return types.CareerReport{Entries: entries, Insights: insights}, nil, nil
	}

	err := common.RunAICommand(
		cmd.Context(),
		logger,
		analyzeConfig,
		args,
		createInput,
		analyzeOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}
	logger.Info("Career analysis completed successfully")
	return nil
}
