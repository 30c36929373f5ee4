package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"talentscope/internal/common"
	"talentscope/internal/interview"
	"talentscope/internal/types"

	"github.com/spf13/cobra"
)

var interviewCmd = &cobra.Command{
	Use:   "interview [resume-file]",
	Short: "Run an adaptive interview session in the terminal",
	Long: `Run an interactive interview session against a resume. Questions
adapt to each answer: strong answers go deeper, weak answers get a
follow-up, and concerns raised mid-interview are verified before the
session ends.

Type your answer and press Enter to submit it. Type "end" to finish
the interview early and see the evaluation of what was answered.`,
	Args: cobra.ExactArgs(1),
	RunE: runInterview,
}

var (
	interviewQuestions  int
	interviewEngine     string
	interviewType       string
	interviewDifficulty string
	interviewJobFile    string
)

func init() {
	interviewCmd.Flags().IntVarP(&interviewQuestions, "questions", "n", 0, "Number of main questions (default from config)")
	interviewCmd.Flags().StringVar(&interviewEngine, "engine", "", "Interview engine: advanced or basic (default from config)")
	interviewCmd.Flags().StringVar(&interviewType, "type", "comprehensive", "Interview type: comprehensive, technical, behavioral, screening")
	interviewCmd.Flags().StringVar(&interviewDifficulty, "difficulty", "", "Difficulty level: junior, mid, senior (default inferred from experience)")
	interviewCmd.Flags().StringVar(&interviewJobFile, "job", "", "Job description file to target the interview at")
}

func runInterview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	fp := common.NewFileProcessor(logger)
	resumeText, err := fp.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	jobDescription := ""
	if interviewJobFile != "" {
		jobDescription, err = fp.ReadFile(interviewJobFile)
		if err != nil {
			return fmt.Errorf("failed to read job description: %w", err)
		}
	}

	deps := buildDeps(cfg, logger, ctx.Done())

	start, err := deps.manager.Start(ctx, interview.StartRequest{
		ResumeText:     resumeText,
		JobDescription: jobDescription,
		InterviewType:  interviewType,
		NumQuestions:   interviewQuestions,
		Difficulty:     interviewDifficulty,
		EngineVariant:  interviewEngine,
	})
	if err != nil {
		return fmt.Errorf("failed to start interview: %w", err)
	}

	fmt.Println(start.Introduction)
	fmt.Println()
	printQuestion(1, start.FirstQuestion)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	questionNum := 1
	for scanner.Scan() {
		answer := strings.TrimSpace(scanner.Text())
		if answer == "" {
			continue
		}
		if answer == "end" || answer == "quit" {
			sess, err := deps.manager.End(ctx, start.SessionID)
			if err != nil {
				return fmt.Errorf("failed to end interview: %w", err)
			}
			printClosing(sess.Closing, sess.Aggregate)
			return nil
		}

		result, err := deps.manager.Submit(ctx, start.SessionID, answer)
		if err != nil {
			return fmt.Errorf("failed to submit response: %w", err)
		}

		printEvaluation(result.Evaluation)

		if result.Completed {
			printClosing(result.Closing, result.Aggregate)
			return nil
		}
		if result.NextQuestion != nil {
			questionNum++
			fmt.Println()
			printQuestion(questionNum, *result.NextQuestion)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	// Stdin closed mid-interview: evaluate what was answered so far.
	sess, err := deps.manager.End(ctx, start.SessionID)
	if err != nil {
		return fmt.Errorf("failed to end interview: %w", err)
	}
	printClosing(sess.Closing, sess.Aggregate)
	return nil
}

func printQuestion(num int, q types.SessionQuestion) {
	label := fmt.Sprintf("Question %d", num)
	if q.IsFollowUp {
		label = "Follow-up"
	}
	fmt.Printf("%s [%s", label, q.QuestionType)
	if q.Topic != "" {
		fmt.Printf(" / %s", q.Topic)
	}
	fmt.Println("]")
	fmt.Println(q.Question)
	fmt.Print("> ")
}

func printEvaluation(ev types.Evaluation) {
	fmt.Printf("\nScore: %.1f/10", ev.OverallScore)
	if ev.DepthLevel != "" {
		fmt.Printf(" (%s)", ev.DepthLevel)
	}
	fmt.Println()
	if ev.Feedback != "" {
		fmt.Println(ev.Feedback)
	}
	for _, s := range ev.Strengths {
		fmt.Printf("  + %s\n", s)
	}
	for _, w := range ev.Weaknesses {
		fmt.Printf("  - %s\n", w)
	}
	for _, f := range ev.RedFlags {
		fmt.Printf("  ! %s\n", f)
	}
}

func printClosing(closing string, agg *types.AggregateScores) {
	fmt.Println()
	if closing != "" {
		fmt.Println(closing)
	}
	if agg == nil {
		fmt.Println("No responses were evaluated.")
		return
	}
	fmt.Println()
	fmt.Printf("Overall: %.1f/100, %s (%d questions)\n",
		agg.Overall, agg.Recommendation, agg.QuestionCount)
	fmt.Printf("  Content:         %.1f/10\n", agg.Dimensions.Content)
	fmt.Printf("  Communication:   %.1f/10\n", agg.Dimensions.Communication)
	fmt.Printf("  Analytical:      %.1f/10\n", agg.Dimensions.Analytical)
	fmt.Printf("  Technical depth: %.1f/10\n", agg.Dimensions.TechnicalDepth)
}
