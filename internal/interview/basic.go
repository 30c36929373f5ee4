package interview

import (
	"context"
	"strings"

	"talentscope/internal/errors"
	"talentscope/internal/types"
)

// BasicEngine runs an interview without any AI calls. Questions come
// from the career-analytics generator when available and from the
// canned rotation otherwise; evaluations come from the lexical depth
// heuristics. Useful when no API key is configured and as the floor
// the advanced engine degrades to.
type BasicEngine struct {
	logger *errors.Logger
}

func NewBasicEngine(logger *errors.Logger) *BasicEngine {
	return &BasicEngine{logger: logger}
}

func (e *BasicEngine) Initialize(_ context.Context, s *types.InterviewSession) string {
	return fallbackIntro(s.InterviewType, s.TargetQuestions)
}

func (e *BasicEngine) NextQuestion(_ context.Context, s *types.InterviewSession) types.SessionQuestion {
	strat := nextStrategy(s)
	if sq := selectSmartQuestion(s, strat); sq != nil {
		return formatSmartQuestion(s, sq)
	}
	if sq := firstUnusedSmart(s); sq != nil {
		return formatSmartQuestion(s, sq)
	}
	return fallbackQuestion(s.MainQuestionCount(), s.Difficulty)
}

func (e *BasicEngine) Evaluate(_ context.Context, s *types.InterviewSession, q types.SessionQuestion, response string) types.Evaluation {
	eval := heuristicEvaluation(response)
	updateState(s, q, eval)
	return eval
}

func (e *BasicEngine) FollowUp(_ context.Context, _ *types.InterviewSession, q types.SessionQuestion, _ string, eval types.Evaluation) types.SessionQuestion {
	return fallbackFollowUp(followUpType(eval), q)
}

func (e *BasicEngine) Closing(_ context.Context, _ *types.InterviewSession) string {
	return fallbackClosing()
}

// heuristicEvaluation scores a response from lexical signals alone.
// The mapping is deliberately conservative: scores cluster around the
// midpoint and only strong signals move them far.
func heuristicEvaluation(response string) types.Evaluation {
	d := AssessDepth(response)
	lower := strings.ToLower(response)

	scores := types.EvaluationScores{
		Content:        clampScore(2 + d.Score),
		Communication:  clampScore(4 + min(float64(d.WordCount)/25, 4) - float64(d.VagueCount)),
		Analytical:     clampScore(4 + boolScore(containsAny(lower, challengeWords), 2) + boolScore(containsAny(lower, reflectionWords), 2)),
		TechnicalDepth: clampScore(3 + float64(min(d.NumberCount, 3)) + float64(d.SpecificCount)),
		StarMethod:     clampScore(3 + boolScore(d.PersonalContributionClear, 2) + boolScore(d.HasMetrics, 2)),
		Authenticity:   clampScore(7 - float64(d.VagueCount) + boolScore(containsAny(lower, reflectionWords), 1)),
	}

	overall := (scores.Content + scores.Communication + scores.Analytical +
		scores.TechnicalDepth + scores.StarMethod + scores.Authenticity) / 6

	var strengths, weaknesses, redFlags []string
	if d.HasMetrics {
		strengths = append(strengths, "Backs claims with concrete numbers")
	}
	if containsAny(lower, reflectionWords) {
		strengths = append(strengths, "Reflects on lessons learned")
	}
	if d.WordCount < 30 {
		weaknesses = append(weaknesses, "Answer is very brief")
	}
	if d.VagueLanguage {
		weaknesses = append(weaknesses, "Relies on vague language")
	}
	if !d.PersonalContributionClear {
		weaknesses = append(weaknesses, "Personal contribution unclear")
		if d.VagueLanguage {
			redFlags = append(redFlags, "Describes team outcomes without a clear personal role")
		}
	}

	return types.Evaluation{
		Scores:              scores,
		OverallScore:        overall,
		Strengths:           strengths,
		Weaknesses:          weaknesses,
		RedFlags:            redFlags,
		Feedback:            depthFeedback(d.Depth),
		FollowUpRecommended: d.NeedsFollowUp,
		DepthLevel:          d.Depth,
	}
}

func depthFeedback(depth string) string {
	switch depth {
	case "deep":
		return "Strong, detailed answer with concrete specifics."
	case "adequate":
		return "Solid answer; more concrete detail would strengthen it."
	case "surface":
		return "Touches the topic but stays general; specifics are missing."
	default:
		return "Very brief answer; substantially more detail is needed."
	}
}

func boolScore(b bool, v float64) float64 {
	if b {
		return v
	}
	return 0
}
