// Package interview runs adaptive interview sessions: question
// strategy, response evaluation, follow-up decisions and final
// scoring. Two engine variants share one interface; the advanced one
// reasons with an AI model and degrades to the basic one's heuristics
// when the model is unavailable.
package interview

import (
	"context"
	"slices"

	"talentscope/internal/ai"
	"talentscope/internal/errors"
	"talentscope/internal/types"
)

// generator is the slice of the AI provider the engines need.
type generator interface {
	GenerateJSON(ctx context.Context, req ai.Request) (string, *ai.TokenUsage, error)
}

// Engine drives one interview session. Implementations must never fail
// a session outright: when generation or evaluation breaks they fall
// back to deterministic output and keep the session moving.
type Engine interface {
	// Initialize produces the personalized introduction for a new session.
	Initialize(ctx context.Context, s *types.InterviewSession) string
	// NextQuestion produces the next main question.
	NextQuestion(ctx context.Context, s *types.InterviewSession) types.SessionQuestion
	// Evaluate scores a response to the given question and updates the
	// session's adaptive state.
	Evaluate(ctx context.Context, s *types.InterviewSession, q types.SessionQuestion, response string) types.Evaluation
	// FollowUp produces a follow-up to the given question and response.
	FollowUp(ctx context.Context, s *types.InterviewSession, q types.SessionQuestion, response string, eval types.Evaluation) types.SessionQuestion
	// Closing produces the wrap-up message for a completed session.
	Closing(ctx context.Context, s *types.InterviewSession) string
}

// Engine variant names, chosen at session creation.
const (
	VariantAdvanced = "advanced"
	VariantBasic    = "basic"
)

// NewEngine returns the engine for a variant name. gen may be nil for
// the basic variant.
func NewEngine(variant string, gen generator, logger *errors.Logger) (Engine, error) {
	switch variant {
	case VariantAdvanced:
		return NewAdvancedEngine(gen, logger), nil
	case VariantBasic:
		return NewBasicEngine(logger), nil
	default:
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"Unknown interview engine variant", nil).WithContext("variant", variant)
	}
}

func clampScore(v float64) float64 {
	return min(10, max(0, v))
}

// followUpType picks the follow-up flavor from the weakest evaluation
// signal, checked in order of how damaging the weakness is.
func followUpType(eval types.Evaluation) string {
	if len(eval.RedFlags) > 0 {
		return "verification"
	}
	if eval.Scores.Content < 5 {
		return "clarification"
	}
	if eval.Scores.TechnicalDepth < 5 {
		return "depth_probe"
	}
	if eval.Scores.StarMethod < 5 {
		return "structure"
	}
	if eval.Scores.Authenticity < 6 {
		return "verification"
	}
	return "expansion"
}

// updateState folds one evaluation into the session's adaptive state:
// topic coverage, depth scores, pending red flags, and the probe list
// that drives deeper questioning.
func updateState(s *types.InterviewSession, q types.SessionQuestion, eval types.Evaluation) {
	topic := q.Topic
	if topic == "" {
		topic = "general"
	}

	if s.DepthScores == nil {
		s.DepthScores = make(map[string]float64)
	}
	s.DepthScores[topic] = eval.OverallScore

	if !slices.Contains(s.TopicsCovered, topic) {
		s.TopicsCovered = append(s.TopicsCovered, topic)
	}

	for _, flag := range eval.RedFlags {
		s.PendingFlags = append(s.PendingFlags, types.PendingFlag{
			Area:        topic,
			Description: flag,
			Question:    q.Question,
		})
	}

	if eval.FollowUpRecommended {
		if !slices.Contains(s.ProbeTopics, topic) {
			s.ProbeTopics = append(s.ProbeTopics, topic)
		}
	} else if i := slices.Index(s.ProbeTopics, topic); i >= 0 {
		s.ProbeTopics = slices.Delete(s.ProbeTopics, i, i+1)
	}

	s.Strengths = append(s.Strengths, eval.Strengths...)
	s.Concerns = append(s.Concerns, eval.Weaknesses...)
}
