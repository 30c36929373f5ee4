package interview

import (
	"context"
	"testing"

	"talentscope/internal/ai"
	"talentscope/internal/errors"
	"talentscope/internal/types"
)

// fakeGenerator returns canned responses keyed by operation.
type fakeGenerator struct {
	responses  map[string]string
	err        error
	operations []string
}

func (f *fakeGenerator) GenerateJSON(_ context.Context, req ai.Request) (string, *ai.TokenUsage, error) {
	f.operations = append(f.operations, req.Operation)
	if f.err != nil {
		return "", nil, f.err
	}
	resp, ok := f.responses[req.Operation]
	if !ok {
		return "{}", nil, nil
	}
	return resp, nil, nil
}

func aiDown() *fakeGenerator {
	return &fakeGenerator{err: errors.NewAIError(errors.ErrCodeAIServiceFailed, "model unavailable", nil)}
}

func TestAdvancedEvaluateParsesModelResponse(t *testing.T) {
	gen := &fakeGenerator{responses: map[string]string{
		"evaluate_response": `{
			"scores": {"content": 8, "communication": 7, "analytical": 6, "technicalDepth": 9, "starMethod": 5, "authenticity": 8},
			"overallScore": 7.4,
			"strengths": ["Concrete metrics"],
			"weaknesses": ["Rambling"],
			"feedback": "Good answer overall.",
			"followUpRecommended": true,
			"followUpReason": "Clarify team size"
		}`,
	}}
	engine := NewAdvancedEngine(gen, testLogger())
	s := &types.InterviewSession{}
	q := types.SessionQuestion{Question: "Tell me about the migration.", Topic: "migration"}

	eval := engine.Evaluate(context.Background(), s, q, "I led the migration of 12 services over 6 months.")

	if eval.OverallScore != 7.4 {
		t.Errorf("OverallScore = %v", eval.OverallScore)
	}
	if eval.Scores.TechnicalDepth != 9 {
		t.Errorf("TechnicalDepth = %v", eval.Scores.TechnicalDepth)
	}
	if !eval.FollowUpRecommended || eval.FollowUpReason != "Clarify team size" {
		t.Errorf("follow-up fields = %v / %q", eval.FollowUpRecommended, eval.FollowUpReason)
	}
	if eval.DepthLevel == "" {
		t.Error("DepthLevel should be set from the lexical assessment")
	}
	if eval.IsFallback {
		t.Error("successful evaluation should not be marked fallback")
	}
	// State updated: follow-up recommended puts the topic on the probe list.
	if len(s.ProbeTopics) != 1 || s.ProbeTopics[0] != "migration" {
		t.Errorf("ProbeTopics = %v", s.ProbeTopics)
	}
}

func TestAdvancedEvaluateFailureFallsBack(t *testing.T) {
	engine := NewAdvancedEngine(aiDown(), testLogger())
	s := &types.InterviewSession{}
	q := types.SessionQuestion{Question: "Q", Topic: "general"}

	eval := engine.Evaluate(context.Background(), s, q, "Some answer here.")

	if !eval.IsFallback {
		t.Error("failed evaluation should fall back to neutral scores")
	}
	if eval.OverallScore != 5 || eval.Scores.Content != 5 {
		t.Errorf("fallback scores = %+v", eval)
	}
	if eval.Feedback != "Thank you for your response." {
		t.Errorf("Feedback = %q", eval.Feedback)
	}
	if eval.DepthLevel == "" {
		t.Error("fallback still carries the lexical depth level")
	}
}

func TestValidateEvaluationClamping(t *testing.T) {
	eval := validateEvaluation(aiEvaluation{
		Scores: map[string]float64{
			"content":        15,
			"communication":  -3,
			"technicalDepth": 7,
		},
	})

	if eval.Scores.Content != 10 {
		t.Errorf("Content = %v, want clamped to 10", eval.Scores.Content)
	}
	if eval.Scores.Communication != 0 {
		t.Errorf("Communication = %v, want clamped to 0", eval.Scores.Communication)
	}
	// Missing dimensions default to the midpoint.
	if eval.Scores.Analytical != 5 || eval.Scores.StarMethod != 5 || eval.Scores.Authenticity != 5 {
		t.Errorf("missing scores should default to 5: %+v", eval.Scores)
	}
	// Overall missing: mean of 10,0,5,7,5,5 = 5.333...
	want := (10.0 + 0 + 5 + 7 + 5 + 5) / 6
	if eval.OverallScore != want {
		t.Errorf("OverallScore = %v, want %v", eval.OverallScore, want)
	}
	if eval.Feedback != "Thank you for your response." {
		t.Errorf("Feedback = %q", eval.Feedback)
	}
}

func TestAdvancedNextQuestionPrefersSmart(t *testing.T) {
	gen := &fakeGenerator{}
	engine := NewAdvancedEngine(gen, testLogger())
	s := &types.InterviewSession{
		UsedSmart: map[string]bool{},
		Smart: []types.InterviewQuestion{
			{Question: "Walk me through the 2021 gap.", Category: "gap", Priority: "high", Context: "gap before Globex"},
		},
	}

	q := engine.NextQuestion(context.Background(), s)

	if !q.IsSmart {
		t.Fatalf("expected smart question, got %+v", q)
	}
	if len(gen.operations) != 0 {
		t.Errorf("model called %v despite available smart question", gen.operations)
	}
}

func TestAdvancedNextQuestionFromModel(t *testing.T) {
	gen := &fakeGenerator{responses: map[string]string{
		"generate_question": `{"question": "How did you choose the sharding strategy?", "topic": "architecture", "difficulty": "hard", "expectedElements": ["trade-offs"]}`,
	}}
	engine := NewAdvancedEngine(gen, testLogger())
	s := &types.InterviewSession{Difficulty: "mid"}

	q := engine.NextQuestion(context.Background(), s)

	if q.Question != "How did you choose the sharding strategy?" {
		t.Errorf("Question = %q", q.Question)
	}
	if q.Topic != "architecture" || q.Difficulty != "hard" {
		t.Errorf("question = %+v", q)
	}
	// With no coverage yet, the weighted default targets technical work.
	if q.QuestionType != "technical" {
		t.Errorf("QuestionType = %q", q.QuestionType)
	}
}

func TestAdvancedNextQuestionFailureFallsBack(t *testing.T) {
	engine := NewAdvancedEngine(aiDown(), testLogger())
	s := &types.InterviewSession{Difficulty: "mid"}

	q := engine.NextQuestion(context.Background(), s)

	if q.Topic != "introduction" {
		t.Errorf("Topic = %q, want first canned question", q.Topic)
	}

	s.Questions = append(s.Questions, q)
	q2 := engine.NextQuestion(context.Background(), s)
	if q2.Topic != "strengths" {
		t.Errorf("Topic = %q, want rotation to continue", q2.Topic)
	}
}

func TestAdvancedFollowUpFromModel(t *testing.T) {
	gen := &fakeGenerator{responses: map[string]string{
		"generate_follow_up": `{"question": "What was the team size exactly?"}`,
	}}
	engine := NewAdvancedEngine(gen, testLogger())
	q := types.SessionQuestion{Question: "Tell me about the project.", Topic: "leadership"}
	eval := types.Evaluation{Scores: types.EvaluationScores{Content: 3, TechnicalDepth: 8, StarMethod: 8, Authenticity: 8}}

	fu := engine.FollowUp(context.Background(), nil, q, "We did it together.", eval)

	if fu.Question != "What was the team size exactly?" {
		t.Errorf("Question = %q", fu.Question)
	}
	if !fu.IsFollowUp || fu.ParentQuestion != q.Question || fu.Topic != "leadership" {
		t.Errorf("follow-up = %+v", fu)
	}
}

func TestAdvancedFollowUpFailureFallsBack(t *testing.T) {
	engine := NewAdvancedEngine(aiDown(), testLogger())
	q := types.SessionQuestion{Question: "Main", Topic: "scaling"}
	eval := types.Evaluation{RedFlags: []string{"claims do not add up"}}

	fu := engine.FollowUp(context.Background(), nil, q, "resp", eval)

	if fu.Question != fallbackFollowUps["verification"] {
		t.Errorf("Question = %q, want canned verification follow-up", fu.Question)
	}
}

func TestAdvancedInitializeAndClosingFallbacks(t *testing.T) {
	engine := NewAdvancedEngine(aiDown(), testLogger())
	s := &types.InterviewSession{InterviewType: "comprehensive", TargetQuestions: 5}

	intro := engine.Initialize(context.Background(), s)
	if intro != fallbackIntro("comprehensive", 5) {
		t.Errorf("intro = %q", intro)
	}

	closing := engine.Closing(context.Background(), s)
	if closing != fallbackClosing() {
		t.Errorf("closing = %q", closing)
	}
}

func TestAdvancedInitializeFromModel(t *testing.T) {
	gen := &fakeGenerator{responses: map[string]string{
		"generate_introduction": `{"introMessage": "Welcome! Let's talk about your platform work."}`,
	}}
	engine := NewAdvancedEngine(gen, testLogger())
	s := &types.InterviewSession{InterviewType: "technical", TargetQuestions: 3}

	intro := engine.Initialize(context.Background(), s)
	if intro != "Welcome! Let's talk about your platform work." {
		t.Errorf("intro = %q", intro)
	}
}

func TestFocusAreas(t *testing.T) {
	if got := focusAreas(nil); got != "Comprehensive assessment" {
		t.Errorf("focusAreas(nil) = %q", got)
	}

	insights := &types.CareerInsights{
		JobHoppingRisk:   "high",
		Gaps:             []types.Gap{{}},
		IsIndustryHopper: true,
		RedFlags:         []types.RedFlag{{}},
	}
	got := focusAreas(insights)
	want := "Job stability and commitment, Career gaps explanation, Industry transitions, Resume verification"
	if got != want {
		t.Errorf("focusAreas = %q, want %q", got, want)
	}
}
