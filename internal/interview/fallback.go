package interview

import (
	"fmt"

	"talentscope/internal/types"
)

// Canned material used whenever AI generation is unavailable or the
// basic engine is running. Every path through an interview has a
// deterministic fallback so a session can always proceed.

var fallbackFollowUps = map[string]string{
	"clarification": "Could you clarify what you meant by that?",
	"depth_probe":   "Can you give me a specific example?",
	"verification":  "Walk me through exactly how you achieved that.",
	"structure":     "Can you break that down step by step?",
	"expansion":     "What did you learn from that experience?",
}

var fallbackQuestions = []struct {
	question string
	topic    string
}{
	{"Tell me about yourself and your background.", "introduction"},
	{"What are your greatest strengths?", "strengths"},
	{"Describe a challenging project you've worked on.", "challenges"},
	{"Why are you interested in this role?", "motivation"},
	{"Where do you see yourself in the next few years?", "career_goals"},
	{"Tell me about a time you worked effectively in a team.", "teamwork"},
	{"How do you handle tight deadlines?", "stress_management"},
	{"What's a skill you're currently improving?", "growth"},
}

func fallbackIntro(interviewType string, numQuestions int) string {
	return fmt.Sprintf("Hello! Thanks for joining this %s interview. "+
		"I'll be asking you %d questions to learn about your background and experience. "+
		"Take your time with each answer, and feel free to ask for clarification if needed. "+
		"Let's get started!", interviewType, numQuestions)
}

func fallbackClosing() string {
	return "That concludes our interview. Thank you for your thoughtful responses. " +
		"Your answers will be reviewed and you'll hear about next steps soon."
}

// fallbackQuestion returns the nth canned question; past the end of the
// list it repeats the last one.
func fallbackQuestion(questionNumber int, difficulty string) types.SessionQuestion {
	idx := min(questionNumber, len(fallbackQuestions)-1)
	if idx < 0 {
		idx = 0
	}
	fq := fallbackQuestions[idx]
	return types.SessionQuestion{
		Question:     fq.question,
		QuestionType: "behavioral",
		Topic:        fq.topic,
		Difficulty:   difficulty,
	}
}

func fallbackFollowUp(followUpType string, parent types.SessionQuestion) types.SessionQuestion {
	question, ok := fallbackFollowUps[followUpType]
	if !ok {
		question = "Could you elaborate on that?"
	}
	return types.SessionQuestion{
		Question:       question,
		QuestionType:   "follow_up",
		Topic:          parent.Topic,
		IsFollowUp:     true,
		ParentQuestion: parent.Question,
	}
}

// defaultEvaluation is the neutral evaluation used when AI scoring
// fails. All dimensions sit at the midpoint so one bad AI call cannot
// skew the aggregate in either direction.
func defaultEvaluation(depth DepthAssessment) types.Evaluation {
	return types.Evaluation{
		Scores: types.EvaluationScores{
			Content:        5,
			Communication:  5,
			Analytical:     5,
			TechnicalDepth: 5,
			StarMethod:     5,
			Authenticity:   5,
		},
		OverallScore: 5,
		Strengths:    []string{"Response provided"},
		Weaknesses:   []string{"Evaluation unavailable"},
		Feedback:     "Thank you for your response.",
		DepthLevel:   depth.Depth,
		IsFallback:   true,
	}
}
