package interview

import (
	"context"
	"fmt"
	"strings"

	"talentscope/internal/ai"
	"talentscope/internal/errors"
	"talentscope/internal/types"
)

const interviewerSystemPrompt = `You are an experienced hiring manager conducting a structured interview.
You ask natural, conversational questions, probe vague answers for specifics,
and gently challenge claims that need verification. You never repeat a question
that has already been asked, and you always respond with valid JSON matching
the requested shape.`

// AdvancedEngine generates questions, evaluations and follow-ups with
// an AI model, steered by career analytics and the adaptive session
// state. Every AI call has a deterministic fallback.
type AdvancedEngine struct {
	gen    generator
	logger *errors.Logger
}

func NewAdvancedEngine(gen generator, logger *errors.Logger) *AdvancedEngine {
	return &AdvancedEngine{gen: gen, logger: logger}
}

type aiIntroduction struct {
	IntroMessage string `json:"introMessage"`
}

type aiQuestion struct {
	Question         string   `json:"question"`
	QuestionType     string   `json:"questionType"`
	Topic            string   `json:"topic"`
	Difficulty       string   `json:"difficulty"`
	ExpectedElements []string `json:"expectedElements"`
	FollowUpHints    []string `json:"followUpHints"`
}

type aiEvaluation struct {
	Scores              map[string]float64 `json:"scores"`
	OverallScore        *float64           `json:"overallScore"`
	Strengths           []string           `json:"strengths"`
	Weaknesses          []string           `json:"weaknesses"`
	MissingElements     []string           `json:"missingElements"`
	RedFlags            []string           `json:"redFlags"`
	Feedback            string             `json:"feedback"`
	FollowUpRecommended bool               `json:"followUpRecommended"`
	FollowUpReason      string             `json:"followUpReason"`
}

type aiClosing struct {
	ClosingMessage string `json:"closingMessage"`
}

func (e *AdvancedEngine) Initialize(ctx context.Context, s *types.InterviewSession) string {
	if e.gen == nil {
		return fallbackIntro(s.InterviewType, s.TargetQuestions)
	}

	prompt := e.buildIntroductionPrompt(s)
	result, _, err := ai.GenerateObject[aiIntroduction](ctx, e.gen, ai.Request{
		Operation:    "generate_introduction",
		SystemPrompt: interviewerSystemPrompt,
		UserPrompt:   prompt,
	})
	if err != nil || result.IntroMessage == "" {
		if err != nil {
			e.logger.Warn("introduction generation failed, using fallback", "error", err)
		}
		return fallbackIntro(s.InterviewType, s.TargetQuestions)
	}
	return result.IntroMessage
}

func (e *AdvancedEngine) NextQuestion(ctx context.Context, s *types.InterviewSession) types.SessionQuestion {
	analysis := analyzeResponses(s.Responses)
	strat := nextStrategy(s)

	if sq := selectSmartQuestion(s, strat); sq != nil {
		return formatSmartQuestion(s, sq)
	}

	if e.gen == nil {
		return fallbackQuestion(s.MainQuestionCount(), s.Difficulty)
	}

	prompt := e.buildQuestionPrompt(s, strat, analysis)
	result, _, err := ai.GenerateObject[aiQuestion](ctx, e.gen, ai.Request{
		Operation:    "generate_question",
		SystemPrompt: interviewerSystemPrompt,
		UserPrompt:   prompt,
	})
	if err != nil || result.Question == "" {
		if err != nil {
			e.logger.Warn("question generation failed, using fallback", "error", err)
		}
		return fallbackQuestion(s.MainQuestionCount(), s.Difficulty)
	}

	topic := result.Topic
	if topic == "" {
		topic = strat.FocusArea
	}
	difficulty := result.Difficulty
	if difficulty == "" {
		difficulty = s.Difficulty
	}
	return types.SessionQuestion{
		Question:         result.Question,
		QuestionType:     strat.QuestionType,
		Topic:            topic,
		Difficulty:       difficulty,
		ExpectedElements: result.ExpectedElements,
		FollowUpHints:    result.FollowUpHints,
	}
}

func (e *AdvancedEngine) Evaluate(ctx context.Context, s *types.InterviewSession, q types.SessionQuestion, response string) types.Evaluation {
	depth := AssessDepth(response)

	eval, err := e.evaluateWithModel(ctx, s, q, response)
	if err != nil {
		e.logger.Warn("response evaluation failed, using neutral scores", "error", err)
		eval = defaultEvaluation(depth)
	} else {
		eval.DepthLevel = depth.Depth
	}

	updateState(s, q, eval)
	return eval
}

func (e *AdvancedEngine) evaluateWithModel(ctx context.Context, s *types.InterviewSession, q types.SessionQuestion, response string) (types.Evaluation, error) {
	if e.gen == nil {
		return types.Evaluation{}, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"No AI provider configured", nil)
	}

	prompt := e.buildEvaluationPrompt(s, q, response)
	result, _, err := ai.GenerateObject[aiEvaluation](ctx, e.gen, ai.Request{
		Operation:    "evaluate_response",
		SystemPrompt: interviewerSystemPrompt,
		UserPrompt:   prompt,
	})
	if err != nil {
		return types.Evaluation{}, err
	}
	return validateEvaluation(result), nil
}

// validateEvaluation clamps every score to 0-10, substituting the
// midpoint for anything missing. The overall score defaults to the
// mean of the dimensions when the model omits it.
func validateEvaluation(result aiEvaluation) types.Evaluation {
	score := func(key string) float64 {
		v, ok := result.Scores[key]
		if !ok {
			return 5
		}
		return clampScore(v)
	}

	scores := types.EvaluationScores{
		Content:        score("content"),
		Communication:  score("communication"),
		Analytical:     score("analytical"),
		TechnicalDepth: score("technicalDepth"),
		StarMethod:     score("starMethod"),
		Authenticity:   score("authenticity"),
	}

	overall := (scores.Content + scores.Communication + scores.Analytical +
		scores.TechnicalDepth + scores.StarMethod + scores.Authenticity) / 6
	if result.OverallScore != nil {
		overall = clampScore(*result.OverallScore)
	}

	feedback := result.Feedback
	if feedback == "" {
		feedback = "Thank you for your response."
	}

	return types.Evaluation{
		Scores:              scores,
		OverallScore:        overall,
		Strengths:           result.Strengths,
		Weaknesses:          result.Weaknesses,
		MissingElements:     result.MissingElements,
		RedFlags:            result.RedFlags,
		Feedback:            feedback,
		FollowUpRecommended: result.FollowUpRecommended,
		FollowUpReason:      result.FollowUpReason,
	}
}

func (e *AdvancedEngine) FollowUp(ctx context.Context, s *types.InterviewSession, q types.SessionQuestion, response string, eval types.Evaluation) types.SessionQuestion {
	fuType := followUpType(eval)

	if e.gen == nil {
		return fallbackFollowUp(fuType, q)
	}

	prompt := e.buildFollowUpPrompt(q, response, eval, fuType)
	result, _, err := ai.GenerateObject[aiQuestion](ctx, e.gen, ai.Request{
		Operation:    "generate_follow_up",
		SystemPrompt: interviewerSystemPrompt,
		UserPrompt:   prompt,
	})
	if err != nil || result.Question == "" {
		if err != nil {
			e.logger.Warn("follow-up generation failed, using fallback", "error", err, "follow_up_type", fuType)
		}
		return fallbackFollowUp(fuType, q)
	}

	return types.SessionQuestion{
		Question:       result.Question,
		QuestionType:   "follow_up",
		Topic:          q.Topic,
		IsFollowUp:     true,
		ParentQuestion: q.Question,
	}
}

func (e *AdvancedEngine) Closing(ctx context.Context, s *types.InterviewSession) string {
	if e.gen == nil {
		return fallbackClosing()
	}

	prompt := e.buildClosingPrompt(s)
	result, _, err := ai.GenerateObject[aiClosing](ctx, e.gen, ai.Request{
		Operation:    "generate_closing",
		SystemPrompt: interviewerSystemPrompt,
		UserPrompt:   prompt,
	})
	if err != nil || result.ClosingMessage == "" {
		if err != nil {
			e.logger.Warn("closing generation failed, using fallback", "error", err)
		}
		return fallbackClosing()
	}
	return result.ClosingMessage
}

func (e *AdvancedEngine) buildIntroductionPrompt(s *types.InterviewSession) string {
	jd := s.JobDescription
	if jd == "" {
		jd = "General technical interview"
	}
	return fmt.Sprintf(`Write a short, warm introduction to open an interview.

## CANDIDATE RESUME
%s

## JOB DESCRIPTION
%s

## INTERVIEW SETTINGS
- Type: %s
- Questions planned: %d
- Difficulty: %s
- Focus areas: %s

## OUTPUT (JSON only):
{"introMessage": "Your 2-3 sentence welcome that references their background"}`,
		truncate(s.ResumeText, 1500), truncate(jd, 500),
		s.InterviewType, s.TargetQuestions, s.Difficulty, focusAreas(s.Insights))
}

func (e *AdvancedEngine) buildQuestionPrompt(s *types.InterviewSession, strat Strategy, analysis ResponseAnalysis) string {
	jd := s.JobDescription
	if jd == "" {
		jd = "General interview"
	}

	var recent []string
	start := max(0, len(s.Questions)-3)
	for _, q := range s.Questions[start:] {
		recent = append(recent, q.Question)
	}

	return fmt.Sprintf(`Generate the next interview question using the following strategy:

## STRATEGY
- Type: %s
- Focus Area: %s
- Intensity: %s
- Rationale: %s
- Target Competency: %s

## CANDIDATE CONTEXT
Resume Summary: %s
Job Description: %s

## CAREER INSIGHTS
%s

## PREVIOUS QUESTIONS (do not repeat)
%s

## RESPONSE PATTERNS OBSERVED
Concerns: %s
Strengths: %s

## INSTRUCTIONS
1. Generate a question that aligns with the strategy
2. Make it conversational, not interrogative
3. Reference specific details from their resume if relevant
4. For verification: Challenge their claims gently but directly
5. For depth probe: Dig into specifics they glossed over

## OUTPUT (JSON only):
{"question": "Your natural, probing question", "questionType": "%s", "topic": "area being assessed", "difficulty": "easy|medium|hard", "expectedElements": ["element1", "element2"], "followUpHints": ["hint1", "hint2"]}`,
		strat.QuestionType, strat.FocusArea, strat.Intensity, strat.Rationale, strat.TargetCompetency,
		truncate(s.ResumeText, 1000), truncate(jd, 500),
		formatInsights(s.Insights),
		strings.Join(recent, "\n"),
		strings.Join(analysis.Concerns, "; "), strings.Join(analysis.Strengths, "; "),
		strat.QuestionType)
}

func (e *AdvancedEngine) buildEvaluationPrompt(s *types.InterviewSession, q types.SessionQuestion, response string) string {
	return fmt.Sprintf(`Evaluate this interview response like an experienced hiring manager.

## THE QUESTION
%s
Type: %s
Looking for: %s

## CANDIDATE'S RESPONSE
%s

## RELEVANT RESUME CLAIMS
%s

## CAREER INSIGHTS
%s

## EVALUATION CRITERIA

### Content (0-10)
- Did they answer what was asked?
- Were examples specific and believable?
- Does it align with their resume claims?

### Communication (0-10)
- Clear and well-organized?
- Right level of detail?

### Analytical (0-10)
- Logical reasoning shown?
- Considered trade-offs?

### Technical Depth (0-10)
- Real command of the subject, or surface familiarity?

### STAR Method (0-10) [for behavioral]
- Situation clear? Task defined? Actions specific (I vs We)? Results quantified?

### Authenticity (0-10)
- Genuine vs rehearsed? Honest about limitations?

## RED FLAGS TO CHECK
- Vague answers
- Can't explain claimed skills
- "We did" without personal role
- Inconsistent with resume
- Defensive/evasive

## OUTPUT (JSON only):
{"scores": {"content": 7, "communication": 8, "analytical": 7, "technicalDepth": 7, "starMethod": 6, "authenticity": 8}, "overallScore": 7.2, "strengths": ["strength1"], "weaknesses": ["area1"], "missingElements": [], "feedback": "Brief 2-sentence feedback", "redFlags": [], "followUpRecommended": false, "followUpReason": ""}`,
		q.Question, q.QuestionType, strings.Join(q.ExpectedElements, ", "),
		response,
		strings.Join(relevantClaims(s, q), "; "),
		formatInsights(s.Insights))
}

func (e *AdvancedEngine) buildFollowUpPrompt(q types.SessionQuestion, response string, eval types.Evaluation, fuType string) string {
	typeInstructions := map[string]string{
		"clarification": "Ask for clarification on unclear points",
		"depth_probe":   "Dig deeper into specifics - ask for exact numbers, names, or details",
		"verification":  "Gently challenge their claims or ask for evidence",
		"structure":     "Ask them to walk through it step by step using the STAR method",
		"expansion":     "Ask about impact, lessons learned, or how it applies elsewhere",
	}
	instruction, ok := typeInstructions[fuType]
	if !ok {
		instruction = "Ask a relevant follow-up"
	}

	return fmt.Sprintf(`Generate a natural follow-up question.

## ORIGINAL QUESTION
%s

## THEIR RESPONSE
%s

## EVALUATION SUMMARY
- Overall: %.1f/10
- Missing: %s
- Concerns: %s
- Red Flags: %s

## FOLLOW-UP TYPE: %s
Instruction: %s

## EXAMPLES OF GOOD FOLLOW-UPS
Clarification: "I want to make sure I understand - you said X, but did you mean Y?"
Depth probe: "You mentioned leading the project - what was the team size and your specific responsibilities?"
Verification: "That's impressive. Walk me through specifically how you achieved that result."
Structure: "Can you break that down for me? What was the situation, your role, and the outcome?"
Expansion: "What did you take away from that experience?"

## OUTPUT (JSON only):
{"question": "Your natural follow-up question", "questionType": "follow_up", "topic": "%s"}`,
		q.Question, response,
		eval.OverallScore,
		strings.Join(eval.MissingElements, "; "),
		strings.Join(eval.Weaknesses, "; "),
		strings.Join(eval.RedFlags, "; "),
		fuType, instruction, q.Topic)
}

func (e *AdvancedEngine) buildClosingPrompt(s *types.InterviewSession) string {
	return fmt.Sprintf(`Write a brief, warm closing message to end an interview.

## SESSION SUMMARY
- Questions answered: %d of %d planned
- Topics covered: %s

## OUTPUT (JSON only):
{"closingMessage": "Your 2-3 sentence thank-you and next-steps message"}`,
		len(s.Responses), s.TargetQuestions, strings.Join(s.TopicsCovered, ", "))
}

// relevantClaims pulls resume lines related to the question's topic so
// the evaluation can check consistency. Only the most recent positions
// are considered.
func relevantClaims(s *types.InterviewSession, q types.SessionQuestion) []string {
	topic := strings.ToLower(q.Topic)
	if topic == "" {
		return nil
	}

	var claims []string
	limit := min(3, len(s.Entries))
	for _, exp := range s.Entries[:limit] {
		if strings.Contains(strings.ToLower(exp.Title), topic) ||
			strings.Contains(strings.ToLower(exp.Industry), topic) {
			claims = append(claims, exp.Title+" at "+exp.Company)
			respLimit := min(2, len(exp.Responsibilities))
			claims = append(claims, exp.Responsibilities[:respLimit]...)
		}
	}
	return claims
}

func formatInsights(insights *types.CareerInsights) string {
	if insights == nil {
		return "Not available"
	}
	return fmt.Sprintf(`- Total Experience: %.1f years
- Average Tenure: %.1f months
- Job Hopping Risk: %s
- Industries: %s
- Employment Gaps: %d
- Red Flags: %d
- Trajectory: %s`,
		insights.TotalExperienceYears,
		insights.AverageTenureMonths,
		insights.JobHoppingRisk,
		strings.Join(firstN(insights.IndustriesWorked, 3), ", "),
		len(insights.Gaps),
		len(insights.RedFlags),
		insights.Trajectory)
}

// focusAreas names what the career analytics suggest this interview
// should concentrate on.
func focusAreas(insights *types.CareerInsights) string {
	if insights == nil {
		return "Comprehensive assessment"
	}
	var areas []string
	if insights.JobHoppingRisk == "medium" || insights.JobHoppingRisk == "high" {
		areas = append(areas, "Job stability and commitment")
	}
	if len(insights.Gaps) > 0 {
		areas = append(areas, "Career gaps explanation")
	}
	if insights.IsIndustryHopper {
		areas = append(areas, "Industry transitions")
	}
	if len(insights.RedFlags) > 0 {
		areas = append(areas, "Resume verification")
	}
	if len(areas) == 0 {
		return "Comprehensive assessment"
	}
	return strings.Join(areas, ", ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func firstN(items []string, n int) []string {
	return items[:min(n, len(items))]
}
