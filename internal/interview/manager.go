package interview

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"talentscope/internal/config"
	"talentscope/internal/errors"
	"talentscope/internal/session"
	"talentscope/internal/timeline"
	"talentscope/internal/types"
)

type resumeExtractor interface {
	Extract(ctx context.Context, text string) []types.TimelineEntry
}

type questionGenerator interface {
	Generate(insights types.CareerInsights, entries []types.TimelineEntry, maxQuestions int) []types.InterviewQuestion
}

// analyzeFunc computes career insights for a timeline as of now.
type analyzeFunc func(entries []types.TimelineEntry, now timeline.YearMonth) types.CareerInsights

// Manager owns the interview session lifecycle: creation, response
// handling with the follow-up/advance/terminate decision, early
// termination and lookup. All per-session mutation happens under the
// store's session lock.
type Manager struct {
	store     *session.Store
	advanced  Engine
	basic     Engine
	extractor resumeExtractor
	generator questionGenerator
	analyze   analyzeFunc
	cfg       config.InterviewConfig
	logger    *errors.Logger
	now       func() time.Time
}

func NewManager(
	store *session.Store,
	advanced, basic Engine,
	extractor resumeExtractor,
	generator questionGenerator,
	analyze analyzeFunc,
	cfg config.InterviewConfig,
	logger *errors.Logger,
) *Manager {
	return &Manager{
		store:     store,
		advanced:  advanced,
		basic:     basic,
		extractor: extractor,
		generator: generator,
		analyze:   analyze,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// StartRequest configures a new interview session.
type StartRequest struct {
	ResumeText     string
	JobDescription string
	InterviewType  string
	NumQuestions   int
	Difficulty     string
	EngineVariant  string
}

// StartResult is returned to the caller when a session begins.
type StartResult struct {
	SessionID     string                `json:"sessionId"`
	Introduction  string                `json:"introduction"`
	FirstQuestion types.SessionQuestion `json:"firstQuestion"`

	SmartQuestionCount int `json:"smartQuestionCount"`
	ExperienceCount    int `json:"experienceCount"`
}

/// SubmitResult reports the outcome of one response: its evaluation and
// either the next question or the completed-session summary.
type SubmitResult struct {
	SessionID    string                 `json:"sessionId"`
	Evaluation   types.Evaluation       `json:"evaluation"`
	NextQuestion *types.SessionQuestion `json:"nextQuestion,omitempty"`
	Completed    bool                   `json:"completed"`
	Closing      string                 `json:"closing,omitempty"`
	Aggregate    *types.AggregateScores `json:"aggregate,omitempty"`

	QuestionsAnswered int `json:"questionsAnswered"`
	TargetQuestions   int `json:"targetQuestions"`
}

// Start creates a session, runs extraction and career analytics over
// the resume, pre-generates smart questions and asks the first
// question.
func (m *Manager) Start(ctx context.Context, req StartRequest) (*StartResult, error) {
	if strings.TrimSpace(req.ResumeText) == "" {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"Resume text is required to start an interview", nil)
	}

	numQuestions := req.NumQuestions
	if numQuestions < 1 {
		numQuestions = m.cfg.DefaultQuestions
	}
	if m.cfg.MaxQuestions > 0 && numQuestions > m.cfg.MaxQuestions {
		numQuestions = m.cfg.MaxQuestions
	}

	variant := req.EngineVariant
	if variant == "" {
		variant = m.cfg.DefaultEngine
	}
	engine, err := m.engineFor(variant)
	if err != nil {
		return nil, err
	}

	interviewType := req.InterviewType
	if interviewType == "" {
		interviewType = "comprehensive"
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = "mid"
	}

	sess := &types.InterviewSession{
		ID:              uuid.New().String(),
		EngineVariant:   variant,
		Status:          "in_progress",
		InterviewType:   interviewType,
		Difficulty:      difficulty,
		TargetQuestions: numQuestions,
		CreatedAt:       m.now(),
		ResumeText:      req.ResumeText,
		JobDescription:  req.JobDescription,
		UsedSmart:       make(map[string]bool),
	}

	m.prepareAnalytics(ctx, sess)

	sess.Introduction = engine.Initialize(ctx, sess)
	first := engine.NextQuestion(ctx, sess)
	sess.Questions = append(sess.Questions, first)

	m.store.Put(sess)
	m.logger.Info("interview session started",
		"session_id", sess.ID,
		"engine", variant,
		"target_questions", numQuestions,
		"smart_questions", len(sess.Smart),
		"experiences", len(sess.Entries))

	return &StartResult{
		SessionID:          sess.ID,
		Introduction:       sess.Introduction,
		FirstQuestion:      first,
		SmartQuestionCount: len(sess.Smart),
		ExperienceCount:    len(sess.Entries),
	}, nil
}

// prepareAnalytics populates the session's timeline, insights and
// smart questions. Failures leave the session without analytics; the
// engines handle that with generic questioning.
func (m *Manager) prepareAnalytics(ctx context.Context, sess *types.InterviewSession) {
	if m.extractor == nil {
		return
	}

	sess.Entries = m.extractor.Extract(ctx, sess.ResumeText)
	if len(sess.Entries) == 0 {
		m.logger.Warn("no experience entries extracted, interview proceeds without analytics",
			"session_id", sess.ID)
		return
	}

	if m.analyze != nil {
		insights := m.analyze(sess.Entries, timeline.Of(m.now()))
		sess.Insights = &insights
	}
	if m.generator != nil && sess.Insights != nil {
		sess.Smart = m.generator.Generate(*sess.Insights, sess.Entries, 15)
	}
}

// Submit records a response to the session's current question and
// advances the state machine: evaluate, then follow up, ask the next
// main question, or complete the interview.
func (m *Manager) Submit(ctx context.Context, sessionID, response string) (*SubmitResult, error) {
	if strings.TrimSpace(response) == "" {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"Response text is required", nil)
	}

	var result *SubmitResult
	err := m.store.WithLock(sessionID, func(sess *types.InterviewSession) error {
		if sess.Status == "completed" {
			return errors.NewSessionError(errors.ErrCodeSessionCompleted,
				"Interview session is already completed", nil).WithContext("session_id", sessionID)
		}

		current := sess.CurrentQuestion()
		if current == nil {
			return errors.NewInternalError(errors.ErrCodeInvalidRequest,
				"Session has no active question", nil).WithContext("session_id", sessionID)
		}
		question := *current

		engine, err := m.engineFor(sess.EngineVariant)
		if err != nil {
			return err
		}

		eval := engine.Evaluate(ctx, sess, question, response)
		sess.Responses = append(sess.Responses, response)
		sess.Evaluations = append(sess.Evaluations, eval)

		result = &SubmitResult{
			SessionID:         sess.ID,
			Evaluation:        eval,
			QuestionsAnswered: len(sess.Responses),
			TargetQuestions:   sess.TargetQuestions,
		}

		// At most one follow-up per main question, and never a
		// follow-up to a follow-up.
		needsFollowUp := eval.FollowUpRecommended ||
			eval.DepthLevel == "shallow" || eval.DepthLevel == "surface"
		if needsFollowUp && !question.IsFollowUp && sess.FollowUpsForCurrent < 1 {
			fu := engine.FollowUp(ctx, sess, question, response, eval)
			sess.Questions = append(sess.Questions, fu)
			sess.FollowUpsForCurrent++
			result.NextQuestion = &fu
			return nil
		}

		if sess.MainQuestionCount() >= sess.TargetQuestions {
			m.complete(ctx, sess, engine)
			result.Completed = true
			result.Closing = sess.Closing
			result.Aggregate = sess.Aggregate
			return nil
		}

		next := engine.NextQuestion(ctx, sess)
		sess.Questions = append(sess.Questions, next)
		sess.FollowUpsForCurrent = 0
		result.NextQuestion = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// End force-completes a session regardless of how many questions have
// been answered. Ending an already completed session is a no-op.
func (m *Manager) End(ctx context.Context, sessionID string) (*types.InterviewSession, error) {
	var out *types.InterviewSession
	err := m.store.WithLock(sessionID, func(sess *types.InterviewSession) error {
		if sess.Status != "completed" {
			engine, err := m.engineFor(sess.EngineVariant)
			if err != nil {
				return err
			}
			m.complete(ctx, sess, engine)
		}
		out = sess
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns a session by ID.
func (m *Manager) Get(sessionID string) (*types.InterviewSession, error) {
	return m.store.Get(sessionID)
}

// List returns all live sessions.
func (m *Manager) List() []*types.InterviewSession {
	return m.store.List()
}

// Delete removes a session.
func (m *Manager) Delete(sessionID string) {
	m.store.Delete(sessionID)
}

func (m *Manager) complete(ctx context.Context, sess *types.InterviewSession, engine Engine) {
	sess.Status = "completed"
	sess.CompletedAt = m.now()
	sess.Closing = engine.Closing(ctx, sess)
	sess.Aggregate = Aggregate(sess.Evaluations)

	m.logger.Info("interview session completed",
		"session_id", sess.ID,
		"questions_answered", len(sess.Responses),
		"recommendation", recommendationOf(sess.Aggregate))
}

func recommendationOf(agg *types.AggregateScores) string {
	if agg == nil {
		return "none"
	}
	return agg.Recommendation
}

func (m *Manager) engineFor(variant string) (Engine, error) {
	switch variant {
	case VariantAdvanced:
		return m.advanced, nil
	case VariantBasic:
		return m.basic, nil
	default:
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"Unknown interview engine variant", nil).WithContext("variant", variant)
	}
}
