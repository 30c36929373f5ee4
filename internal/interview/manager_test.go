package interview

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"talentscope/internal/config"
	"talentscope/internal/errors"
	"talentscope/internal/session"
)

var (
	shallowAnswer  = "Yes."
	adequateAnswer = strings.Repeat("I personally rebuilt the ingestion path and measured a 30 percent throughput gain on 5 workloads. ", 3)
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	logger := testLogger()
	store := session.NewStore(time.Hour, time.Hour, logger)
	cfg := config.InterviewConfig{
		DefaultQuestions: 2,
		MaxQuestions:     5,
		DefaultEngine:    VariantBasic,
	}
	return NewManager(store, NewAdvancedEngine(aiDown(), logger), NewBasicEngine(logger),
		nil, nil, nil, cfg, logger)
}

func appErrorCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		t.Fatalf("error %v is not an AppError", err)
	}
	return appErr.Code
}

func TestManagerStartDefaults(t *testing.T) {
	m := newTestManager(t)

	result, err := m.Start(context.Background(), StartRequest{ResumeText: "resume text"})
	if err != nil {
		t.Fatal(err)
	}

	if result.SessionID == "" {
		t.Error("missing session ID")
	}
	if result.FirstQuestion.Question == "" {
		t.Error("missing first question")
	}
	if result.Introduction == "" {
		t.Error("missing introduction")
	}

	sess, err := m.Get(result.SessionID)
	if err != nil {
		t.Fatal(err)
	}
	if sess.Status != "in_progress" {
		t.Errorf("Status = %q", sess.Status)
	}
	if sess.TargetQuestions != 2 {
		t.Errorf("TargetQuestions = %d, want config default", sess.TargetQuestions)
	}
	if sess.EngineVariant != VariantBasic {
		t.Errorf("EngineVariant = %q, want config default", sess.EngineVariant)
	}
	if sess.InterviewType != "comprehensive" || sess.Difficulty != "mid" {
		t.Errorf("type/difficulty = %q/%q", sess.InterviewType, sess.Difficulty)
	}
}

func TestManagerStartValidation(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Start(context.Background(), StartRequest{ResumeText: "   "})
	if code := appErrorCode(t, err); code != errors.ErrCodeInvalidRequest {
		t.Errorf("code = %q", code)
	}

	_, err = m.Start(context.Background(), StartRequest{ResumeText: "resume", EngineVariant: "quantum"})
	if code := appErrorCode(t, err); code != errors.ErrCodeInvalidRequest {
		t.Errorf("code = %q", code)
	}
}

func TestManagerStartClampsQuestionCount(t *testing.T) {
	m := newTestManager(t)

	result, err := m.Start(context.Background(), StartRequest{ResumeText: "resume", NumQuestions: 50})
	if err != nil {
		t.Fatal(err)
	}
	sess, _ := m.Get(result.SessionID)
	if sess.TargetQuestions != 5 {
		t.Errorf("TargetQuestions = %d, want clamped to 5", sess.TargetQuestions)
	}
}

// Full session walk: shallow answer draws a follow-up, the follow-up
// cannot chain, and the session completes at the target count.
func TestManagerSessionLifecycle(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	start, err := m.Start(ctx, StartRequest{ResumeText: "resume text"})
	if err != nil {
		t.Fatal(err)
	}
	id := start.SessionID

	// Question 1, shallow answer: expect a follow-up.
	r1, err := m.Submit(ctx, id, shallowAnswer)
	if err != nil {
		t.Fatal(err)
	}
	if r1.NextQuestion == nil || !r1.NextQuestion.IsFollowUp {
		t.Fatalf("want follow-up after shallow answer, got %+v", r1.NextQuestion)
	}
	if r1.Completed {
		t.Error("session should not be complete")
	}

	// Shallow answer to the follow-up: never a second follow-up in a row.
	r2, err := m.Submit(ctx, id, shallowAnswer)
	if err != nil {
		t.Fatal(err)
	}
	if r2.NextQuestion == nil {
		t.Fatal("expected next main question")
	}
	if r2.NextQuestion.IsFollowUp {
		t.Fatal("follow-ups must not chain")
	}

	// Question 2, adequate answer: target reached, session completes.
	r3, err := m.Submit(ctx, id, adequateAnswer)
	if err != nil {
		t.Fatal(err)
	}
	if !r3.Completed {
		t.Fatalf("expected completion, got %+v", r3)
	}
	if r3.NextQuestion != nil {
		t.Errorf("completed result still has a next question: %+v", r3.NextQuestion)
	}
	if r3.Closing == "" {
		t.Error("missing closing message")
	}
	if r3.Aggregate == nil {
		t.Fatal("missing aggregate scores")
	}
	if r3.Aggregate.QuestionCount != 3 {
		t.Errorf("QuestionCount = %d, want 3", r3.Aggregate.QuestionCount)
	}
	if r3.Aggregate.Recommendation == "" {
		t.Error("missing recommendation")
	}

	sess, _ := m.Get(id)
	if sess.Status != "completed" {
		t.Errorf("Status = %q", sess.Status)
	}
	if sess.CompletedAt.IsZero() {
		t.Error("CompletedAt not set")
	}
	if len(sess.Responses) != len(sess.Evaluations) {
		t.Errorf("responses/evaluations out of sync: %d vs %d", len(sess.Responses), len(sess.Evaluations))
	}
	if len(sess.Responses) != len(sess.Questions) {
		t.Errorf("every question should have a response: %d vs %d", len(sess.Responses), len(sess.Questions))
	}

	// Responding to a completed session is rejected.
	_, err = m.Submit(ctx, id, adequateAnswer)
	if code := appErrorCode(t, err); code != errors.ErrCodeSessionCompleted {
		t.Errorf("code = %q", code)
	}
}

func TestManagerFollowUpCapPerMainQuestion(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	start, err := m.Start(ctx, StartRequest{ResumeText: "resume", NumQuestions: 3})
	if err != nil {
		t.Fatal(err)
	}

	// Shallow answers alternate follow-up / next main question.
	var followUps, mains int
	for range 5 {
		r, err := m.Submit(ctx, start.SessionID, shallowAnswer)
		if err != nil {
			t.Fatal(err)
		}
		if r.Completed {
			break
		}
		if r.NextQuestion.IsFollowUp {
			followUps++
		} else {
			mains++
		}
	}

	sess, _ := m.Get(start.SessionID)
	lastWasFollowUp := false
	for _, q := range sess.Questions {
		if q.IsFollowUp && lastWasFollowUp {
			t.Fatal("two consecutive follow-ups in question list")
		}
		lastWasFollowUp = q.IsFollowUp
	}
	if followUps == 0 {
		t.Error("shallow answers should draw at least one follow-up")
	}
}

func TestManagerSubmitValidation(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Submit(context.Background(), "whatever", "  ")
	if code := appErrorCode(t, err); code != errors.ErrCodeInvalidRequest {
		t.Errorf("code = %q", code)
	}

	_, err = m.Submit(context.Background(), "missing-session", "an answer")
	if code := appErrorCode(t, err); code != errors.ErrCodeSessionNotFound {
		t.Errorf("code = %q", code)
	}
}

func TestManagerEndEarly(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	start, err := m.Start(ctx, StartRequest{ResumeText: "resume", NumQuestions: 5})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Submit(ctx, start.SessionID, adequateAnswer); err != nil {
		t.Fatal(err)
	}

	sess, err := m.End(ctx, start.SessionID)
	if err != nil {
		t.Fatal(err)
	}
	if sess.Status != "completed" {
		t.Errorf("Status = %q", sess.Status)
	}
	if sess.Aggregate == nil || sess.Aggregate.QuestionCount != 1 {
		t.Errorf("Aggregate = %+v", sess.Aggregate)
	}
	if sess.Closing == "" {
		t.Error("missing closing message")
	}

	// Ending again is a no-op.
	again, err := m.End(ctx, start.SessionID)
	if err != nil {
		t.Fatal(err)
	}
	if again.CompletedAt != sess.CompletedAt {
		t.Error("second End changed CompletedAt")
	}
}

func TestManagerEndWithNoResponses(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	start, err := m.Start(ctx, StartRequest{ResumeText: "resume"})
	if err != nil {
		t.Fatal(err)
	}
	sess, err := m.End(ctx, start.SessionID)
	if err != nil {
		t.Fatal(err)
	}
	if sess.Status != "completed" {
		t.Errorf("Status = %q", sess.Status)
	}
	if sess.Aggregate != nil {
		t.Errorf("Aggregate = %+v, want none without responses", sess.Aggregate)
	}
}

func TestManagerListAndDelete(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	a, _ := m.Start(ctx, StartRequest{ResumeText: "resume a"})
	b, _ := m.Start(ctx, StartRequest{ResumeText: "resume b"})

	if got := len(m.List()); got != 2 {
		t.Errorf("List() len = %d", got)
	}

	m.Delete(a.SessionID)
	if _, err := m.Get(a.SessionID); err == nil {
		t.Error("deleted session still retrievable")
	}
	if _, err := m.Get(b.SessionID); err != nil {
		t.Errorf("remaining session lost: %v", err)
	}
}

// The advanced engine with an unreachable model must still run a full
// session on deterministic fallbacks.
func TestManagerAdvancedEngineDegradedSession(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	start, err := m.Start(ctx, StartRequest{
		ResumeText:    "resume",
		EngineVariant: VariantAdvanced,
		NumQuestions:  1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if start.FirstQuestion.Topic != "introduction" {
		t.Errorf("first question = %+v, want canned opener", start.FirstQuestion)
	}

	r, err := m.Submit(ctx, start.SessionID, adequateAnswer)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Completed {
		t.Fatalf("expected completion, got %+v", r)
	}
	if !r.Evaluation.IsFallback {
		t.Error("degraded advanced engine should produce fallback evaluations")
	}
	if r.Aggregate == nil || r.Aggregate.Recommendation != "Maybe" {
		t.Errorf("Aggregate = %+v, want all-fives Maybe", r.Aggregate)
	}
}
