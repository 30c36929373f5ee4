package server

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"talentscope/internal/analytics"
	"talentscope/internal/interview"
	"talentscope/internal/observability"
	"talentscope/internal/timeline"
	"talentscope/internal/types"
)

// AnalyzeResponse is the response body for the analyze endpoint
type AnalyzeResponse struct {
	Entries  []types.TimelineEntry `json:"entries"`
	Insights types.CareerInsights  `json:"insights"`
}

// QuestionsResponse is the response body for the questions endpoint
type QuestionsResponse struct {
	Questions       []types.InterviewQuestion `json:"questions"`
	Insights        types.CareerInsights      `json:"insights"`
	ExperienceCount int                       `json:"experienceCount"`
}

// createAnalyzeHandler wraps the career analysis handler with observability
func (s *Server) createAnalyzeHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("talentscope.api")
		ctx, span := tracer.Start(ctx, "api.analyze")
		defer span.End()

		var req AnalyzeRequest
		if err := s.parseAndValidate(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.ResumeText)),
			attribute.String("operation", "analyze"),
		)

		metrics := om.GetMetrics()
		var entries []types.TimelineEntry
		_ = metrics.TrackAIOperationWithTokens(ctx, "extract_experience", func(ctx context.Context) *observability.AIOperationResult {
			entries = s.Extractor.Extract(ctx, req.ResumeText)
			return &observability.AIOperationResult{}
		}, om)

		insights := analytics.Analyze(entries, timeline.Of(time.Now()))

		metrics.RecordBusinessMetric(ctx, "resume_analyzed", true, om,
			attribute.Int("entries_count", len(entries)),
			attribute.Int("red_flags", len(insights.RedFlags)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.entries_count", len(entries)),
		)

		writeJSONResponse(w, span, http.StatusOK, AnalyzeResponse{
			Entries:  entries,
			Insights: insights,
		})
	}
}

// createQuestionsHandler wraps the smart question generation handler with observability
func (s *Server) createQuestionsHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("talentscope.api")
		ctx, span := tracer.Start(ctx, "api.questions")
		defer span.End()

		var req QuestionsRequest
		if err := s.parseAndValidate(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		maxQuestions := req.MaxQuestions
		if maxQuestions < 1 {
			maxQuestions = 15
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.ResumeText)),
			attribute.Int("request.max_questions", maxQuestions),
			attribute.String("operation", "questions"),
		)

		metrics := om.GetMetrics()
		var entries []types.TimelineEntry
		_ = metrics.TrackAIOperationWithTokens(ctx, "extract_experience", func(ctx context.Context) *observability.AIOperationResult {
			entries = s.Extractor.Extract(ctx, req.ResumeText)
			return &observability.AIOperationResult{}
		}, om)

		insights := analytics.Analyze(entries, timeline.Of(time.Now()))
		generated := s.Questions.Generate(insights, entries, maxQuestions)

		metrics.RecordBusinessMetric(ctx, "questions_generated", true, om,
			attribute.Int("questions_count", len(generated)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.questions_count", len(generated)),
		)

		writeJSONResponse(w, span, http.StatusOK, QuestionsResponse{
			Questions:       generated,
			Insights:        insights,
			ExperienceCount: len(entries),
		})
	}
}

// createStartInterviewHandler wraps session creation with observability
func (s *Server) createStartInterviewHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("talentscope.api")
		ctx, span := tracer.Start(ctx, "api.interviews.start")
		defer span.End()

		var req StartInterviewRequest
		if err := s.parseAndValidate(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.ResumeText)),
			attribute.String("request.engine", req.Engine),
			attribute.String("operation", "interview_start"),
		)

		result, err := s.Interviews.Start(ctx, toStartRequest(req))
		metrics := om.GetMetrics()
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "session_start"))
			metrics.RecordBusinessMetric(ctx, "session_started", false, om)
			writeAppError(w, err)
			return
		}

		metrics.RecordBusinessMetric(ctx, "session_started", true, om,
			attribute.Int("smart_questions", result.SmartQuestionCount),
			attribute.Int("experiences", result.ExperienceCount))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.String("session.id", result.SessionID),
		)

		writeJSONResponse(w, span, http.StatusCreated, result)
	}
}

// createRespondHandler wraps answer submission with observability
func (s *Server) createRespondHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("talentscope.api")
		ctx, span := tracer.Start(ctx, "api.interviews.respond")
		defer span.End()

		sessionID := r.PathValue("id")
		span.SetAttributes(attribute.String("session.id", sessionID))

		var req RespondRequest
		if err := s.parseAndValidate(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.response_length", len(req.Response)),
			attribute.String("operation", "interview_respond"),
		)

		result, err := s.Interviews.Submit(ctx, sessionID, req.Response)
		if err != nil {
			span.RecordError(err)
			writeAppError(w, err)
			return
		}

		if result.Completed {
			metrics := om.GetMetrics()
			metrics.RecordBusinessMetric(ctx, "session_completed", true, om,
				attribute.Int("questions_answered", result.QuestionsAnswered),
				attribute.String("recommendation", recommendationAttr(result.Aggregate)))
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Bool("session.completed", result.Completed),
		)

		writeJSONResponse(w, span, http.StatusOK, result)
	}
}

// createEndInterviewHandler wraps early termination with observability
func (s *Server) createEndInterviewHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("talentscope.api")
		ctx, span := tracer.Start(ctx, "api.interviews.end")
		defer span.End()

		sessionID := r.PathValue("id")
		span.SetAttributes(
			attribute.String("session.id", sessionID),
			attribute.String("operation", "interview_end"),
		)

		sess, err := s.Interviews.End(ctx, sessionID)
		if err != nil {
			span.RecordError(err)
			writeAppError(w, err)
			return
		}

		metrics := om.GetMetrics()
		metrics.RecordBusinessMetric(ctx, "session_completed", true, om,
			attribute.Bool("ended_early", true),
			attribute.Int("questions_answered", len(sess.Responses)))

		span.SetAttributes(attribute.Bool("success", true))

		writeJSONResponse(w, span, http.StatusOK, sess)
	}
}

func toStartRequest(req StartInterviewRequest) interview.StartRequest {
	return interview.StartRequest{
		ResumeText:     req.ResumeText,
		JobDescription: req.JobDescription,
		InterviewType:  req.InterviewType,
		NumQuestions:   req.NumQuestions,
		Difficulty:     req.Difficulty,
		EngineVariant:  req.Engine,
	}
}

func recommendationAttr(agg *types.AggregateScores) string {
	if agg == nil {
		return "none"
	}
	return agg.Recommendation
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Check if this request was rate limited by examining the response
			// We'll wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			// If rate limited, record metric
			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true, om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
