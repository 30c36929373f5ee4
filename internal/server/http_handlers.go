package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"talentscope/internal/ai"
	"talentscope/internal/errors"
	"talentscope/internal/types"
)

// getHealthCheckTimeout returns the configured health check timeout
func (s *Server) getHealthCheckTimeout() time.Duration {
	return s.AppConfig.Observability.HealthCheck.Timeout
}

// healthHandler provides a comprehensive health check endpoint including AI model status
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":  "healthy",
		"service": "talentscope",
		"version": s.Version,
	}

	// Check AI model availability for all operations
	aiStatus := s.checkAIModelsHealth()
	response["ai_models"] = aiStatus

	// Check circuit breaker status
	circuitBreakerStatus := s.checkCircuitBreakerHealth()
	response["circuit_breakers"] = circuitBreakerStatus

	// Determine overall health status
	overallHealthy := true
	for _, modelStatus := range aiStatus {
		if modelInfo, ok := modelStatus.(map[string]any); ok {
			if available, exists := modelInfo["available"]; exists {
				if avail, ok := available.(bool); ok && !avail {
					overallHealthy = false
					break
				}
			}
		}
	}

	// A degraded model is not fatal: the basic engine and regex
	// extraction keep every endpoint functional.
	if !overallHealthy {
		response["status"] = "degraded"
		response["degraded_mode"] = "deterministic fallbacks active"
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode health response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// checkAIModelsHealth checks the health of all AI models used by different operations
func (s *Server) checkAIModelsHealth() map[string]any {
	// Use configurable health check timeout
	timeout := s.getHealthCheckTimeout()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	aiStatus := make(map[string]any)

	// Check extract service model
	extractConfig := s.AppConfig.GetExtractConfig()
	if extractService, err := ai.NewService(&extractConfig, "extract", s.Logger); err == nil {
		modelInfo := extractService.GetModelInfo(ctx)
		aiStatus["extract"] = modelInfo
	} else {
		aiStatus["extract"] = map[string]any{
			"available": false,
			"error":     fmt.Sprintf("Failed to create extract service: %v", err),
		}
	}

	// Check interview service model
	interviewConfig := s.AppConfig.GetInterviewConfig()
	if interviewService, err := ai.NewService(&interviewConfig, "interview", s.Logger); err == nil {
		modelInfo := interviewService.GetModelInfo(ctx)
		aiStatus["interview"] = modelInfo
	} else {
		aiStatus["interview"] = map[string]any{
			"available": false,
			"error":     fmt.Sprintf("Failed to create interview service: %v", err),
		}
	}

	// Check evaluate service model
	evaluateConfig := s.AppConfig.GetEvaluateConfig()
	if evaluateService, err := ai.NewService(&evaluateConfig, "evaluate", s.Logger); err == nil {
		modelInfo := evaluateService.GetModelInfo(ctx)
		aiStatus["evaluate"] = modelInfo
	} else {
		aiStatus["evaluate"] = map[string]any{
			"available": false,
			"error":     fmt.Sprintf("Failed to create evaluate service: %v", err),
		}
	}

	return aiStatus
}

// checkCircuitBreakerHealth checks the health of circuit breakers for all AI operations
func (s *Server) checkCircuitBreakerHealth() map[string]any {
	circuitBreakerStatus := make(map[string]any)

	// Check extract service circuit breaker
	extractConfig := s.AppConfig.GetExtractConfig()
	if _, err := ai.NewService(&extractConfig, "extract", s.Logger); err == nil {
		circuitBreakerStatus["extract"] = map[string]any{
			"available": true,
			"message":   "Circuit breaker integrated with extract service",
		}
	} else {
		circuitBreakerStatus["extract"] = map[string]any{
			"available": false,
			"error":     fmt.Sprintf("Failed to create extract service: %v", err),
		}
	}

	// Check interview service circuit breaker
	interviewConfig := s.AppConfig.GetInterviewConfig()
	if _, err := ai.NewService(&interviewConfig, "interview", s.Logger); err == nil {
		circuitBreakerStatus["interview"] = map[string]any{
			"available": true,
			"message":   "Circuit breaker integrated with interview service",
		}
	} else {
		circuitBreakerStatus["interview"] = map[string]any{
			"available": false,
			"error":     fmt.Sprintf("Failed to create interview service: %v", err),
		}
	}

	// Check evaluate service circuit breaker
	evaluateConfig := s.AppConfig.GetEvaluateConfig()
	if _, err := ai.NewService(&evaluateConfig, "evaluate", s.Logger); err == nil {
		circuitBreakerStatus["evaluate"] = map[string]any{
			"available": true,
			"message":   "Circuit breaker integrated with evaluate service",
		}
	} else {
		circuitBreakerStatus["evaluate"] = map[string]any{
			"available": false,
			"error":     fmt.Sprintf("Failed to create evaluate service: %v", err),
		}
	}

	return circuitBreakerStatus
}

// statsHandler provides server statistics including rate limiting and session info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"service": "talentscope",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
		},
	}

	// Add live session stats
	sessions := s.Interviews.List()
	active, completed := 0, 0
	for _, sess := range sessions {
		if sess.Status == "completed" {
			completed++
		} else {
			active++
		}
	}
	response["sessions"] = map[string]any{
		"total":     len(sessions),
		"active":    active,
		"completed": completed,
	}

	// Add rate limiting stats if enabled
	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	// Add configuration info
	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode stats response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// sessionSummary is the trimmed session view returned by list/get endpoints
type sessionSummary struct {
	SessionID       string                 `json:"sessionId"`
	Status          string                 `json:"status"`
	Engine          string                 `json:"engine"`
	InterviewType   string                 `json:"interviewType"`
	Difficulty      string                 `json:"difficulty"`
	TargetQuestions int                    `json:"targetQuestions"`
	QuestionsAsked  int                    `json:"questionsAsked"`
	Answered        int                    `json:"answered"`
	CreatedAt       time.Time              `json:"createdAt"`
	CompletedAt     *time.Time             `json:"completedAt,omitempty"`
	Aggregate       *types.AggregateScores `json:"aggregate,omitempty"`
}

func summarize(sess *types.InterviewSession) sessionSummary {
	summary := sessionSummary{
		SessionID:       sess.ID,
		Status:          sess.Status,
		Engine:          sess.EngineVariant,
		InterviewType:   sess.InterviewType,
		Difficulty:      sess.Difficulty,
		TargetQuestions: sess.TargetQuestions,
		QuestionsAsked:  len(sess.Questions),
		Answered:        len(sess.Responses),
		CreatedAt:       sess.CreatedAt,
		Aggregate:       sess.Aggregate,
	}
	if !sess.CompletedAt.IsZero() {
		completedAt := sess.CompletedAt
		summary.CompletedAt = &completedAt
	}
	return summary
}

// listInterviewsHandler returns summaries of all live sessions
func (s *Server) listInterviewsHandler(w http.ResponseWriter, r *http.Request) {
	sessions := s.Interviews.List()
	summaries := make([]sessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		summaries = append(summaries, summarize(sess))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"sessions": summaries}); err != nil {
		log.Printf("Failed to encode sessions response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// getInterviewHandler returns the full state of one session
func (s *Server) getInterviewHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Interviews.Get(r.PathValue("id"))
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(sess); err != nil {
		log.Printf("Failed to encode session response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// deleteInterviewHandler removes a session
func (s *Server) deleteInterviewHandler(w http.ResponseWriter, r *http.Request) {
	s.Interviews.Delete(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	if r.Header.Get("Content-Type") != "application/json" {
		return fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if stderrors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}

// parseAndValidate parses the JSON body and runs struct validation on it
func (s *Server) parseAndValidate(r *http.Request, v any) error {
	if err := parseJSONRequest(r, v); err != nil {
		return err
	}
	if err := s.validate.Struct(v); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// writeJSONResponse encodes a successful JSON response, recording encode failures on the span
func writeJSONResponse(w http.ResponseWriter, span trace.Span, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		span.RecordError(err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   error,
		Message: message,
	}

	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode error response: %v", err)
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}

// writeAppError maps an application error to its HTTP status
func writeAppError(w http.ResponseWriter, err error) {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		writeErrorResponse(w, "Internal error", err.Error(), http.StatusInternalServerError)
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Code {
	case errors.ErrCodeInvalidRequest, errors.ErrCodeInvalidFormat:
		status = http.StatusBadRequest
	case errors.ErrCodeSessionNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeSessionCompleted:
		status = http.StatusConflict
	case errors.ErrCodeMissingAPIKey:
		status = http.StatusUnauthorized
	case errors.ErrCodeAITimeout, errors.ErrCodeNetworkTimeout:
		status = http.StatusGatewayTimeout
	}

	writeErrorResponse(w, appErr.Code, appErr.Message, status)
}
