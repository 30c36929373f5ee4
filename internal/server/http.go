package server

import (
	"time"

	"github.com/go-playground/validator/v10"

	"talentscope/internal/config"
	talentscopeErrors "talentscope/internal/errors"
	"talentscope/internal/extract"
	"talentscope/internal/interview"
	"talentscope/internal/questions"
)

// AnalyzeRequest represents the request body for the analyze endpoint
type AnalyzeRequest struct {
	ResumeText string `json:"resumeText" validate:"required"`
}

// QuestionsRequest represents the request body for the questions endpoint
type QuestionsRequest struct {
	ResumeText   string `json:"resumeText" validate:"required"`
	MaxQuestions int    `json:"maxQuestions" validate:"omitempty,min=1,max=50"`
}

// StartInterviewRequest represents the request body for creating a session
type StartInterviewRequest struct {
	ResumeText     string `json:"resumeText" validate:"required"`
	JobDescription string `json:"jobDescription"`
	InterviewType  string `json:"interviewType" validate:"omitempty,oneof=comprehensive technical behavioral screening"`
	NumQuestions   int    `json:"numQuestions" validate:"omitempty,min=1,max=50"`
	Difficulty     string `json:"difficulty" validate:"omitempty,oneof=junior mid senior"`
	Engine         string `json:"engine" validate:"omitempty,oneof=advanced basic"`
}

// RespondRequest represents the request body for submitting an answer
type RespondRequest struct {
	Response string `json:"response" validate:"required"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// Domain services
	Interviews *interview.Manager
	Extractor  *extract.Extractor
	Questions  *questions.Generator

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Request validation
	validate *validator.Validate

	// Logger
	Logger *talentscopeErrors.Logger
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// Deps bundles the domain services the server exposes over HTTP
type Deps struct {
	Interviews *interview.Manager
	Extractor  *extract.Extractor
	Questions  *questions.Generator
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, deps Deps, logger *talentscopeErrors.Logger) *Server {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.Window,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		Interviews:     deps.Interviews,
		Extractor:      deps.Extractor,
		Questions:      deps.Questions,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		validate:       validator.New(),
		Logger:         logger,
	}
}
