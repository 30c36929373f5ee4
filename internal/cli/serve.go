package cli

import (
	"talentscope/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for analysis and interviewing",
	Long: `Start an HTTP server that provides REST API endpoints for career
analysis, question generation and adaptive interview sessions.

Available endpoints:
- POST /analyze: Extract and analyze a resume's work history
- POST /questions: Generate targeted interview questions
- POST /interviews: Start an adaptive interview session
- GET /interviews: List interview sessions
- GET /interviews/{id}: Fetch an interview session
- DELETE /interviews/{id}: Delete an interview session
- POST /interviews/{id}/respond: Submit a candidate response
- POST /interviews/{id}/end: End an interview early
- GET /health: Health check endpoint
- GET /stats: Server statistics and rate limiting info`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")

	// Bind flags to viper config keys
	bindFlag := func(key, flagName string) {
		if err := viper.BindPFlag(key, serveCmd.Flags().Lookup(flagName)); err != nil {
			panic(err)
		}
	}

	bindFlag("server.port", "port")
	bindFlag("server.host", "host")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	deps := buildDeps(cfg, logger, cmd.Context().Done())

	serverCfg := server.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        Version,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: int64(cfg.App.MaxFileSize),
		RateLimit:      &cfg.Server.RateLimit,
	}
	srv := server.NewServer(cfg, serverCfg, server.Deps{
		Interviews: deps.manager,
		Extractor:  deps.extractor,
		Questions:  deps.questions,
	}, logger)
	return srv.Start()
}
