package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lifematch-ai/matchd/internal/record"
	"github.com/lifematch-ai/matchd/internal/results"
)

const serviceName = "lifematch-matchd"

// Runner executes one full analysis. Satisfied by pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context, conversationPath, outputPath string) (record.FlatRecord, error)
}

// History reads back persisted analyses. Satisfied by history.Store; nil when
// no database is configured.
type History interface {
	RecentMatches(ctx context.Context, limit int) ([]record.FlatRecord, error)
}

type Server struct {
	router  *chi.Mux
	srv     *http.Server
	runner  Runner
	results *results.Store
	history History
	keySet  bool
	logger  *slog.Logger
}

func NewServer(port int, runner Runner, res *results.Store, hist History, keySet bool, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	// The original dashboard is a browser app on another origin.
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	s := &Server{
		router:  router,
		runner:  runner,
		results: res,
		history: hist,
		keySet:  keySet,
		logger:  logger,
		srv: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		},
	}

	router.Get("/", s.banner)
	router.Get("/api/health", s.health)
	router.Post("/api/analyze", s.analyze)
	router.Get("/api/latest", s.latest)
	router.Get("/api/history", s.listHistory)
	router.Handle("/metrics", promhttp.Handler())

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Endpoint not found", "not_found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", "method_not_allowed")
	})

	return s
}

func (s *Server) Start() error {
	s.logger.Info("API server starting", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
