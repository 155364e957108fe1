// Package api provides the HTTP server exposing the analysis pipeline and
// the embedded dashboard.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/seenimoa/newslens/internal/analyzer"
	"github.com/seenimoa/newslens/internal/config"
	"github.com/seenimoa/newslens/internal/llm"
	"github.com/seenimoa/newslens/internal/loader"
	"github.com/seenimoa/newslens/internal/report"
	"github.com/seenimoa/newslens/pkg/models"
	"github.com/seenimoa/newslens/web"
)

// Pipeline runs one analysis request end to end.
type Pipeline interface {
	Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error)
}

// Server is the HTTP API server. It keeps the last completed result in
// memory for the report endpoints; nothing is persisted.
type Server struct {
	router   chi.Router
	cfg      *config.Config
	pipeline Pipeline
	wsHub    *WSHub
	serveUI  bool

	mu         sync.RWMutex
	lastResult *models.AnalysisResult
}

// Option configures a Server.
type Option func(*Server)

// WithPipeline overrides the analysis pipeline, used by tests.
func WithPipeline(p Pipeline) Option {
	return func(s *Server) { s.pipeline = p }
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config, opts ...Option) (*Server, error) {
	srv := &Server{
		cfg:     cfg,
		wsHub:   NewWSHub(),
		serveUI: true,
	}
	for _, opt := range opts {
		opt(srv)
	}

	if srv.pipeline == nil {
		client, err := llm.NewClientFromConfig(cfg)
		if err != nil {
			return nil, fmt.Errorf("LLM setup failed: %w", err)
		}
		srv.pipeline = analyzer.New(
			loader.New(cfg.Loader),
			client,
			analyzer.WithProgress(func(stage, detail string) {
				srv.wsHub.Broadcast(WSMessage{
					Type: "progress",
					Data: map[string]string{"stage": stage, "detail": detail},
				})
			}),
		)
	}

	srv.router = srv.buildRouter()
	return srv, nil
}

// SetServeUI controls whether the embedded dashboard is served.
// Must be called before ListenAndServe.
func (s *Server) SetServeUI(enabled bool) {
	s.serveUI = enabled
	s.router = s.buildRouter()
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 6 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go s.wsHub.Run()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(6 * time.Minute))

	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Post("/analyze", s.handleAnalyze)

		r.Get("/report", s.handleReport)
		r.Get("/report/summary.md", s.handleReportMarkdown)
		r.Get("/report/analysis.json", s.handleReportJSON)

		r.Get("/config/keys", s.handleConfigKeys)

		r.Get("/ws", s.handleWebSocket)
	})

	if s.serveUI {
		s.mountSPA(r, web.DistFS())
	}

	return r
}

// mountSPA serves the embedded dashboard. Static assets are served
// directly; unknown paths fall back to index.html.
func (s *Server) mountSPA(r chi.Router, distFS fs.FS) {
	fileServer := http.FileServer(http.FS(distFS))

	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		rPath := strings.TrimPrefix(r.URL.Path, "/")
		if rPath == "" {
			rPath = "index.html"
		}

		f, err := distFS.Open(rPath)
		if err != nil {
			serveIndexHTML(w, distFS)
			return
		}
		f.Close()

		if rPath == "index.html" || strings.HasSuffix(rPath, ".html") {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		}
		fileServer.ServeHTTP(w, r)
	})
}

func serveIndexHTML(w http.ResponseWriter, distFS fs.FS) {
	data, err := fs.ReadFile(distFS, "index.html")
	if err != nil {
		http.Error(w, "dashboard not available", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// AnalyzeRequest is the POST /api/v1/analyze payload.
type AnalyzeRequest struct {
	URLs   []string `json:"urls"`
	Length string   `json:"length,omitempty"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":   "ok",
			"provider": s.cfg.LLM.Primary,
			"time":     time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	areq := models.AnalysisRequest{
		URLs:   req.URLs,
		Length: models.ParseLengthTier(req.Length),
	}
	if err := areq.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	result, err := s.pipeline.Analyze(ctx, areq)
	if err != nil {
		var nse *analyzer.NoSourcesError
		if errors.As(err, &nse) {
			writeJSON(w, http.StatusUnprocessableEntity, APIResponse{
				Success: false,
				Error:   nse.Error(),
				Data:    map[string]interface{}{"sources": nse.Docs},
			})
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	s.mu.Lock()
	s.lastResult = result
	s.mu.Unlock()

	s.wsHub.Broadcast(WSMessage{
		Type: "analysis_complete",
		Data: map[string]interface{}{
			"sources":   result.Sources.SuccessfulLoads,
			"sentiment": result.Sentiment.Label,
		},
	})

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    result,
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	result := s.last()
	if result == nil {
		writeError(w, http.StatusNotFound, "no analysis has been run yet")
		return
	}

	html, err := report.GenerateHTML(result, report.DefaultReportConfig())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html)) //nolint:errcheck
}

func (s *Server) handleReportMarkdown(w http.ResponseWriter, r *http.Request) {
	result := s.last()
	if result == nil {
		writeError(w, http.StatusNotFound, "no analysis has been run yet")
		return
	}

	md := report.GenerateMarkdown(result)
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=news-summary-%s.md", report.ReportTimestamp()))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(md)) //nolint:errcheck
}

func (s *Server) handleReportJSON(w http.ResponseWriter, r *http.Request) {
	result := s.last()
	if result == nil {
		writeError(w, http.StatusNotFound, "no analysis has been run yet")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=news-analysis-%s.json", report.ReportTimestamp()))
	w.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Printf("failed to write analysis JSON: %v", err)
	}
}

func (s *Server) handleConfigKeys(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    config.CheckAPIKeys(s.cfg),
	})
}

func (s *Server) last() *models.AnalysisResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastResult
}

// ============================================================
// Helpers
// ============================================================

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}
