package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/critiqhq/critiq/internal/config"
	"github.com/critiqhq/critiq/internal/criteria"
	"github.com/critiqhq/critiq/internal/diffparse"
	"github.com/critiqhq/critiq/internal/export"
	"github.com/critiqhq/critiq/internal/gerrit"
	"github.com/critiqhq/critiq/internal/output"
	"github.com/critiqhq/critiq/internal/review"
)

const apiVersion = "1.0.0"

// AnalyzeFunc runs one analysis. It is injectable for tests; the default
// delegates to the review engine with the server's configuration.
type AnalyzeFunc func(ctx context.Context, code string, sel criteria.Selection) (*review.AnalysisResult, error)

// PatchSource fetches patch content for a Gerrit change and posts reviews
// back. *gerrit.Client satisfies it.
type PatchSource interface {
	GetPatch(ctx context.Context, info gerrit.ChangeInfo) (string, error)
	PostReview(ctx context.Context, changeID, revisionID string, input gerrit.ReviewInput) error
}

// Options override server collaborators, primarily for tests.
type Options struct {
	Analyze AnalyzeFunc
	Gerrit  PatchSource
	Logger  *slog.Logger
	Now     func() time.Time
}

// Server is the HTTP API for code analysis.
type Server struct {
	cfg     config.Config
	analyze AnalyzeFunc
	gerrit  PatchSource
	log     *slog.Logger
	now     func() time.Time
	weights criteria.Weights
}

// New creates a Server with the given configuration.
func New(cfg config.Config, opts Options) *Server {
	s := &Server{
		cfg:     cfg,
		analyze: opts.Analyze,
		gerrit:  opts.Gerrit,
		log:     opts.Logger,
		now:     opts.Now,
	}
	if s.analyze == nil {
		s.analyze = func(ctx context.Context, code string, sel criteria.Selection) (*review.AnalysisResult, error) {
			return review.Run(ctx, code, sel, cfg)
		}
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	weights, err := criteria.LoadWeights(cfg.WeightsFile)
	if err != nil {
		s.log.Warn("loading weights file failed, using defaults", "path", cfg.WeightsFile, "error", err)
		weights = criteria.DefaultWeights()
	}
	s.weights = weights
	return s
}

// Handler returns the routed HTTP handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /api/examples", s.handleExamples)
	mux.HandleFunc("POST /api/export", s.handleExport)
	mux.HandleFunc("POST /api/webhook/gerrit", s.handleGerritWebhook)
	return s.withRequestID(s.withCORS(s.withLogging(mux)))
}

// ListenAndServe starts the server on the configured host and port.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.log.Info("starting API server", "addr", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("writing response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string, details any) {
	body := map[string]any{
		"error":     msg,
		"timestamp": s.now().UTC().Format(time.RFC3339),
	}
	if details != nil {
		body["details"] = details
	}
	s.writeJSON(w, status, body)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": s.now().UTC().Format(time.RFC3339),
		"version":   apiVersion,
		"services": map[string]string{
			"provider": s.cfg.Provider,
			"model":    s.cfg.Model,
		},
	})
}

// analyzeRequest is the decoded analyze request body. Criteria is optional;
// absent means all criteria.
type analyzeRequest struct {
	Code     string          `json:"code"`
	Criteria map[string]bool `json:"criteria"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "request body too large or unreadable", nil)
		return
	}

	if errs := validateAnalyzeBytes(body); len(errs) > 0 {
		s.writeError(w, http.StatusBadRequest, "invalid request", errs)
		return
	}

	var req analyzeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		s.writeError(w, http.StatusBadRequest, "Empty code provided", nil)
		return
	}

	sel := make(criteria.Selection, len(req.Criteria))
	for k, v := range req.Criteria {
		sel[criteria.Key(k)] = v
	}
	if err := sel.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid criteria selection", err.Error())
		return
	}

	s.log.Info("analyzing code", "length", len(code), "criteria", len(sel.Enabled()))

	result, err := s.analyze(r.Context(), code, sel)
	if err != nil {
		s.log.Error("analysis failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Analysis failed", err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, analyzeResponse(result, code))
}

// analyzeResponse wraps the result with input statistics and, for git
// diffs, per-file change information.
func analyzeResponse(result *review.AnalysisResult, code string) map[string]any {
	data, err := json.Marshal(result)
	if err != nil {
		return map[string]any{"error": "serializing result"}
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return map[string]any{"error": "serializing result"}
	}

	parsed := diffparse.Parse(code)
	m["input_format"] = parsed.Format
	if !parsed.IsGitDiff() {
		if lang := diffparse.DetectLanguage(code); lang != "" {
			m["detected_language"] = lang
		}
	}
	filesAnalyzed := 1
	if parsed.IsGitDiff() {
		filesAnalyzed = parsed.TotalFiles
		m["git_diff_info"] = map[string]any{
			"files_changed": parsed.TotalFiles,
			"lines_added":   parsed.TotalLinesAdded,
			"lines_removed": parsed.TotalLinesRemoved,
			"files":         parsed.Files,
		}
	}
	m["input_stats"] = map[string]any{
		"total_lines":      strings.Count(code, "\n") + 1,
		"total_characters": len(code),
		"files_analyzed":   filesAnalyzed,
	}
	return m
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "request body too large or unreadable", nil)
		return
	}
	var result review.AnalysisResult
	if err := json.Unmarshal(body, &result); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid analysis result", err.Error())
		return
	}

	now := s.now()
	data, err := export.Bundle(&result, now)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "export failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(now)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleGerritWebhook(w http.ResponseWriter, r *http.Request) {
	if s.gerrit == nil {
		s.writeError(w, http.StatusServiceUnavailable, "gerrit integration is not configured", nil)
		return
	}

	var ev gerrit.WebhookEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid webhook payload", err.Error())
		return
	}
	info, err := gerrit.ExtractChangeInfo(ev)
	if errors.Is(err, gerrit.ErrIgnoredEvent) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ignored", "eventType": ev.EventType})
		return
	}
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid webhook payload", err.Error())
		return
	}

	s.log.Info("processing gerrit change", "change", info.ChangeID, "revision", info.RevisionID)

	patch, err := s.gerrit.GetPatch(r.Context(), info)
	if err != nil {
		s.log.Error("fetching patch", "change", info.ChangeID, "error", err)
		s.writeError(w, http.StatusBadGateway, "fetching patch failed", err.Error())
		return
	}

	result, err := s.analyze(r.Context(), patch, nil)
	if err != nil {
		s.log.Error("analysis failed", "change", info.ChangeID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "Analysis failed", err.Error())
		return
	}

	posted := false
	if s.cfg.AutoPostReview {
		vote := gerrit.ScoreLabel(result.OverallScore, s.cfg.MinReviewScore)
		input := gerrit.ReviewInput{
			Message: output.SummaryComment(result, s.weights),
			Labels:  map[string]int{"Code-Review": vote},
		}
		if err := s.gerrit.PostReview(r.Context(), info.ChangeID, info.RevisionID, input); err != nil {
			s.log.Error("posting review", "change", info.ChangeID, "error", err)
			s.writeError(w, http.StatusBadGateway, "posting review failed", err.Error())
			return
		}
		posted = true
		s.log.Info("posted review", "change", info.ChangeID, "vote", vote)
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":        "analyzed",
		"change_id":     info.ChangeID,
		"overall_score": result.OverallScore,
		"posted":        posted,
	})
}
