package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/lifematch-ai/matchd/internal/fault"
	"github.com/lifematch-ai/matchd/internal/record"
)

const (
	defaultConversationPath = "graph-builder-conversation.json"
	defaultOutputPath       = "analysis_results.csv"
	defaultHistoryLimit     = 10
)

type analyzeRequest struct {
	ConversationPath string `json:"conversation_path"`
	OutputPath       string `json:"output_path"`
}

type successResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

func (s *Server) banner(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": serviceName,
		"message": "Transplant match analysis API",
		"endpoints": map[string]string{
			"GET /api/health":   "service health and model credential status",
			"POST /api/analyze": "run a match analysis on a conversation transcript",
			"GET /api/latest":   "latest completed analysis",
			"GET /api/history":  "recent persisted analyses (requires database)",
			"GET /metrics":      "prometheus metrics",
		},
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	groqStatus := "not configured"
	if s.keySet {
		groqStatus = "connected"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":      "healthy",
		"service":     serviceName,
		"groq_status": groqStatus,
	})
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	req := analyzeRequest{
		ConversationPath: defaultConversationPath,
		OutputPath:       defaultOutputPath,
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Request body must be JSON", "bad_request")
		return
	}
	if req.ConversationPath == "" {
		req.ConversationPath = defaultConversationPath
	}
	if req.OutputPath == "" {
		req.OutputPath = defaultOutputPath
	}

	start := time.Now()
	rec, err := s.runner.Run(r.Context(), req.ConversationPath, req.OutputPath)
	observeAnalysis(time.Since(start), err)
	if err != nil {
		s.logger.Error("analysis failed", "conversation_path", req.ConversationPath, "error", err)
		kind := fault.KindOf(err)
		writeError(w, statusFor(kind), err.Error(), string(kind))
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Status: "success", Data: rec.Nest()})
}

func (s *Server) latest(w http.ResponseWriter, r *http.Request) {
	rec, err := s.results.Latest()
	if err != nil {
		kind := fault.KindOf(err)
		writeError(w, statusFor(kind), err.Error(), string(kind))
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Status: "success", Data: rec.Nest()})
}

func (s *Server) listHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, "Analysis history not configured", "not_available")
		return
	}

	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer", "bad_request")
			return
		}
		limit = n
	}

	recs, err := s.history.RecentMatches(r.Context(), limit)
	if err != nil {
		s.logger.Error("history query failed", "error", err)
		kind := fault.KindOf(err)
		writeError(w, statusFor(kind), err.Error(), string(kind))
		return
	}

	analyses := make([]record.Nested, 0, len(recs))
	for _, rec := range recs {
		analyses = append(analyses, rec.Nest())
	}
	writeJSON(w, http.StatusOK, successResponse{Status: "success", Data: map[string]any{
		"analyses": analyses,
		"count":    len(analyses),
	}})
}

// statusFor maps failure kinds to HTTP statuses: missing resources are 404,
// everything else in the pipeline is a 500. Client input errors are handled
// inline before the pipeline runs.
func statusFor(kind fault.Kind) int {
	switch kind {
	case fault.KindNotFound, fault.KindNotAvailable:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message, errType string) {
	writeJSON(w, status, errorResponse{Status: "error", Message: message, Type: errType})
}
