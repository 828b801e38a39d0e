// Package server exposes the interview orchestrator over a small REST API.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/prepdeck/interviewd/internal/interview"
)

// Server routes interview API requests to the orchestrator.
type Server struct {
	mux        *http.ServeMux
	orch       *interview.Orchestrator
	reportsDir string
	logger     *zap.Logger
}

// New creates the API server. reportsDir is where rendered report
// documents live; it backs the download endpoint.
func New(orch *interview.Orchestrator, reportsDir string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		mux:        http.NewServeMux(),
		orch:       orch,
		reportsDir: reportsDir,
		logger:     log,
	}
	s.registerRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /api/v1/interview/start", s.handleStart)
	s.mux.HandleFunc("POST /api/v1/interview/answer", s.handleAnswer)
	s.mux.HandleFunc("POST /api/v1/interview/end", s.handleEnd)
	s.mux.HandleFunc("GET /api/v1/reports/{name}", s.handleDownloadReport)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
}

type startRequest struct {
	SessionID  string `json:"session_id"`
	Role       string `json:"role"`
	Experience string `json:"experience"`
	Difficulty string `json:"difficulty"`
	ResumeText string `json:"resume_text"`
}

type answerRequest struct {
	SessionID           string                        `json:"session_id"`
	UserMessage         string                        `json:"user_message"`
	ConversationHistory []interview.ConversationEntry `json:"conversation_history"`
}

type endRequest struct {
	SessionID string `json:"session_id"`
}

type summaryResponse struct {
	TotalQuestions    int      `json:"total_questions"`
	TotalInteractions int      `json:"total_interactions"`
	AverageScore      float64  `json:"average_score"`
	TopicsCovered     []string `json:"topics_covered"`
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.SessionID) == "" || strings.TrimSpace(req.Role) == "" {
		writeError(w, http.StatusBadRequest, "session_id and role are required")
		return
	}

	question, err := s.orch.Start(r.Context(), interview.StartParams{
		SessionID:  req.SessionID,
		Role:       req.Role,
		Experience: req.Experience,
		Difficulty: req.Difficulty,
		ResumeText: req.ResumeText,
	})
	if err != nil {
		s.logger.Error("start failed", zap.String("session_id", req.SessionID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to start interview")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"question":   question,
		"session_id": req.SessionID,
	})
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.SessionID) == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	result, err := s.orch.Answer(r.Context(), interview.AnswerParams{
		SessionID: req.SessionID,
		Answer:    req.UserMessage,
		History:   req.ConversationHistory,
	})
	if err != nil {
		if errors.Is(err, interview.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		s.logger.Error("answer failed", zap.String("session_id", req.SessionID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to process answer")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"question":    result.Question,
		"feedback":    result.Feedback,
		"score":       result.Score,
		"is_followup": result.IsFollowup,
		"confidence":  result.Confidence,
		"session_id":  result.SessionID,
	})
}

func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	var req endRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.SessionID) == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	result, err := s.orch.End(r.Context(), req.SessionID)
	if err != nil {
		if errors.Is(err, interview.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		s.logger.Error("end failed", zap.String("session_id", req.SessionID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to end interview")
		return
	}

	response := map[string]any{
		"success": true,
		"report":  result.Report,
		"summary": summaryResponse{
			TotalQuestions:    result.Summary.TotalQuestions,
			TotalInteractions: result.Summary.TotalInteractions,
			AverageScore:      result.Summary.AverageScore,
			TopicsCovered:     result.Summary.TopicsCovered,
		},
	}
	if result.DocumentPath != "" {
		response["report_file"] = filepath.Base(result.DocumentPath)
	}

	writeJSON(w, http.StatusOK, response)
}

// handleDownloadReport serves a rendered report document by basename. Path
// components are rejected so the endpoint cannot escape the reports
// directory.
func (s *Server) handleDownloadReport(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		writeError(w, http.StatusBadRequest, "invalid report name")
		return
	}

	path := filepath.Join(s.reportsDir, name)
	if _, err := os.Stat(path); err != nil {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	http.ServeFile(w, r, path)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the failure envelope.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}
