// Package httpapi exposes upload and validation over HTTP for browser
// front ends.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/scrutiny/internal/core/domain"
	"github.com/custodia-labs/scrutiny/internal/core/ports/driving"
	"github.com/custodia-labs/scrutiny/internal/logger"
)

// ErrMissingSessionService is returned when the session service is not provided.
var ErrMissingSessionService = errors.New("httpapi: session service is required")

// Server serves the upload and validate endpoints.
type Server struct {
	session   driving.SessionService
	uploadDir string
	maxUpload int64
	mux       *http.ServeMux
}

// NewServer creates a server that stores uploads under settings.UploadDir
// and rejects request bodies larger than settings.MaxUploadMB.
func NewServer(session driving.SessionService, settings domain.ServerSettings) (*Server, error) {
	if session == nil {
		return nil, ErrMissingSessionService
	}

	uploadDir := settings.UploadDir
	if uploadDir == "" {
		uploadDir = domain.DefaultUploadDir
	}
	maxMB := settings.MaxUploadMB
	if maxMB <= 0 {
		maxMB = domain.DefaultMaxUploadMB
	}

	s := &Server{
		session:   session,
		uploadDir: uploadDir,
		maxUpload: int64(maxMB) << 20,
		mux:       http.NewServeMux(),
	}
	s.mux.HandleFunc("POST /upload", s.handleUpload)
	s.mux.HandleFunc("POST /validate", s.handleValidate)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	return s, nil
}

// Handler returns the HTTP handler for all endpoints.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run listens on addr until the context is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Info("HTTP server listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "ok")
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("Failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps a core error onto an HTTP status and message.
func writeServiceError(w http.ResponseWriter, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed: %v", err)
	}
	writeError(w, status, msg)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrAPIKeyExpired):
		return http.StatusBadRequest, "API key expired. Please renew your Gemini API key."
	case errors.Is(err, domain.ErrQuotaExceeded):
		return http.StatusTooManyRequests,
			"API quota exceeded. Please check your plan and billing details or try again later."
	case errors.Is(err, domain.ErrSyllabusNotProcessed):
		return http.StatusBadRequest, "Syllabus not processed"
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrUnsupportedType):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrBadRequest), errors.Is(err, domain.ErrLLMCall),
		errors.Is(err, domain.ErrEmptyResponse):
		return http.StatusInternalServerError, "API error: " + domain.LLMErrorKindOf(err).String()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}
