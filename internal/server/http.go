// File: http.go
// Title: HTTP Gateway
// Description: JSON endpoints for compile, health and version plus the
//              WebSocket route.
// Created: 2026-10-17

package server

import (
	"bufio"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	mserror "github.com/msto63/microscheme/pkg/core/error"
	"github.com/msto63/microscheme/pkg/core/health"
	"github.com/msto63/microscheme/pkg/core/logging"
	"github.com/msto63/microscheme/pkg/core/version"
)

// ErrorResponse is the body of every non-2xx reply
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// Handler serves the HTTP gateway
type Handler struct {
	service *Service
	health  *health.Registry
	ws      *WebSocketHandler
	logger  *logging.Logger
	maxBody int64
}

// NewHandler creates the gateway. Request bodies are capped a little above
// the service source limit so oversized sources still get a 413.
func NewHandler(service *Service, registry *health.Registry, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.New("http")
	}
	maxBody := int64(-1)
	if service.maxSourceBytes > 0 {
		// JSON escaping can at most sextuple a byte (\u00XX)
		maxBody = int64(service.maxSourceBytes)*6 + 4096
	}
	return &Handler{
		service: service,
		health:  registry,
		ws:      NewWebSocketHandler(service, logger),
		logger:  logger,
		maxBody: maxBody,
	}
}

// Routes returns the gateway mux wrapped in request logging
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/compile", h.handleCompile)
	mux.HandleFunc("/api/v1/version", h.handleVersion)
	mux.HandleFunc("/api/v1/stats", h.handleStats)
	mux.HandleFunc("/health", h.handleHealth)
	mux.Handle("/ws", h.ws)
	return loggingMiddleware(h.logger, mux)
}

func (h *Handler) handleCompile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Use POST", "")
		return
	}

	body := r.Body
	if h.maxBody > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}

	var req CompileRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, http.StatusRequestEntityTooLarge, "too_large", "Request body too large", "")
			return
		}
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON", err.Error())
		return
	}

	resp, err := h.service.Compile(r.Context(), &req)
	if err != nil {
		status := http.StatusInternalServerError
		code := "internal_error"
		switch mserror.GetCode(err) {
		case mserror.CodeInvalidInput:
			status, code = http.StatusRequestEntityTooLarge, "too_large"
		case mserror.CodeServiceUnavailable:
			status, code = http.StatusServiceUnavailable, "unavailable"
		}
		h.writeError(w, status, code, err.Error(), "")
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Use GET", "")
		return
	}

	report := h.health.Check(r.Context())
	status := http.StatusOK
	if report.Status == health.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	h.writeJSON(w, status, report)
}

func (h *Handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Use GET", "")
		return
	}
	h.writeJSON(w, http.StatusOK, version.Get())
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Use GET", "")
		return
	}
	stats, ok := h.service.CacheStats()
	if !ok {
		h.writeError(w, http.StatusNotFound, "not_found", "Response cache disabled", "")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"hits":     stats.Hits,
		"misses":   stats.Misses,
		"size":     stats.Size,
		"hit_rate": stats.HitRate(),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message, details string) {
	h.writeJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}

// loggingMiddleware adds request logging
func loggingMiddleware(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		logger.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapper.statusCode,
			"duration", time.Since(start),
		)
	})
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack implements http.Hijacker for the WebSocket upgrade
func (w *responseWrapper) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return hijacker.Hijack()
}

func (w *responseWrapper) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
