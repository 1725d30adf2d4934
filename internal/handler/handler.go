// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bankdemo/frontend/internal/middleware"
	"github.com/bankdemo/frontend/internal/view"
)

// Handler serves the error pages shared by every route.
type Handler struct {
	renderer *view.Renderer
	logger   *slog.Logger
}

// New creates a new Handler instance.
func New(renderer *view.Renderer, logger *slog.Logger) *Handler {
	return &Handler{
		renderer: renderer,
		logger:   logger,
	}
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusNotFound, "")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusMethodNotAllowed, "")
}

// renderError writes the HTML error page, falling back to plain text when
// the template cannot be rendered.
func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	renderError(h.renderer, h.logger, w, r, status, message)
}

func renderError(renderer *view.Renderer, logger *slog.Logger, w http.ResponseWriter, r *http.Request, status int, message string) {
	data := view.ErrorData{
		Status:  status,
		Title:   http.StatusText(status),
		Message: message,
	}
	if err := renderer.RenderStatus(w, status, view.PageError, data); err != nil {
		logger.Error("render failed",
			slog.String("page", view.PageError),
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		http.Error(w, http.StatusText(status), status)
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
