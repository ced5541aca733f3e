// Package handler exposes the dashboard summary and the analytics overview.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"innoport/internal/analytics/service"
	"innoport/pkg/platform/httputil"
	"innoport/pkg/requestcontext"
)

type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

func New(svc *service.Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// RegisterDashboard mounts the landing dashboard; any authenticated user
// sees it, so the router guards it separately from the overview.
func (h *Handler) RegisterDashboard(r chi.Router) {
	r.Get("/dashboard", h.HandleDashboard)
}

// RegisterOverview mounts the full analytics page (admins and investors).
func (h *Handler) RegisterOverview(r chi.Router) {
	r.Get("/analytics/overview", h.HandleOverview)
}

func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summary, err := h.service.Dashboard(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	overview, err := h.service.BuildOverview(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "analytics overview failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, overview)
}
