// Package handler exposes the startup registry endpoints.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"innoport/internal/startup/models"
	"innoport/internal/startup/service"
	id "innoport/pkg/domain"
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

// Register mounts the startup endpoints. The interest endpoint under
// /startups/{startupID}/interest belongs to the interest handler.
func (h *Handler) Register(r chi.Router) {
	r.Get("/startups", h.HandleList)
	r.Post("/startups", h.HandleCreate)
	r.Post("/startups/{startupID}/verify", h.HandleVerify)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.CreateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	startup, err := h.service.Create(ctx, requestcontext.UserID(ctx), &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "startup registered",
		"request_id", requestID,
		"startup_id", startup.ID.String(),
	)
	httputil.WriteJSON(w, http.StatusCreated, FromStartup(*startup))
}

func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	startupID, err := id.ParseStartupID(chi.URLParam(r, "startupID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	startup, err := h.service.Verify(ctx, requestcontext.UserID(ctx), startupID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "startup verified",
		"request_id", requestID,
		"startup_id", startup.ID.String(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromStartup(*startup))
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var filter models.ListFilter
	if raw := r.URL.Query().Get("verified"); raw != "" {
		verified := raw == "true"
		filter.Verified = &verified
	}
	filter.Mine = r.URL.Query().Get("mine") == "true"

	startups, err := h.service.List(ctx, requestcontext.UserID(ctx), filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]StartupResponse, 0, len(startups))
	for _, startup := range startups {
		out = append(out, FromStartup(startup))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}
