// Package handler exposes the research project endpoints.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"innoport/internal/research/models"
	"innoport/internal/research/service"
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

// Register mounts the research endpoints. The route guard wraps the group in
// the top-level router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/research/projects", h.HandleList)
	r.Post("/research/projects", h.HandleCreate)
	r.Post("/research/projects/{projectID}/decision", h.HandleDecide)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.CreateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	project, err := h.service.Create(ctx, requestcontext.UserID(ctx), &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "project submitted",
		"request_id", requestID,
		"project_id", project.ID.String(),
	)
	httputil.WriteJSON(w, http.StatusCreated, FromProject(*project))
}

func (h *Handler) HandleDecide(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	projectID, err := id.ParseProjectID(chi.URLParam(r, "projectID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[models.DecisionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	project, err := h.service.Decide(ctx, requestcontext.UserID(ctx), projectID, &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "project decided",
		"request_id", requestID,
		"project_id", project.ID.String(),
		"status", string(project.Status),
	)
	httputil.WriteJSON(w, http.StatusOK, FromProject(*project))
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var filter models.ListFilter
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := models.ParseStatus(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		filter.Status = &status
	}
	filter.Mine = r.URL.Query().Get("mine") == "true"

	projects, err := h.service.List(ctx, requestcontext.UserID(ctx), filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]ProjectResponse, 0, len(projects))
	for _, project := range projects {
		out = append(out, FromProject(project))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}
