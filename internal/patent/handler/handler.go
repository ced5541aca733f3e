// Package handler exposes the IPR patent endpoints.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"innoport/internal/patent/models"
	"innoport/internal/patent/service"
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

func (h *Handler) Register(r chi.Router) {
	r.Get("/ipr/patents", h.HandleList)
	r.Post("/ipr/patents", h.HandleCreate)
	r.Post("/ipr/patents/{patentID}/status", h.HandleSetStatus)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.CreateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	patent, err := h.service.Create(ctx, requestcontext.UserID(ctx), &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "patent filed",
		"request_id", requestID,
		"patent_id", patent.ID.String(),
	)
	httputil.WriteJSON(w, http.StatusCreated, FromPatent(*patent))
}

func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	patentID, err := id.ParsePatentID(chi.URLParam(r, "patentID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[models.StatusRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	patent, err := h.service.SetStatus(ctx, requestcontext.UserID(ctx), patentID, &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "patent status changed",
		"request_id", requestID,
		"patent_id", patent.ID.String(),
		"status", string(patent.Status),
	)
	httputil.WriteJSON(w, http.StatusOK, FromPatent(*patent))
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

	patents, err := h.service.List(ctx, requestcontext.UserID(ctx), filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]PatentResponse, 0, len(patents))
	for _, patent := range patents {
		out = append(out, FromPatent(patent))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}
