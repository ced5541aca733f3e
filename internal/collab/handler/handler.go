// Package handler exposes the collaboration request endpoints.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"innoport/internal/collab/models"
	"innoport/internal/collab/service"
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
	r.Get("/collaboration/requests", h.HandleList)
	r.Post("/collaboration/requests", h.HandleCreate)
	r.Post("/collaboration/requests/{collabID}/respond", h.HandleRespond)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.CreateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	collab, err := h.service.Create(ctx, requestcontext.UserID(ctx), &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "collaboration requested",
		"request_id", requestID,
		"collab_id", collab.ID.String(),
	)
	httputil.WriteJSON(w, http.StatusCreated, FromCollaboration(*collab))
}

func (h *Handler) HandleRespond(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	collabID, err := id.ParseCollabID(chi.URLParam(r, "collabID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[models.RespondRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	collab, err := h.service.Respond(ctx, requestcontext.UserID(ctx), collabID, &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "collaboration responded",
		"request_id", requestID,
		"collab_id", collab.ID.String(),
		"status", string(collab.Status),
	)
	httputil.WriteJSON(w, http.StatusOK, FromCollaboration(*collab))
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	side := models.SideReceived
	if r.URL.Query().Get("side") == string(models.SideSent) {
		side = models.SideSent
	}

	collabs, err := h.service.List(ctx, requestcontext.UserID(ctx), side)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]CollaborationResponse, 0, len(collabs))
	for _, collab := range collabs {
		out = append(out, FromCollaboration(collab))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// CollaborationResponse is the wire shape for one collaboration request.
type CollaborationResponse struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	RequesterID string    `json:"requester_id"`
	ReceiverID  string    `json:"receiver_id"`
	Message     string    `json:"message,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func FromCollaboration(c models.Collaboration) CollaborationResponse {
	return CollaborationResponse{
		ID:          c.ID.String(),
		ProjectID:   c.ProjectID.String(),
		RequesterID: c.RequesterID.String(),
		ReceiverID:  c.ReceiverID.String(),
		Message:     c.Message,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
