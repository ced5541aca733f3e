// Package handler exposes investor interest over the startup routes.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"innoport/internal/interest/models"
	"innoport/internal/interest/service"
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
	r.Post("/startups/{startupID}/interest", h.HandleExpress)
	r.Get("/startups/{startupID}/interest", h.HandleList)
}

func (h *Handler) HandleExpress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	startupID, err := id.ParseStartupID(chi.URLParam(r, "startupID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[models.ExpressRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	target := models.Target{Type: models.TargetStartup, ID: startupID.String()}
	record, err := h.service.Express(ctx, requestcontext.UserID(ctx), target, &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "interest expressed",
		"request_id", requestID,
		"startup_id", startupID.String(),
	)
	httputil.WriteJSON(w, http.StatusCreated, FromInterest(*record))
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	startupID, err := id.ParseStartupID(chi.URLParam(r, "startupID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	target := models.Target{Type: models.TargetStartup, ID: startupID.String()}
	records, err := h.service.List(ctx, target)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]InterestResponse, 0, len(records))
	for _, record := range records {
		out = append(out, FromInterest(record))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// InterestResponse is the wire shape for one interest record.
type InterestResponse struct {
	ID         string    `json:"id"`
	InvestorID string    `json:"investor_id"`
	TargetType string    `json:"target_type"`
	TargetID   string    `json:"target_id"`
	Amount     *float64  `json:"amount,omitempty"`
	Message    string    `json:"message,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func FromInterest(i models.Interest) InterestResponse {
	return InterestResponse{
		ID:         i.ID.String(),
		InvestorID: i.InvestorID.String(),
		TargetType: string(i.TargetType),
		TargetID:   i.TargetID,
		Amount:     i.Amount,
		Message:    i.Message,
		CreatedAt:  i.CreatedAt,
	}
}
