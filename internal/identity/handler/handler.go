// Package handler wires the identity endpoints. It delegates to the service
// without embedding business logic so transport concerns remain isolated.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"innoport/internal/identity/models"
	"innoport/internal/identity/service"
	dErrors "innoport/pkg/domain-errors"
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

// Register mounts the auth endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/signup", h.HandleSignUp)
	r.Post("/auth/signin", h.HandleSignIn)
	r.Post("/auth/signout", h.HandleSignOut)
	r.Get("/auth/session", h.HandleSession)
}

func (h *Handler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.SignUpRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	profile, err := h.service.SignUp(ctx, &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "user signed up",
		"request_id", requestID,
		"user_id", profile.UserID.String(),
	)
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{
		"user_id": profile.UserID.String(),
		"name":    profile.Name,
		"email":   profile.Email,
	})
}

func (h *Handler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.SignInRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.SignIn(ctx, &req)
	if err != nil {
		h.logger.WarnContext(ctx, "sign-in rejected",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "user signed in",
		"request_id", requestID,
		"user_id", result.UserID,
	)
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	if err := h.service.SignOut(ctx, userID, requestcontext.JTI(ctx)); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

func (h *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	info, err := h.service.Describe(ctx, requestcontext.UserID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, info)
}
