package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"btoportal/pkg/platform/httputil"
	"btoportal/pkg/requestcontext"
)

// Handler exposes login and credential endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs an auth handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterPublic mounts the unauthenticated login endpoint.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
}

// Register mounts the authenticated credential endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/password", h.handleChangePassword)
}

type loginRequest struct {
	NRIC     string `json:"nric"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type changePasswordRequest struct {
	NewPassword string `json:"new_password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[loginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	token, err := h.service.Login(ctx, req.NRIC, req.Password)
	if err != nil {
		h.logger.WarnContext(ctx, "login failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, loginResponse{Token: token})
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[changePasswordRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.service.ChangePassword(ctx, requestcontext.UserNRIC(ctx), req.NewPassword); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
