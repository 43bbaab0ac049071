package officer

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"btoportal/pkg/platform/httputil"
	"btoportal/pkg/requestcontext"
)

// Handler exposes officer registration endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs an officer registration handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts registration endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/officer-registrations", h.handleRegister)
	r.Post("/officer-registrations/{nric}/approve", h.handleApprove)
	r.Post("/officer-registrations/{nric}/reject", h.handleReject)
}

type registerRequest struct {
	ProjectID int64 `json:"project_id"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[registerRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := h.service.Register(ctx, requestcontext.UserNRIC(ctx), req.ProjectID); err != nil {
		h.logger.WarnContext(ctx, "officer registration rejected",
			"request_id", requestID,
			"project_id", req.ProjectID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	officerNRIC := chi.URLParam(r, "nric")
	if err := h.service.Approve(ctx, requestcontext.UserNRIC(ctx), officerNRIC); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	officerNRIC := chi.URLParam(r, "nric")
	if err := h.service.Reject(ctx, requestcontext.UserNRIC(ctx), officerNRIC); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
