package application

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"btoportal/pkg/domain"
	dErrors "btoportal/pkg/domain-errors"
	"btoportal/pkg/platform/httputil"
	"btoportal/pkg/requestcontext"
)

// Handler wires application lifecycle endpoints to the service.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs an application handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts application endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/applications", h.handleApply)
	r.Get("/applications/mine", h.handleMine)
	r.Post("/applications/{id}/approve", h.decision(h.service.Approve))
	r.Post("/applications/{id}/reject", h.decision(h.service.Reject))
	r.Post("/applications/{id}/withdrawal", h.decision(h.service.RequestWithdrawal))
	r.Post("/applications/{id}/withdrawal/approve", h.decision(h.service.ApproveWithdrawal))
	r.Post("/applications/{id}/withdrawal/reject", h.decision(h.service.RejectWithdrawal))
	r.Post("/applications/{id}/book", h.decision(h.service.Book))
	r.Get("/applications/{id}/receipt", h.handleReceipt)
}

type applyRequest struct {
	ProjectID int64  `json:"project_id"`
	FlatType  string `json:"flat_type"`
}

type applicationResponse struct {
	ID                  uuid.UUID       `json:"id"`
	ProjectID           int64           `json:"project_id"`
	FlatType            domain.FlatType `json:"flat_type"`
	Status              Status          `json:"status"`
	WithdrawalRequested bool            `json:"withdrawal_requested"`
}

func toResponse(app Application) applicationResponse {
	return applicationResponse{
		ID:                  app.ID,
		ProjectID:           app.ProjectID,
		FlatType:            app.FlatType,
		Status:              app.Status,
		WithdrawalRequested: app.WithdrawalRequested,
	}
}

func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	nric := requestcontext.UserNRIC(ctx)

	req, ok := httputil.DecodeAndPrepare[applyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	ft, err := domain.ParseFlatType(req.FlatType)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	app, err := h.service.Apply(ctx, nric, req.ProjectID, ft)
	if err != nil {
		h.logger.WarnContext(ctx, "application rejected",
			"request_id", requestID,
			"project_id", req.ProjectID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toResponse(*app))
}

func (h *Handler) handleMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	apps, err := h.service.StatusFor(ctx, requestcontext.UserNRIC(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out := make([]applicationResponse, 0, len(apps))
	for _, app := range apps {
		out = append(out, toResponse(app))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// decision adapts the transition methods, which all share the same shape:
// acting user plus application ID, success or coded failure.
func (h *Handler) decision(op func(ctx context.Context, actorNRIC string, appID uuid.UUID) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		appID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid application id"))
			return
		}
		if err := op(ctx, requestcontext.UserNRIC(ctx), appID); err != nil {
			httputil.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) handleReceipt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid application id"))
		return
	}
	receipt, err := h.service.GenerateReceipt(ctx, requestcontext.UserNRIC(ctx), appID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, receipt)
}
