package report

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"btoportal/pkg/platform/httputil"
	"btoportal/pkg/requestcontext"
)

// Handler exposes the manager report queries.
type Handler struct {
	service *Service
}

// NewHandler constructs a report handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts report endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/reports/pending-applications", managerQuery(h.service.PendingApplications))
	r.Get("/reports/withdrawal-requests", managerQuery(h.service.WithdrawalRequests))
	r.Get("/reports/pending-officers", managerQuery(h.service.PendingOfficers))
	r.Get("/reports/booked", h.handleBooked)
	r.Get("/reports/dashboard", h.handleDashboard)
}

// managerQuery adapts the manager-scoped list queries, which all share the
// same shape: acting manager in, rows out.
func managerQuery[T any](op func(ctx context.Context, managerNRIC string) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		rows, err := op(ctx, requestcontext.UserNRIC(ctx))
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		if rows == nil {
			rows = []T{}
		}
		httputil.WriteJSON(w, http.StatusOK, rows)
	}
}

func (h *Handler) handleBooked(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.BookedApplications(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if rows == nil {
		rows = []BookedRow{}
	}
	httputil.WriteJSON(w, http.StatusOK, rows)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	d, err := h.service.DashboardFor(ctx, requestcontext.UserNRIC(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, d)
}
