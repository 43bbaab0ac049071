package enquiry

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	dErrors "btoportal/pkg/domain-errors"
	"btoportal/pkg/platform/httputil"
	"btoportal/pkg/requestcontext"
)

// Handler exposes enquiry endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs an enquiry handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts enquiry endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/enquiries", h.handleSubmit)
	r.Get("/enquiries/mine", h.handleMine)
	r.Get("/enquiries", h.handleListAll)
	r.Delete("/enquiries/{id}", h.handleDelete)
	r.Post("/enquiries/{id}/reply", h.handleReply)
}

type submitRequest struct {
	Message string `json:"message"`
}

type replyRequest struct {
	Response string `json:"response"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[submitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	e, err := h.service.Submit(ctx, requestcontext.UserNRIC(ctx), req.Message)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) handleMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	es, err := h.service.ListMine(ctx, requestcontext.UserNRIC(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if es == nil {
		es = []Enquiry{}
	}
	httputil.WriteJSON(w, http.StatusOK, es)
}

func (h *Handler) handleListAll(w http.ResponseWriter, r *http.Request) {
	es, err := h.service.ListAll(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if es == nil {
		es = []Enquiry{}
	}
	httputil.WriteJSON(w, http.StatusOK, es)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := enquiryID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(ctx, requestcontext.UserNRIC(ctx), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleReply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := enquiryID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[replyRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.service.Reply(ctx, requestcontext.UserNRIC(ctx), id, req.Response); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func enquiryID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid enquiry id"))
		return uuid.Nil, false
	}
	return id, true
}
