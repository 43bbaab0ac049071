package project

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"btoportal/pkg/domain"
	dErrors "btoportal/pkg/domain-errors"
	"btoportal/pkg/platform/httputil"
	"btoportal/pkg/requestcontext"
)

// Handler exposes the project registry over HTTP.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs a project handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts project endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/projects", h.handleBrowse)
	r.Get("/projects/{id}", h.handleGet)
	r.Post("/projects", h.handleCreate)
	r.Patch("/projects/{id}", h.handleEdit)
	r.Post("/projects/{id}/visibility", h.handleVisibility)
	r.Post("/projects/{id}/availability", h.handleAvailability)
}

type flatSpec struct {
	FlatType string `json:"flat_type"`
	Units    int    `json:"units"`
	Price    int64  `json:"price"`
}

type createRequest struct {
	Name         string     `json:"name"`
	Neighborhood string     `json:"neighborhood"`
	Flats        []flatSpec `json:"flats"`
	OpenDate     string     `json:"open_date"`
	CloseDate    string     `json:"close_date"`
	OfficerSlots int        `json:"officer_slots"`
}

type editRequest struct {
	Name         string `json:"name"`
	Neighborhood string `json:"neighborhood"`
}

type visibilityRequest struct {
	Visible bool `json:"visible"`
}

type availabilityRequest struct {
	FlatType string `json:"flat_type"`
	Booked   int    `json:"booked"`
}

type flatResponse struct {
	Units int   `json:"units"`
	Price int64 `json:"price"`
}

type projectResponse struct {
	ID           int64                   `json:"id"`
	Name         string                  `json:"name"`
	Neighborhood string                  `json:"neighborhood"`
	Flats        map[string]flatResponse `json:"flats"`
	OpenDate     string                  `json:"open_date,omitempty"`
	CloseDate    string                  `json:"close_date,omitempty"`
	Visible      bool                    `json:"visible"`
	OfficerSlots int                     `json:"officer_slots"`
	Officers     []string                `json:"officers"`
}

func toProjectResponse(p Project) projectResponse {
	resp := projectResponse{
		ID:           p.ID,
		Name:         p.Name,
		Neighborhood: p.Neighborhood,
		Flats:        make(map[string]flatResponse, len(p.Flats)),
		Visible:      p.Visible,
		OfficerSlots: p.OfficerSlots,
		Officers:     p.Officers,
	}
	for ft, info := range p.Flats {
		resp.Flats[ft.String()] = flatResponse{Units: info.Units, Price: info.Price}
	}
	if !p.OpenDate.IsZero() {
		resp.OpenDate = p.OpenDate.Format("2006-01-02")
	}
	if !p.CloseDate.IsZero() {
		resp.CloseDate = p.CloseDate.Format("2006-01-02")
	}
	return resp
}

func (h *Handler) handleBrowse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projects, err := h.service.BrowseFor(ctx, requestcontext.UserNRIC(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectResponse(p))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toProjectResponse(*p))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[createRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	flats := make(map[domain.FlatType]FlatInfo, len(req.Flats))
	for _, f := range req.Flats {
		ft, err := domain.ParseFlatType(f.FlatType)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		flats[ft] = FlatInfo{Units: f.Units, Price: f.Price}
	}

	spec := CreateSpec{
		Name:         req.Name,
		Neighborhood: req.Neighborhood,
		Flats:        flats,
		OpenDate:     parseDate(req.OpenDate),
		CloseDate:    parseDate(req.CloseDate),
		OfficerSlots: req.OfficerSlots,
	}
	p, err := h.service.Create(ctx, requestcontext.UserNRIC(ctx), spec)
	if err != nil {
		h.logger.WarnContext(ctx, "project creation rejected",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toProjectResponse(*p))
}

func (h *Handler) handleEdit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := projectID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[editRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.service.Edit(ctx, requestcontext.UserNRIC(ctx), id, req.Name, req.Neighborhood); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleVisibility(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := projectID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[visibilityRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.service.ToggleVisibility(ctx, requestcontext.UserNRIC(ctx), id, req.Visible); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAvailability(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := projectID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[availabilityRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	ft, err := domain.ParseFlatType(req.FlatType)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.UpdateAvailability(ctx, requestcontext.UserNRIC(ctx), id, ft, req.Booked); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func projectID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid project id"))
		return 0, false
	}
	return id, true
}

func parseDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}
