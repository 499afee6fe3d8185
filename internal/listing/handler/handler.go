// Package handler is the thin HTTP layer over the moderation workflow. It
// decodes requests, delegates to the service, and renders responses; no
// business logic lives here.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"modqueue/internal/listing/models"
	"modqueue/internal/listing/query"
	"modqueue/internal/platform/middleware"
	dErrors "modqueue/pkg/domain-errors"
	"modqueue/pkg/platform/httputil"
	"modqueue/pkg/requestcontext"
)

// Service defines the workflow operations the HTTP layer needs.
type Service interface {
	Create(ctx context.Context, fields models.Fields) (models.Listing, error)
	Get(ctx context.Context, id int) (models.Listing, error)
	Query(ctx context.Context, params query.Params) (query.Result, error)
	Edit(ctx context.Context, id int, upd models.Update, adminUser string) (models.Listing, error)
	ChangeStatus(ctx context.Context, id int, newStatus, adminUser string) (models.Listing, error)
}

// Handler serves the /api/listings endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: svc}
}

// Register mounts the listing routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/listings", h.handleList)
	r.Post("/api/listings", h.handleCreate)
	r.Get("/api/listings/{id}", h.handleGet)
	r.Put("/api/listings/{id}", h.handleEdit)
	r.Patch("/api/listings/{id}", h.handleChangeStatus)
}

// pagination mirrors the envelope the dashboard consumes.
type paginationBody struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

type listResponse struct {
	Listings   []models.Listing `json:"listings"`
	Pagination paginationBody   `json:"pagination"`
	Stats      query.Stats      `json:"stats"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = query.DefaultLimit
	}

	result, err := h.service.Query(r.Context(), query.Params{
		Status: q.Get("status"),
		Search: q.Get("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		h.logError(r, "failed to query listings", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, listResponse{
		Listings: result.Items,
		Pagination: paginationBody{
			CurrentPage:  page,
			TotalPages:   result.TotalPages,
			TotalItems:   result.TotalItems,
			ItemsPerPage: limit,
		},
		Stats: result.Stats,
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var fields models.Fields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	listing, err := h.service.Create(r.Context(), fields)
	if err != nil {
		h.logError(r, "failed to create listing", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, listing)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.listingID(w, r)
	if !ok {
		return
	}

	listing, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listing)
}

type editRequest struct {
	models.Update
	AdminUser string `json:"adminUser"`
}

func (h *Handler) handleEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.listingID(w, r)
	if !ok {
		return
	}

	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	listing, err := h.service.Edit(r.Context(), id, req.Update, h.actingUser(r, req.AdminUser))
	if err != nil {
		h.logError(r, "failed to edit listing", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listing)
}

type statusRequest struct {
	Status    string `json:"status"`
	AdminUser string `json:"adminUser"`
}

func (h *Handler) handleChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.listingID(w, r)
	if !ok {
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.Status == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "status is required"))
		return
	}

	listing, err := h.service.ChangeStatus(r.Context(), id, req.Status, h.actingUser(r, req.AdminUser))
	if err != nil {
		h.logError(r, "failed to change listing status", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listing)
}

// listingID parses the {id} route parameter, rejecting non-numeric ids.
func (h *Handler) listingID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid or missing id"))
		return 0, false
	}
	return id, true
}

// actingUser prefers the identity in the request body (what the dashboard
// sends), falling back to the authenticated reviewer.
func (h *Handler) actingUser(r *http.Request, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	return requestcontext.AdminUser(r.Context())
}

func (h *Handler) logError(r *http.Request, msg string, err error) {
	ctx := r.Context()
	if dErrors.Is(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, msg,
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		return
	}
	h.logger.WarnContext(ctx, msg,
		"request_id", middleware.GetRequestID(ctx),
		"error", err.Error(),
	)
}
