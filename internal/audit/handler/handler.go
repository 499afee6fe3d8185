// Package handler serves the audit trail endpoint.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"modqueue/internal/audit"
	auditstore "modqueue/internal/audit/store"
	"modqueue/internal/listing/service"
	"modqueue/internal/platform/middleware"
	"modqueue/pkg/platform/httputil"
)

// Service defines the audit read operation the HTTP layer needs.
type Service interface {
	QueryAudit(ctx context.Context, page, limit int) (service.AuditPage, error)
}

// Handler serves GET /api/audit.
type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: svc}
}

// Register mounts the audit route on r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/audit", h.handleList)
}

type paginationBody struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

type listResponse struct {
	Logs       []audit.Event  `json:"logs"`
	Pagination paginationBody `json:"pagination"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = auditstore.DefaultLimit
	}

	result, err := h.service.QueryAudit(r.Context(), page, limit)
	if err != nil {
		ctx := r.Context()
		h.logger.ErrorContext(ctx, "failed to query audit trail",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	logs := result.Items
	if logs == nil {
		logs = []audit.Event{}
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{
		Logs: logs,
		Pagination: paginationBody{
			CurrentPage:  page,
			TotalPages:   result.TotalPages,
			TotalItems:   result.TotalItems,
			ItemsPerPage: limit,
		},
	})
}
