package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"bookforge/internal/domain/models"
	"bookforge/internal/domain/services"
	"bookforge/internal/httputil"
)

// UsageHandler handles usage ledger HTTP requests
type UsageHandler struct {
	service services.UsageService
	logger  *slog.Logger
}

// NewUsageHandler creates a new usage handler
func NewUsageHandler(service services.UsageService, logger *slog.Logger) *UsageHandler {
	return &UsageHandler{
		service: service,
		logger:  logger,
	}
}

// ListUsage lists the caller's most recent usage events
// GET /api/usage?limit=N
func (h *UsageHandler) ListUsage(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			httputil.RespondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	events, err := h.service.ListRecent(r.Context(), ownerID, limit)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, events)
}

// RecordUsage appends a ledger entry for the caller
// POST /api/usage
func (h *UsageHandler) RecordUsage(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)

	var req models.RecordUsageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	event, err := h.service.Record(r.Context(), ownerID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, event)
}
