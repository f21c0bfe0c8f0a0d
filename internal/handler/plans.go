package handler

import (
	"log/slog"
	"net/http"

	"bookforge/internal/httputil"
	"bookforge/internal/plans"
)

// PlansHandler exposes the read-only subscription tier registry
type PlansHandler struct {
	registry *plans.Registry
	logger   *slog.Logger
}

// NewPlansHandler creates a new plans handler
func NewPlansHandler(registry *plans.Registry, logger *slog.Logger) *PlansHandler {
	return &PlansHandler{
		registry: registry,
		logger:   logger,
	}
}

// ListPlans lists all subscription tiers
// GET /api/plans
func (h *PlansHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.registry.List())
}
