package handler

import (
	"net/http"

	"github.com/mcoot/numbermaster/internal/api/response"
	"github.com/mcoot/numbermaster/internal/services/coordinator"
)

// StatsHandler serves live coordinator state
type StatsHandler struct {
	coordinator *coordinator.Coordinator
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(coordinator *coordinator.Coordinator) *StatsHandler {
	return &StatsHandler{coordinator: coordinator}
}

// Get handles GET /api/v1/stats
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats := h.coordinator.Stats()
	response.JSON(w, http.StatusOK, response.StatsFromCoordinator(stats, h.coordinator.GracePeriod()))
}
