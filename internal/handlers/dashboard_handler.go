package handlers

import (
	"net/http"

	"lead-backend/internal/services"
	"lead-backend/pkg/utils"
)

type DashboardHandler struct {
	Service *services.DashboardService
}

func NewDashboardHandler(s *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{Service: s}
}

// Stats handles GET /api/dashboard
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	utils.JSON(w, http.StatusOK, stats)
}
