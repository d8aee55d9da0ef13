package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"lead-backend/internal/models"
	"lead-backend/internal/services"
	"lead-backend/pkg/utils"
)

// BuyerHistoryHandler serves the audit trail views.
type BuyerHistoryHandler struct {
	Service *services.BuyerService
}

func NewBuyerHistoryHandler(s *services.BuyerService) *BuyerHistoryHandler {
	return &BuyerHistoryHandler{Service: s}
}

// ByBuyer handles GET /api/buyers/{id}/history?limit=N
func (h *BuyerHistoryHandler) ByBuyer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid buyer id")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.Service.History(r.Context(), id, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if entries == nil {
		entries = []*models.BuyerHistory{}
	}
	utils.JSON(w, http.StatusOK, entries)
}

// All handles GET /api/history for the admin audit view.
func (h *BuyerHistoryHandler) All(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.Service.AllHistory(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if entries == nil {
		entries = []*models.BuyerHistory{}
	}
	utils.JSON(w, http.StatusOK, entries)
}
