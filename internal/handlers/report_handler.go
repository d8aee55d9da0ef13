package handlers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"lead-backend/internal/services"
	"lead-backend/pkg/utils"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(s *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: s}
}

// BuyerPDF handles GET /api/buyers/{id}/pdf
func (h *ReportHandler) BuyerPDF(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid buyer id")
		return
	}

	data, err := h.Service.BuyerProfilePDF(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "lead-"+id.String()+".pdf"))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
