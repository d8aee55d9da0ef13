package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"lead-backend/internal/diff"
	"lead-backend/internal/middleware"
	"lead-backend/internal/models"
	"lead-backend/internal/repositories"
	"lead-backend/internal/services"
	"lead-backend/pkg/utils"
)

type BuyerHandler struct {
	Service *services.BuyerService
}

func NewBuyerHandler(s *services.BuyerService) *BuyerHandler {
	return &BuyerHandler{Service: s}
}

// buyerDetailResponse attaches the recent audit trail to the lead.
type buyerDetailResponse struct {
	Buyer   *models.Buyer          `json:"buyer"`
	History []*models.BuyerHistory `json:"history"`
}

type buyerListResponse struct {
	Buyers     []*models.Buyer `json:"buyers"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

type buyerUpdateResponse struct {
	Buyer   *models.Buyer `json:"buyer"`
	Changed []string      `json:"changed_fields"`
	Summary string        `json:"summary,omitempty"`
}

// Create handles POST /api/buyers
func (h *BuyerHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req models.CreateBuyerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	buyer, err := h.Service.Create(r.Context(), &req, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, buyer)
}

// Get handles GET /api/buyers/{id}
func (h *BuyerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid buyer id")
		return
	}

	buyer, history, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, buyerDetailResponse{Buyer: buyer, History: history})
}

// Update handles PUT /api/buyers/{id}. Only the lead's owner or an admin may
// edit it.
func (h *BuyerHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	role, _ := middleware.GetRoleFromContext(r.Context())

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid buyer id")
		return
	}

	var req models.UpdateBuyerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	buyer, changes, err := h.Service.Update(r.Context(), id, &req, userID, role)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := buyerUpdateResponse{Buyer: buyer, Changed: changes.Fields()}
	if len(changes) > 0 {
		resp.Summary = diff.Format(changes)
	}
	utils.JSON(w, http.StatusOK, resp)
}

// List handles GET /api/buyers with search, filters and pagination.
func (h *BuyerHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(q.Get("page_size"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	filter := repositories.ListFilter{
		Search:       q.Get("search"),
		City:         q.Get("city"),
		PropertyType: q.Get("property_type"),
		Status:       q.Get("status"),
		Timeline:     q.Get("timeline"),
		SortAsc:      q.Get("sort") == "asc",
		Page:         page,
		PageSize:     pageSize,
	}

	buyers, total, err := h.Service.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if buyers == nil {
		buyers = []*models.Buyer{}
	}
	utils.JSON(w, http.StatusOK, buyerListResponse{
		Buyers:     buyers,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	})
}

// writeServiceError maps service errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.Error(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, models.ErrNotLeadOwner):
		utils.Error(w, http.StatusForbidden, "you can only edit your own leads")
	case errors.Is(err, models.ErrBuyerNotFound):
		utils.Error(w, http.StatusNotFound, "buyer not found")
	case errors.Is(err, repositories.ErrUserNotFound):
		utils.Error(w, http.StatusNotFound, "user not found")
	default:
		utils.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
