package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"lead-backend/internal/models"
	"lead-backend/internal/services"
	"lead-backend/pkg/utils"
)

// UserHandler covers the admin-only account management endpoints.
type UserHandler struct {
	Service *services.UserService
}

func NewUserHandler(s *services.UserService) *UserHandler {
	return &UserHandler{Service: s}
}

// List handles GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListUsers(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	utils.JSON(w, http.StatusOK, users)
}

// Create handles POST /api/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Service.CreateUser(r.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			utils.Error(w, http.StatusConflict, err.Error())
			return
		}
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			utils.Error(w, http.StatusBadRequest, verr.Error())
			return
		}
		utils.Error(w, http.StatusInternalServerError, "failed to create user")
		return
	}
	utils.JSON(w, http.StatusCreated, user)
}

// SetActive handles PUT /api/users/{id}/active
func (h *UserHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.SetActive(r.Context(), id, req.IsActive); err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]bool{"is_active": req.IsActive})
}

// LoginLogs handles GET /api/users/login-logs
func (h *UserHandler) LoginLogs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	logs, err := h.Service.LoginLogs(r.Context(), limit)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "failed to list login logs")
		return
	}
	if logs == nil {
		logs = []*models.LoginLog{}
	}
	utils.JSON(w, http.StatusOK, logs)
}
