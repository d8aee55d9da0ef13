package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"lead-backend/internal/models"
	"lead-backend/internal/services"
	"lead-backend/pkg/utils"
)

type AuthHandler struct {
	Service *services.UserService
}

func NewAuthHandler(s *services.UserService) *AuthHandler {
	return &AuthHandler{Service: s}
}

// Signup handles user registration
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	authResp, err := h.Service.Signup(r.Context(), &req)
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
		utils.Error(w, http.StatusInternalServerError, "signup failed")
		return
	}

	utils.JSON(w, http.StatusCreated, authResp)
}

// Login handles user authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	authResp, err := h.Service.Login(r.Context(), &req, getIPAddress(r), r.UserAgent())
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) || errors.Is(err, services.ErrAccountDisabled) {
			utils.Error(w, http.StatusUnauthorized, err.Error())
			return
		}
		utils.Error(w, http.StatusInternalServerError, "login failed")
		return
	}

	utils.JSON(w, http.StatusOK, authResp)
}

// getIPAddress extracts the real IP address from the request
func getIPAddress(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs, take the first one
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		ips := strings.Split(forwarded, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	realIP := r.Header.Get("X-Real-IP")
	if realIP != "" {
		return realIP
	}

	return r.RemoteAddr
}
