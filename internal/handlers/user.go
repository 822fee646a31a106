package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/researchx-app/researchx-gobackend/internal/services"
)

// UserHandler serves the legacy local signup/login endpoints kept for
// clients that have not moved to the external auth provider.
type UserHandler struct {
	service     *services.UserService
	development bool
}

func NewUserHandler(service *services.UserService, development bool) *UserHandler {
	return &UserHandler{service: service, development: development}
}

func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.service.Signup(r.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		log.Printf("Legacy signup failed: %v", err)
		writeServiceError(w, err, h.development)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"id":      id,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, user, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Printf("Legacy login failed for %s: %v", req.Email, err)
		writeServiceError(w, err, h.development)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   token,
		"user":    user,
	})
}
