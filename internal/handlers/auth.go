package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/researchx-app/researchx-gobackend/internal/services"
)

type AuthHandler struct {
	service     *services.AuthService
	development bool
}

func NewAuthHandler(service *services.AuthService, development bool) *AuthHandler {
	return &AuthHandler{service: service, development: development}
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullname"`
}

// Signup forwards the credentials to the external auth provider and returns
// its user object.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.service.Signup(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		log.Printf("Signup failed: %v", err)
		writeServiceError(w, err, h.development)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}
