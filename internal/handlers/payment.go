package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/researchx-app/researchx-gobackend/internal/services"
)

type PaymentHandler struct {
	service     *services.PaymentService
	development bool
}

func NewPaymentHandler(service *services.PaymentService, development bool) *PaymentHandler {
	return &PaymentHandler{service: service, development: development}
}

func (h *PaymentHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["projectID"]
	if projectID == "" {
		writeError(w, http.StatusBadRequest, "project id is required")
		return
	}

	result, err := h.service.Initiate(r.Context(), projectID)
	if err != nil {
		log.Printf("Failed to initiate payment for project %s: %v", projectID, err)
		writeServiceError(w, err, h.development)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":           true,
		"authorization_url": result.AuthorizationURL,
		"reference":         result.Reference,
		"fee":               result.Fee,
		"total":             result.Total,
	})
}

type verifyRequest struct {
	Reference string `json:"reference"`
}

func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["projectID"]
	if projectID == "" {
		writeError(w, http.StatusBadRequest, "project id is required")
		return
	}

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	project, err := h.service.Verify(r.Context(), projectID, req.Reference)
	if err != nil {
		log.Printf("Failed to verify payment for project %s: %v", projectID, err)
		writeServiceError(w, err, h.development)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"payment_status": project.PaymentStatus,
		"project":        project,
	})
}
