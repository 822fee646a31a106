package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/researchx-app/researchx-gobackend/internal/services"
)

type PlagiarismHandler struct {
	service     *services.PlagiarismService
	development bool
}

func NewPlagiarismHandler(service *services.PlagiarismService, development bool) *PlagiarismHandler {
	return &PlagiarismHandler{service: service, development: development}
}

type checkRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Detailed bool   `json:"detailed"`
}

type checkResponse struct {
	Success    bool                       `json:"success"`
	Score      float64                    `json:"score"`
	Plagiarism float64                    `json:"plagiarism"`
	Warnings   []string                   `json:"warnings"`
	Language   string                     `json:"language"`
	Matches    []services.PlagiarismMatch `json:"matches,omitempty"`
}

func (h *PlagiarismHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.Check(r.Context(), req.Text, req.Language, req.Detailed)
	if err != nil {
		log.Printf("Plagiarism check failed: %v", err)
		writeServiceError(w, err, h.development)
		return
	}

	writeJSON(w, http.StatusOK, checkResponse{
		Success:    true,
		Score:      result.Score,
		Plagiarism: result.Plagiarism,
		Warnings:   result.Warnings,
		Language:   result.Language,
		Matches:    result.Matches,
	})
}

func (h *PlagiarismHandler) Status(w http.ResponseWriter, r *http.Request) {
	status := h.service.Status(r.Context())

	code := http.StatusOK
	if status == services.StatusUnavailable {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]interface{}{
		"success": status != services.StatusUnavailable,
		"status":  status,
	})
}
