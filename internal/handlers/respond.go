package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/researchx-app/researchx-gobackend/internal/services"
)

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError sends the uniform failure envelope {"success":false,"error":msg}.
func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]interface{}{
		"success": false,
		"error":   msg,
	})
}

// writeServiceError maps a service error onto the response taxonomy:
// validation 400, not-found 404, conflict 409, provider errors keep the
// provider's status and message, everything else is a 500 whose detail is
// shown only in development.
func writeServiceError(w http.ResponseWriter, err error, development bool) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, verr.Msg)
		return
	}
	if errors.Is(err, services.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if errors.Is(err, services.ErrConflict) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	var perr *services.ProviderError
	if errors.As(err, &perr) {
		status := perr.Status
		if status < 400 {
			status = http.StatusBadGateway
		}
		writeError(w, status, perr.Message)
		return
	}
	msg := "something went wrong"
	if development {
		msg = err.Error()
	}
	writeError(w, http.StatusInternalServerError, msg)
}
