package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/careflow/appointment-booking/internal/appointment"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}

// writeDomainError maps a service error onto an HTTP response by its
// kind tag, never by message text.
func writeDomainError(w http.ResponseWriter, err error) {
	switch appointment.KindOf(err) {
	case appointment.KindValidation:
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case appointment.KindBusinessRule:
		writeError(w, http.StatusConflict, "business_rule_violation", err.Error())
	case appointment.KindNotFound:
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
