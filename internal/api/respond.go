package api

import (
	"encoding/json"
	"net/http"

	"barberbook/internal/booking"
)

type errorBody struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorBody{Error: message})
}

// respondBookingError maps the booking error taxonomy onto HTTP statuses.
// Transient store failures surface as 502 so clients know to retry.
func respondBookingError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	switch booking.KindOf(err) {
	case booking.KindValidation:
		status = http.StatusUnprocessableEntity
	case booking.KindConflict:
		status = http.StatusConflict
	case booking.KindRateLimit:
		status = http.StatusTooManyRequests
	}
	respondError(w, status, err.Error())
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}
