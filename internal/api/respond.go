package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"tour-booking/internal/booking"
	"tour-booking/internal/payment"
	"tour-booking/internal/storage"
	"tour-booking/internal/validation"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

// respondError maps domain errors onto HTTP statuses. Anything unmapped is
// a 500 with a generic body; the detail goes to the log only.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"message": "Validation failed",
			"errors":  verrs,
		})
		return
	}

	var werr *payment.WebhookError
	if errors.As(err, &werr) {
		h.Log.LogSecurity("WEBHOOK", fmt.Sprintf("Rejected delivery: %s", werr.Internal))
		respondMessage(w, werr.Status, werr.Message)
		return
	}

	switch {
	case errors.Is(err, booking.ErrTourNotFound),
		errors.Is(err, booking.ErrBookingNotFound):
		respondMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, booking.ErrInvalidDate):
		respondMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrCapacityExceeded):
		respondMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, booking.ErrDuplicateRequest):
		respondMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, booking.ErrPaymentFailed):
		respondMessage(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, payment.ErrNotConfigured):
		respondMessage(w, http.StatusBadRequest, "Payment processing is not configured")
	case errors.Is(err, payment.ErrConnection):
		respondMessage(w, http.StatusBadGateway, "Payment provider is unreachable")
	default:
		h.Log.Error("API", fmt.Sprintf("%s %s: %v", r.Method, r.URL.Path, err))
		respondMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeJSON parses a request body, reporting malformed JSON as a field
// error so it maps to a 400.
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return validation.Errors{{Field: "", Message: "Invalid JSON body"}}
	}
	return nil
}
