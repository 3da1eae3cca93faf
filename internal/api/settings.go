package api

import (
	"net/http"
	"strings"

	"tour-booking/internal/models"
	"tour-booking/internal/payment"
	"tour-booking/internal/validation"
)

// maskToken hides all but the last four characters of a stored credential.
func maskToken(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
}

func maskedSettings(s *models.Settings) map[string]interface{} {
	return map[string]interface{}{
		"id":                  s.ID,
		"cloverAppId":         s.CloverAppID,
		"cloverApiToken":      maskToken(s.CloverAPIToken),
		"cloverEnvironment":   s.CloverEnvironment,
		"businessName":        s.BusinessName,
		"contactEmail":        s.ContactEmail,
		"phoneNumber":         s.PhoneNumber,
		"taxRate":             s.TaxRate,
		"defaultTourDuration": s.DefaultTourDuration,
		"maxGroupSize":        s.MaxGroupSize,
		"advanceBookingDays":  s.AdvanceBookingDays,
		"updatedAt":           s.UpdatedAt,
		"configured":          s.CloverAPIToken != "" && s.CloverAppID != "",
	}
}

func (h *Handler) AdminGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.DB.GetSettings(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if settings == nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{"configured": false})
		return
	}
	respondJSON(w, http.StatusOK, maskedSettings(settings))
}

func (h *Handler) AdminUpsertSettings(w http.ResponseWriter, r *http.Request) {
	var payload models.UpsertSettings
	if err := decodeJSON(r, &payload); err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := validation.Validate(payload); err != nil {
		h.respondError(w, r, err)
		return
	}

	// A masked or omitted token means "keep what is stored"; the dashboard
	// round-trips the masked value it was shown.
	if payload.CloverAPIToken == "" || strings.Contains(payload.CloverAPIToken, "*") {
		existing, err := h.DB.GetSettings(r.Context())
		if err != nil {
			h.respondError(w, r, err)
			return
		}
		if existing != nil {
			payload.CloverAPIToken = existing.CloverAPIToken
		} else {
			payload.CloverAPIToken = ""
		}
	}

	settings, err := h.DB.UpsertSettings(r.Context(), payload)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, maskedSettings(settings))
}

// AdminTestConnection runs the structural credential check and then a live
// provider round trip with the stored credentials.
func (h *Handler) AdminTestConnection(w http.ResponseWriter, r *http.Request) {
	settings, err := h.DB.GetSettings(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	cfg, ok := payment.ConfigFromSettings(settings)
	if !ok {
		h.respondError(w, r, payment.ErrNotConfigured)
		return
	}

	client := h.NewClient(cfg)
	if check := client.ValidateCredentials(); !check.Valid {
		respondJSON(w, http.StatusOK, check)
		return
	}

	if err := client.TestConnection(r.Context()); err != nil {
		h.Log.Warn("PAYMENT", "Clover connection test failed")
		respondJSON(w, http.StatusOK, models.CredentialCheck{Valid: false, Error: "Connection test failed"})
		return
	}
	respondJSON(w, http.StatusOK, models.CredentialCheck{Valid: true})
}
