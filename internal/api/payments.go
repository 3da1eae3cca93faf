package api

import (
	"io"
	"net/http"

	"tour-booking/internal/models"
	"tour-booking/internal/payment"
	"tour-booking/internal/validation"
)

func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req models.PaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := validation.Validate(req); err != nil {
		h.respondError(w, r, err)
		return
	}

	resp, err := h.Booking.Pay(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if !resp.Success {
		respondJSON(w, http.StatusPaymentRequired, resp)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// CloverWebhook accepts provider notifications. The delivery is verified
// against the stored API token before any state change.
func (h *Handler) CloverWebhook(w http.ResponseWriter, r *http.Request) {
	settings, err := h.DB.GetSettings(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if settings == nil || settings.CloverAPIToken == "" {
		h.respondError(w, r, payment.ErrNotConfigured)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid webhook payload")
		return
	}

	event, err := payment.ParseWebhookEvent(body, r.Header.Get("X-Clover-Signature"), settings.CloverAPIToken)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if err := h.Booking.ApplyWebhookEvent(r.Context(), event); err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"received": "true"})
}

// CloverDashboard redirects the admin to the merchant dashboard for the
// configured environment.
func (h *Handler) CloverDashboard(w http.ResponseWriter, r *http.Request) {
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

	http.Redirect(w, r, h.NewClient(cfg).DashboardURL(), http.StatusFound)
}
