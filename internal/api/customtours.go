package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"tour-booking/internal/models"
	"tour-booking/internal/validation"
)

func (h *Handler) CreateCustomTour(w http.ResponseWriter, r *http.Request) {
	var payload models.InsertCustomTour
	if err := decodeJSON(r, &payload); err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := validation.Validate(payload); err != nil {
		h.respondError(w, r, err)
		return
	}

	estimate, err := h.Booking.EstimateCustomTour(r.Context(), payload)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	request, err := h.DB.CreateCustomTour(r.Context(), payload, estimate)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, request)
}

func (h *Handler) AdminListCustomTours(w http.ResponseWriter, r *http.Request) {
	requests, err := h.DB.GetCustomTours(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, requests)
}

func (h *Handler) AdminUpdateCustomTour(w http.ResponseWriter, r *http.Request) {
	var payload models.UpdateCustomTour
	if err := decodeJSON(r, &payload); err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := validation.Validate(payload); err != nil {
		h.respondError(w, r, err)
		return
	}

	request, err := h.DB.UpdateCustomTour(r.Context(), chi.URLParam(r, "id"), payload)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if request == nil {
		respondMessage(w, http.StatusNotFound, "Custom tour request not found")
		return
	}
	respondJSON(w, http.StatusOK, request)
}
