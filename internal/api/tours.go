package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"tour-booking/internal/models"
	"tour-booking/internal/validation"
)

func (h *Handler) ListTours(w http.ResponseWriter, r *http.Request) {
	tours, err := h.DB.GetTours(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tours)
}

func (h *Handler) GetTour(w http.ResponseWriter, r *http.Request) {
	tour, err := h.DB.GetTour(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if tour == nil {
		respondMessage(w, http.StatusNotFound, "Tour not found")
		return
	}
	respondJSON(w, http.StatusOK, tour)
}

func (h *Handler) AdminListTours(w http.ResponseWriter, r *http.Request) {
	tours, err := h.DB.GetAllTours(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tours)
}

func (h *Handler) AdminCreateTour(w http.ResponseWriter, r *http.Request) {
	var payload models.InsertTour
	if err := decodeJSON(r, &payload); err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := validation.Validate(payload); err != nil {
		h.respondError(w, r, err)
		return
	}

	tour, err := h.DB.CreateTour(r.Context(), payload)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, tour)
}

func (h *Handler) AdminUpdateTour(w http.ResponseWriter, r *http.Request) {
	var payload models.InsertTour
	if err := decodeJSON(r, &payload); err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := validation.Validate(payload); err != nil {
		h.respondError(w, r, err)
		return
	}

	tour, err := h.DB.UpdateTour(r.Context(), chi.URLParam(r, "id"), payload)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if tour == nil {
		respondMessage(w, http.StatusNotFound, "Tour not found")
		return
	}
	respondJSON(w, http.StatusOK, tour)
}

func (h *Handler) AdminDeleteTour(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	tour, err := h.DB.GetTour(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if tour == nil {
		respondMessage(w, http.StatusNotFound, "Tour not found")
		return
	}

	if err := h.DB.DeleteTour(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Tour deactivated"})
}
