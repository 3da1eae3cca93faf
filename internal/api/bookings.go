package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tour-booking/internal/booking"
	"tour-booking/internal/models"
	"tour-booking/internal/validation"
)

// CreateBooking is the public storefront entry point. With card details it
// runs the full checkout; without them it stores a pending booking.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var payload models.InsertBooking
	if err := decodeJSON(r, &payload); err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := validation.Validate(payload); err != nil {
		h.respondError(w, r, err)
		return
	}

	b, err := h.Booking.Create(r.Context(), payload)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, b)
}

// CheckAvailability returns a capacity summary for the date. The endpoint
// is public, so it exposes aggregate counts only, never the day's booking
// records with customer contact details.
func (h *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	date, err := booking.ParseBookingDate(chi.URLParam(r, "date"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	info, err := h.Booking.CheckAvailability(r.Context(), date)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}

// AdminListBookings lists all bookings, optionally narrowed to an inclusive
// booking-date window via ?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *Handler) AdminListBookings(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from != "" && to != "" {
		start, err := booking.ParseBookingDate(from)
		if err != nil {
			h.respondError(w, r, err)
			return
		}
		end, err := booking.ParseBookingDate(to)
		if err != nil {
			h.respondError(w, r, err)
			return
		}
		bookings, err := h.DB.GetBookingsByDateRange(r.Context(), start, end.Add(24*time.Hour-time.Nanosecond))
		if err != nil {
			h.respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, bookings)
		return
	}

	bookings, err := h.DB.GetBookings(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, bookings)
}

// AdminCreateBooking records a phone or walk-in booking as confirmed and
// paid; payment is collected out of band.
func (h *Handler) AdminCreateBooking(w http.ResponseWriter, r *http.Request) {
	var payload models.InsertBooking
	if err := decodeJSON(r, &payload); err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := validation.Validate(payload); err != nil {
		h.respondError(w, r, err)
		return
	}

	b, err := h.Booking.AdminCreate(r.Context(), payload)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, b)
}

func (h *Handler) AdminBookingCheckIn(w http.ResponseWriter, r *http.Request) {
	png, err := h.Booking.CheckInQR(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
