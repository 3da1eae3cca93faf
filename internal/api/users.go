package api

import (
	"net/http"

	"tour-booking/internal/auth"
)

// CurrentUser returns the stored user row for the authenticated caller.
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.DB.GetUser(r.Context(), id.UserID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if user == nil {
		respondMessage(w, http.StatusNotFound, "User not found")
		return
	}
	respondJSON(w, http.StatusOK, user)
}
