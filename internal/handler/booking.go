package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Shivanand-hulikatti/hotel-booking/internal/auth"
	"github.com/Shivanand-hulikatti/hotel-booking/internal/service"
)

// BookingHandler serves the /bookings endpoints.
type BookingHandler struct {
	bookings *service.BookingService
	policy   *auth.Policy
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(bookings *service.BookingService, policy *auth.Policy) *BookingHandler {
	return &BookingHandler{bookings: bookings, policy: policy}
}

// ListBookings handles GET /bookings
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookings.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// ByConfirmationCode handles GET /bookings/confirmation/{code}
func (h *BookingHandler) ByConfirmationCode(w http.ResponseWriter, r *http.Request) {
	b, err := h.bookings.ByConfirmationCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// ByGuestEmail handles GET /bookings/user/{email}
// Guests may only list their own bookings.
func (h *BookingHandler) ByGuestEmail(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	ok, err := selfOrAllowed(r, h.policy, email, auth.ResourceBooking, auth.ActionList)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !ok {
		writeError(w, http.StatusForbidden, "you may only view your own bookings")
		return
	}

	bookings, err := h.bookings.ByGuestEmail(r.Context(), email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// CancelBooking handles DELETE /bookings/{id}
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	if err := h.bookings.Cancel(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
