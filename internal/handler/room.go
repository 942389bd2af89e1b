package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Shivanand-hulikatti/hotel-booking/internal/model"
	"github.com/Shivanand-hulikatti/hotel-booking/internal/service"
)

const maxPhotoSize = 10 << 20

// RoomHandler serves the /rooms endpoints.
type RoomHandler struct {
	rooms    *service.RoomService
	bookings *service.BookingService
}

// NewRoomHandler constructs a RoomHandler.
func NewRoomHandler(rooms *service.RoomService, bookings *service.BookingService) *RoomHandler {
	return &RoomHandler{rooms: rooms, bookings: bookings}
}

// AddRoom handles POST /rooms
// Multipart form with photo, room_type and room_price.
func (h *RoomHandler) AddRoom(w http.ResponseWriter, r *http.Request) {
	req, err := parseRoomForm(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	room, err := h.rooms.Add(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

// UpdateRoom handles PUT /rooms/{id}
// Every form field is optional.
func (h *RoomHandler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	req, err := parseRoomForm(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	room, err := h.rooms.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

// DeleteRoom handles DELETE /rooms/{id}
func (h *RoomHandler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	if err := h.rooms.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListRooms handles GET /rooms
func (h *RoomHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.rooms.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

// GetRoom handles GET /rooms/{id}
func (h *RoomHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.rooms.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

// RoomTypes handles GET /rooms/types
func (h *RoomHandler) RoomTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.rooms.RoomTypes(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types)
}

// RoomPhoto handles GET /rooms/{id}/photo
// Responds with the raw image bytes.
func (h *RoomHandler) RoomPhoto(w http.ResponseWriter, r *http.Request) {
	photo, err := h.rooms.Photo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(photo))
	w.Header().Set("Content-Length", strconv.Itoa(len(photo)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(photo)
}

// RoomBookings handles GET /rooms/{id}/bookings
func (h *RoomHandler) RoomBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.rooms.Bookings(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// AvailableRooms handles GET /rooms/available
// Query: check_in_date, check_out_date (YYYY-MM-DD) and optional room_type.
func (h *RoomHandler) AvailableRooms(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	checkIn, err := model.ParseDate(q.Get("check_in_date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "check_in_date: "+err.Error())
		return
	}
	checkOut, err := model.ParseDate(q.Get("check_out_date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "check_out_date: "+err.Error())
		return
	}

	rooms, err := h.rooms.Available(r.Context(), checkIn, checkOut, q.Get("room_type"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

// BookRoom handles POST /rooms/{id}/bookings
// Books the room and returns the confirmation code.
func (h *RoomHandler) BookRoom(w http.ResponseWriter, r *http.Request) {
	var req model.BookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	b, err := h.bookings.Create(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, model.BookingConfirmation{
		Message:          "Room booked successfully, your booking confirmation code is: " + b.ConfirmationCode,
		BookingID:        b.ID,
		ConfirmationCode: b.ConfirmationCode,
	})
}

func parseRoomForm(w http.ResponseWriter, r *http.Request) (model.RoomRequest, error) {
	var req model.RoomRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize+(1<<20))
	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		return req, fmt.Errorf("invalid multipart form: %w", err)
	}

	if v, ok := formValue(r, "room_type"); ok {
		req.RoomType = &v
	}
	if v, ok := formValue(r, "room_price"); ok {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return req, fmt.Errorf("room_price must be a number")
		}
		req.RoomPrice = &price
	}

	file, _, err := r.FormFile("photo")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		return req, fmt.Errorf("invalid photo: %w", err)
	default:
		defer file.Close()
		photo, err := io.ReadAll(file)
		if err != nil {
			return req, fmt.Errorf("read photo: %w", err)
		}
		req.Photo = photo
	}
	return req, nil
}

func formValue(r *http.Request, key string) (string, bool) {
	vals, ok := r.MultipartForm.Value[key]
	if !ok || len(vals) == 0 || strings.TrimSpace(vals[0]) == "" {
		return "", false
	}
	return strings.TrimSpace(vals[0]), true
}
