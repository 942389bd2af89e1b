package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Shivanand-hulikatti/hotel-booking/internal/availability"
	"github.com/Shivanand-hulikatti/hotel-booking/internal/model"
	"github.com/Shivanand-hulikatti/hotel-booking/internal/repository"
)

// RoomService manages rooms, their photos and availability search.
type RoomService struct {
	rooms    RoomStore
	bookings BookingStore
	photos   PhotoCache
	log      logrus.FieldLogger
}

// NewRoomService constructs a RoomService. photos may be nil.
func NewRoomService(rooms RoomStore, bookings BookingStore, photos PhotoCache, log logrus.FieldLogger) *RoomService {
	if photos == nil {
		photos = noCache{}
	}
	return &RoomService{
		rooms:    rooms,
		bookings: bookings,
		photos:   photos,
		log:      log.WithField("service", "rooms"),
	}
}

// Add creates a room. Type, a positive price and a photo are required.
func (s *RoomService) Add(ctx context.Context, req model.RoomRequest) (*model.RoomResponse, error) {
	ctx, span := tracer().Start(ctx, "RoomService.Add")
	defer span.End()

	if req.RoomType == nil || strings.TrimSpace(*req.RoomType) == "" {
		return nil, newError(ErrValidation, "room_type is required")
	}
	if req.RoomPrice == nil {
		return nil, newError(ErrValidation, "room_price is required")
	}
	if err := validate.Struct(req); err != nil {
		return nil, invalid(err)
	}
	if len(req.Photo) == 0 {
		return nil, newError(ErrValidation, "photo is required")
	}

	room, err := s.rooms.Create(ctx, strings.TrimSpace(*req.RoomType), *req.RoomPrice, req.Photo)
	if err != nil {
		return nil, fail(span, fmt.Errorf("add room: %w", err))
	}
	s.log.WithFields(logrus.Fields{"room_id": room.ID, "room_type": room.RoomType}).Info("room added")
	return roomResponse(room, req.Photo, nil), nil
}

// Update changes the fields set in req and keeps the rest.
func (s *RoomService) Update(ctx context.Context, id string, req model.RoomRequest) (*model.RoomResponse, error) {
	ctx, span := tracer().Start(ctx, "RoomService.Update")
	defer span.End()

	if err := validate.Struct(req); err != nil {
		return nil, invalid(err)
	}

	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fail(span, fmt.Errorf("update room: %w", err))
	}

	if req.RoomType != nil {
		if t := strings.TrimSpace(*req.RoomType); t != "" {
			room.RoomType = t
		}
	}
	if req.RoomPrice != nil {
		room.RoomPrice = *req.RoomPrice
	}
	if len(req.Photo) > 0 {
		room.Photo = req.Photo
	}

	if err := s.rooms.Update(ctx, room); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fail(span, fmt.Errorf("update room: %w", err))
	}
	s.photos.Delete(ctx, id)
	s.log.WithField("room_id", id).Info("room updated")

	return s.Get(ctx, id)
}

// Delete removes a room and its bookings. Deleting a missing room is not an
// error.
func (s *RoomService) Delete(ctx context.Context, id string) error {
	ctx, span := tracer().Start(ctx, "RoomService.Delete")
	defer span.End()

	err := s.rooms.Delete(ctx, id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fail(span, fmt.Errorf("delete room: %w", err))
	}
	s.photos.Delete(ctx, id)
	if err == nil {
		s.log.WithField("room_id", id).Info("room deleted")
	}
	return nil
}

// Get returns one room with its photo and bookings.
func (s *RoomService) Get(ctx context.Context, id string) (*model.RoomResponse, error) {
	ctx, span := tracer().Start(ctx, "RoomService.Get")
	defer span.End()

	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fail(span, fmt.Errorf("get room: %w", err))
	}
	out, err := s.responses(ctx, []model.Room{*room})
	if err != nil {
		return nil, fail(span, err)
	}
	return &out[0], nil
}

// List returns every room with its photo and bookings.
func (s *RoomService) List(ctx context.Context) ([]model.RoomResponse, error) {
	ctx, span := tracer().Start(ctx, "RoomService.List")
	defer span.End()

	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, fail(span, fmt.Errorf("list rooms: %w", err))
	}
	out, err := s.responses(ctx, rooms)
	if err != nil {
		return nil, fail(span, err)
	}
	return out, nil
}

// RoomTypes returns the distinct room types.
func (s *RoomService) RoomTypes(ctx context.Context) ([]string, error) {
	types, err := s.rooms.RoomTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list room types: %w", err)
	}
	if types == nil {
		types = []string{}
	}
	return types, nil
}

// Bookings returns the stays booked for one room, without guest details.
func (s *RoomService) Bookings(ctx context.Context, roomID string) ([]model.BookingInfo, error) {
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("room bookings: %w", err)
	}
	byRoom, err := s.bookings.ListByRooms(ctx, []string{roomID})
	if err != nil {
		return nil, fmt.Errorf("room bookings: %w", err)
	}
	return bookingInfos(byRoom[roomID]), nil
}

// Photo returns the raw photo of a room, reading through the cache.
func (s *RoomService) Photo(ctx context.Context, id string) ([]byte, error) {
	ctx, span := tracer().Start(ctx, "RoomService.Photo")
	defer span.End()

	if photo, ok := s.photos.Get(ctx, id); ok {
		return photo, nil
	}

	photo, err := s.rooms.GetPhoto(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fail(span, fmt.Errorf("get room photo: %w", err))
	}
	if len(photo) == 0 {
		return nil, ErrPhotoNotFound
	}
	s.photos.Set(ctx, id, photo)
	return photo, nil
}

// Available returns the rooms whose type contains roomType (any type when
// empty) that can take a stay from checkIn to checkOut.
func (s *RoomService) Available(ctx context.Context, checkIn, checkOut model.Date, roomType string) ([]model.RoomResponse, error) {
	ctx, span := tracer().Start(ctx, "RoomService.Available")
	defer span.End()

	if checkIn.IsZero() || checkOut.IsZero() {
		return nil, ErrMissingDates
	}
	candidate := availability.NewStay(checkIn.Time, checkOut.Time)
	if !candidate.Valid() {
		return nil, ErrInvalidDates
	}

	rooms, err := s.rooms.ListByType(ctx, strings.TrimSpace(roomType))
	if err != nil {
		return nil, fail(span, fmt.Errorf("available rooms: %w", err))
	}
	ids := make([]string, 0, len(rooms))
	for _, r := range rooms {
		ids = append(ids, r.ID)
	}
	byRoom, err := s.bookings.ListByRooms(ctx, ids)
	if err != nil {
		return nil, fail(span, fmt.Errorf("available rooms: %w", err))
	}

	free := rooms[:0]
	for _, r := range rooms {
		if availability.IsAvailable(candidate, stays(byRoom[r.ID])) {
			free = append(free, r)
		}
	}
	out, err := s.responsesWith(ctx, free, byRoom)
	if err != nil {
		return nil, fail(span, err)
	}
	return out, nil
}

func (s *RoomService) responses(ctx context.Context, rooms []model.Room) ([]model.RoomResponse, error) {
	ids := make([]string, 0, len(rooms))
	for _, r := range rooms {
		ids = append(ids, r.ID)
	}
	byRoom, err := s.bookings.ListByRooms(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list room bookings: %w", err)
	}
	return s.responsesWith(ctx, rooms, byRoom)
}

func (s *RoomService) responsesWith(ctx context.Context, rooms []model.Room, byRoom map[string][]model.Booking) ([]model.RoomResponse, error) {
	photos, err := s.photosOf(ctx, rooms)
	if err != nil {
		return nil, err
	}
	out := make([]model.RoomResponse, 0, len(rooms))
	for i := range rooms {
		out = append(out, *roomResponse(&rooms[i], photos[rooms[i].ID], byRoom[rooms[i].ID]))
	}
	return out, nil
}

// photosOf reads cached photos first and loads the misses in one store call.
func (s *RoomService) photosOf(ctx context.Context, rooms []model.Room) (map[string][]byte, error) {
	photos := make(map[string][]byte, len(rooms))
	var misses []string
	for i := range rooms {
		id := rooms[i].ID
		if photo, ok := s.photos.Get(ctx, id); ok {
			photos[id] = photo
			continue
		}
		misses = append(misses, id)
	}
	if len(misses) == 0 {
		return photos, nil
	}

	loaded, err := s.rooms.GetPhotos(ctx, misses)
	if err != nil {
		return nil, fmt.Errorf("get room photos: %w", err)
	}
	for id, photo := range loaded {
		photos[id] = photo
		s.photos.Set(ctx, id, photo)
	}
	return photos, nil
}

func roomResponse(room *model.Room, photo []byte, bookings []model.Booking) *model.RoomResponse {
	resp := &model.RoomResponse{
		ID:        room.ID,
		RoomType:  room.RoomType,
		RoomPrice: room.RoomPrice,
		IsBooked:  len(bookings) > 0,
		Bookings:  bookingInfos(bookings),
	}
	if len(photo) > 0 {
		resp.Photo = base64.StdEncoding.EncodeToString(photo)
	}
	return resp
}

func bookingInfos(bookings []model.Booking) []model.BookingInfo {
	out := make([]model.BookingInfo, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, model.BookingInfo{
			ID:               b.ID,
			CheckInDate:      b.CheckInDate,
			CheckOutDate:     b.CheckOutDate,
			ConfirmationCode: b.ConfirmationCode,
		})
	}
	return out
}

func stays(bookings []model.Booking) []availability.Stay {
	out := make([]availability.Stay, 0, len(bookings))
	for i := range bookings {
		out = append(out, bookings[i].Stay())
	}
	return out
}
