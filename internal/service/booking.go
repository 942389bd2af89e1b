package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Shivanand-hulikatti/hotel-booking/internal/availability"
	"github.com/Shivanand-hulikatti/hotel-booking/internal/model"
	"github.com/Shivanand-hulikatti/hotel-booking/internal/repository"
)

const (
	confirmationCodeLen = 10
	maxCodeAttempts     = 3
)

// BookingService creates, cancels and looks up bookings.
type BookingService struct {
	bookings BookingStore
	rooms    RoomStore
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewBookingService constructs a BookingService.
func NewBookingService(bookings BookingStore, rooms RoomStore, log logrus.FieldLogger) *BookingService {
	return &BookingService{
		bookings: bookings,
		rooms:    rooms,
		log:      log.WithField("service", "bookings"),
		now:      time.Now,
	}
}

// Create books roomID for the requested stay. The availability check and the
// insert happen atomically in the store.
func (s *BookingService) Create(ctx context.Context, roomID string, req model.BookingRequest) (*model.Booking, error) {
	ctx, span := tracer().Start(ctx, "BookingService.Create")
	defer span.End()

	req.GuestFullName = strings.TrimSpace(req.GuestFullName)
	req.GuestEmail = strings.TrimSpace(req.GuestEmail)
	if req.CheckInDate.IsZero() || req.CheckOutDate.IsZero() {
		return nil, ErrMissingDates
	}
	if err := validate.Struct(req); err != nil {
		return nil, invalid(err)
	}
	candidate := availability.NewStay(req.CheckInDate.Time, req.CheckOutDate.Time)
	if !candidate.Valid() {
		return nil, ErrInvalidDates
	}

	accept := func(existing []availability.Stay) bool {
		return availability.IsAvailable(candidate, existing)
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		b := &model.Booking{
			ID:               uuid.New().String(),
			RoomID:           roomID,
			CheckInDate:      model.NewDate(candidate.CheckIn),
			CheckOutDate:     model.NewDate(candidate.CheckOut),
			GuestFullName:    req.GuestFullName,
			GuestEmail:       req.GuestEmail,
			NumOfAdults:      req.NumOfAdults,
			NumOfChildren:    req.NumOfChildren,
			ConfirmationCode: newConfirmationCode(),
			CreatedAt:        s.now().UTC(),
		}

		err := s.bookings.Book(ctx, b, accept)
		switch {
		case err == nil:
			s.log.WithFields(logrus.Fields{
				"booking_id": b.ID,
				"room_id":    roomID,
				"check_in":   b.CheckInDate.String(),
				"check_out":  b.CheckOutDate.String(),
			}).Info("booking created")
			return b, nil
		case errors.Is(err, repository.ErrDuplicate):
			continue
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrRoomNotFound
		case errors.Is(err, repository.ErrRoomUnavailable):
			return nil, ErrRoomUnavailable
		default:
			return nil, fail(span, fmt.Errorf("create booking: %w", err))
		}
	}
	return nil, fail(span, errors.New("create booking: could not allocate a unique confirmation code"))
}

// Cancel deletes a booking by id.
func (s *BookingService) Cancel(ctx context.Context, id string) error {
	ctx, span := tracer().Start(ctx, "BookingService.Cancel")
	defer span.End()

	if err := s.bookings.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBookingNotFound
		}
		return fail(span, fmt.Errorf("cancel booking: %w", err))
	}
	s.log.WithField("booking_id", id).Info("booking cancelled")
	return nil
}

// ByConfirmationCode finds a booking by the code handed to the guest.
func (s *BookingService) ByConfirmationCode(ctx context.Context, code string) (*model.BookingResponse, error) {
	ctx, span := tracer().Start(ctx, "BookingService.ByConfirmationCode")
	defer span.End()

	b, err := s.bookings.GetByConfirmationCode(ctx, strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "no booking found with confirmation code "+code)
		}
		return nil, fail(span, fmt.Errorf("find booking: %w", err))
	}
	out, err := s.responses(ctx, []model.Booking{*b})
	if err != nil {
		return nil, fail(span, err)
	}
	return &out[0], nil
}

// List returns all bookings.
func (s *BookingService) List(ctx context.Context) ([]model.BookingResponse, error) {
	ctx, span := tracer().Start(ctx, "BookingService.List")
	defer span.End()

	bookings, err := s.bookings.List(ctx)
	if err != nil {
		return nil, fail(span, fmt.Errorf("list bookings: %w", err))
	}
	return s.responses(ctx, bookings)
}

// ByGuestEmail returns the bookings made under an email address.
func (s *BookingService) ByGuestEmail(ctx context.Context, email string) ([]model.BookingResponse, error) {
	ctx, span := tracer().Start(ctx, "BookingService.ByGuestEmail")
	defer span.End()

	bookings, err := s.bookings.ListByGuestEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, fail(span, fmt.Errorf("list bookings by email: %w", err))
	}
	return s.responses(ctx, bookings)
}

func (s *BookingService) responses(ctx context.Context, bookings []model.Booking) ([]model.BookingResponse, error) {
	rooms := make(map[string]*model.RoomResponse)
	out := make([]model.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		room, ok := rooms[b.RoomID]
		if !ok {
			r, err := s.rooms.GetByID(ctx, b.RoomID)
			switch {
			case err == nil:
				room = &model.RoomResponse{ID: r.ID, RoomType: r.RoomType, RoomPrice: r.RoomPrice, IsBooked: true}
			case errors.Is(err, repository.ErrNotFound):
			default:
				return nil, fmt.Errorf("load booked room: %w", err)
			}
			rooms[b.RoomID] = room
		}
		out = append(out, model.BookingResponse{
			ID:               b.ID,
			CheckInDate:      b.CheckInDate,
			CheckOutDate:     b.CheckOutDate,
			GuestFullName:    b.GuestFullName,
			GuestEmail:       b.GuestEmail,
			NumOfAdults:      b.NumOfAdults,
			NumOfChildren:    b.NumOfChildren,
			TotalNumOfGuest:  b.TotalGuests(),
			ConfirmationCode: b.ConfirmationCode,
			Room:             room,
		})
	}
	return out, nil
}

// newConfirmationCode returns ten upper-case hex characters.
func newConfirmationCode() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(hex[:confirmationCodeLen])
}
