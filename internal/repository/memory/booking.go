package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/Shivanand-hulikatti/hotel-booking/internal/availability"
	"github.com/Shivanand-hulikatti/hotel-booking/internal/model"
	"github.com/Shivanand-hulikatti/hotel-booking/internal/repository"
)

// BookingStore keeps bookings in memory.
type BookingStore struct {
	db *DB
}

// Book holds the store lock across the check and the insert.
func (s *BookingStore) Book(_ context.Context, b *model.Booking, accept func(existing []availability.Stay) bool) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.rooms[b.RoomID]; !ok {
		return repository.ErrNotFound
	}

	var existing []availability.Stay
	for _, other := range s.db.bookings {
		if other.ConfirmationCode == b.ConfirmationCode || other.ID == b.ID {
			return repository.ErrDuplicate
		}
		if other.RoomID == b.RoomID {
			existing = append(existing, other.Stay())
		}
	}

	if !accept(existing) {
		return repository.ErrRoomUnavailable
	}

	stored := *b
	s.db.bookings[b.ID] = &stored
	return nil
}

func (s *BookingStore) Delete(_ context.Context, id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.bookings[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.db.bookings, id)
	return nil
}

func (s *BookingStore) GetByConfirmationCode(_ context.Context, code string) (*model.Booking, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, b := range s.db.bookings {
		if b.ConfirmationCode == code {
			out := *b
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *BookingStore) List(_ context.Context) ([]model.Booking, error) {
	return s.filter(func(*model.Booking) bool { return true }), nil
}

func (s *BookingStore) ListByGuestEmail(_ context.Context, email string) ([]model.Booking, error) {
	return s.filter(func(b *model.Booking) bool {
		return strings.EqualFold(b.GuestEmail, email)
	}), nil
}

func (s *BookingStore) ListByRooms(_ context.Context, roomIDs []string) (map[string][]model.Booking, error) {
	wanted := make(map[string]struct{}, len(roomIDs))
	for _, id := range roomIDs {
		wanted[id] = struct{}{}
	}

	out := make(map[string][]model.Booking, len(roomIDs))
	for _, b := range s.filter(func(b *model.Booking) bool {
		_, ok := wanted[b.RoomID]
		return ok
	}) {
		out[b.RoomID] = append(out[b.RoomID], b)
	}
	return out, nil
}

func (s *BookingStore) filter(keep func(*model.Booking) bool) []model.Booking {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	var out []model.Booking
	for _, b := range s.db.bookings {
		if keep(b) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CheckInDate.Equal(out[j].CheckInDate.Time) {
			return out[i].CheckInDate.Before(out[j].CheckInDate.Time)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
