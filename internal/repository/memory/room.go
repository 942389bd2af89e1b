package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Shivanand-hulikatti/hotel-booking/internal/model"
	"github.com/Shivanand-hulikatti/hotel-booking/internal/repository"
)

// RoomStore keeps rooms in memory.
type RoomStore struct {
	db *DB
}

func (s *RoomStore) Create(_ context.Context, roomType string, price float64, photo []byte) (*model.Room, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	room := &model.Room{
		ID:        uuid.New().String(),
		RoomType:  roomType,
		RoomPrice: price,
		Photo:     cloneBytes(photo),
		CreatedAt: time.Now().UTC(),
	}
	s.db.rooms[room.ID] = room

	out := *room
	out.Photo = cloneBytes(photo)
	return &out, nil
}

func (s *RoomStore) Update(_ context.Context, room *model.Room) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	stored, ok := s.db.rooms[room.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.RoomType = room.RoomType
	stored.RoomPrice = room.RoomPrice
	if room.Photo != nil {
		stored.Photo = cloneBytes(room.Photo)
	}
	return nil
}

func (s *RoomStore) Delete(_ context.Context, id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.rooms[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.db.rooms, id)
	for bid, b := range s.db.bookings {
		if b.RoomID == id {
			delete(s.db.bookings, bid)
		}
	}
	return nil
}

func (s *RoomStore) GetByID(_ context.Context, id string) (*model.Room, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	room, ok := s.db.rooms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *room
	out.Photo = nil
	return &out, nil
}

func (s *RoomStore) GetPhoto(_ context.Context, id string) ([]byte, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	room, ok := s.db.rooms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneBytes(room.Photo), nil
}

func (s *RoomStore) GetPhotos(_ context.Context, ids []string) (map[string][]byte, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	photos := make(map[string][]byte, len(ids))
	for _, id := range ids {
		if room, ok := s.db.rooms[id]; ok && len(room.Photo) > 0 {
			photos[id] = cloneBytes(room.Photo)
		}
	}
	return photos, nil
}

func (s *RoomStore) List(ctx context.Context) ([]model.Room, error) {
	return s.ListByType(ctx, "")
}

func (s *RoomStore) ListByType(_ context.Context, roomType string) ([]model.Room, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	needle := strings.ToLower(roomType)
	var rooms []model.Room
	for _, room := range s.db.rooms {
		if !strings.Contains(strings.ToLower(room.RoomType), needle) {
			continue
		}
		out := *room
		out.Photo = nil
		rooms = append(rooms, out)
	}
	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].CreatedAt.Equal(rooms[j].CreatedAt) {
			return rooms[i].ID < rooms[j].ID
		}
		return rooms[i].CreatedAt.Before(rooms[j].CreatedAt)
	})
	return rooms, nil
}

func (s *RoomStore) RoomTypes(_ context.Context) ([]string, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	var types []string
	for _, room := range s.db.rooms {
		if !slices.Contains(types, room.RoomType) {
			types = append(types, room.RoomType)
		}
	}
	sort.Strings(types)
	return types, nil
}
