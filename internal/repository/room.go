package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/hotel-booking/internal/model"
)

// RoomRepository handles persistence for rooms.
type RoomRepository struct {
	db *pgxpool.Pool
}

// NewRoomRepository constructs a RoomRepository.
func NewRoomRepository(db *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{db: db}
}

// Create inserts a new room and returns it with a generated UUID.
func (r *RoomRepository) Create(ctx context.Context, roomType string, price float64, photo []byte) (*model.Room, error) {
	room := &model.Room{
		ID:        uuid.New().String(),
		RoomType:  roomType,
		RoomPrice: price,
		Photo:     photo,
		CreatedAt: time.Now().UTC(),
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO rooms (id, room_type, room_price, photo, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		room.ID, room.RoomType, room.RoomPrice, room.Photo, room.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert room: %w", err)
	}
	return room, nil
}

// Update overwrites type and price. A nil photo keeps the stored one.
func (r *RoomRepository) Update(ctx context.Context, room *model.Room) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE rooms
		 SET room_type = $2, room_price = $3, photo = COALESCE($4, photo)
		 WHERE id = $1`,
		room.ID, room.RoomType, room.RoomPrice, room.Photo,
	)
	if err != nil {
		return fmt.Errorf("update room: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a room and, through the foreign key, its bookings.
func (r *RoomRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID returns a single room without its photo, or ErrNotFound.
func (r *RoomRepository) GetByID(ctx context.Context, id string) (*model.Room, error) {
	var room model.Room
	err := r.db.QueryRow(ctx,
		`SELECT id, room_type, room_price, created_at FROM rooms WHERE id = $1`,
		id,
	).Scan(&room.ID, &room.RoomType, &room.RoomPrice, &room.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get room: %w", err)
	}
	return &room, nil
}

// GetPhoto returns the stored photo bytes. A room without a photo yields nil.
func (r *RoomRepository) GetPhoto(ctx context.Context, id string) ([]byte, error) {
	var photo []byte
	err := r.db.QueryRow(ctx, `SELECT photo FROM rooms WHERE id = $1`, id).Scan(&photo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get room photo: %w", err)
	}
	return photo, nil
}

// GetPhotos returns the photos of the given rooms in one query, keyed by room
// ID. Missing rooms and rooms without a photo are left out.
func (r *RoomRepository) GetPhotos(ctx context.Context, ids []string) (map[string][]byte, error) {
	photos := make(map[string][]byte, len(ids))
	if len(ids) == 0 {
		return photos, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, photo FROM rooms WHERE id = ANY($1) AND photo IS NOT NULL`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("get room photos: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id    string
			photo []byte
		)
		if err := rows.Scan(&id, &photo); err != nil {
			return nil, fmt.Errorf("scan room photo: %w", err)
		}
		if len(photo) > 0 {
			photos[id] = photo
		}
	}
	return photos, rows.Err()
}

// List returns all rooms ordered by creation time, photos excluded.
func (r *RoomRepository) List(ctx context.Context) ([]model.Room, error) {
	return r.list(ctx,
		`SELECT id, room_type, room_price, created_at
		 FROM rooms
		 ORDER BY created_at ASC`,
	)
}

// ListByType returns rooms whose type contains roomType, ignoring case.
// roomType is matched literally, so % and _ carry no pattern meaning.
func (r *RoomRepository) ListByType(ctx context.Context, roomType string) ([]model.Room, error) {
	return r.list(ctx,
		`SELECT id, room_type, room_price, created_at
		 FROM rooms
		 WHERE strpos(lower(room_type), lower($1)) > 0
		 ORDER BY created_at ASC`,
		roomType,
	)
}

func (r *RoomRepository) list(ctx context.Context, query string, args ...any) ([]model.Room, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []model.Room
	for rows.Next() {
		var room model.Room
		if err := rows.Scan(&room.ID, &room.RoomType, &room.RoomPrice, &room.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

// RoomTypes returns the distinct room types in alphabetical order.
func (r *RoomRepository) RoomTypes(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT room_type FROM rooms ORDER BY room_type`)
	if err != nil {
		return nil, fmt.Errorf("list room types: %w", err)
	}
	defer rows.Close()

	var types []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan room type: %w", err)
		}
		types = append(types, t)
	}
	return types, rows.Err()
}
