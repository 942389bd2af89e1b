package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/hotel-booking/internal/availability"
	"github.com/Shivanand-hulikatti/hotel-booking/internal/model"
)

const bookingColumns = `id, room_id, check_in_date, check_out_date, guest_full_name, guest_email,
	num_of_adults, num_of_children, confirmation_code, created_at`

// BookingRepository handles persistence for bookings.
type BookingRepository struct {
	db *pgxpool.Pool
}

// NewBookingRepository constructs a BookingRepository.
func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db}
}

// Book inserts b if accept approves it against the room's current stays.
//
// Two requests for the same room could otherwise both read the same set of
// stays, both pass the check and both insert. Locking the room row with
// SELECT ... FOR UPDATE makes every check-and-insert for one room run one at
// a time; requests for different rooms do not block each other.
func (r *BookingRepository) Book(ctx context.Context, b *model.Booking, accept func(existing []availability.Stay) bool) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var roomID string
	err = tx.QueryRow(ctx, `SELECT id FROM rooms WHERE id = $1 FOR UPDATE`, b.RoomID).Scan(&roomID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("lock room row: %w", err)
	}

	rows, err := tx.Query(ctx,
		`SELECT check_in_date, check_out_date FROM bookings WHERE room_id = $1`,
		b.RoomID,
	)
	if err != nil {
		return fmt.Errorf("load room stays: %w", err)
	}
	var existing []availability.Stay
	for rows.Next() {
		var in, out time.Time
		if err = rows.Scan(&in, &out); err != nil {
			rows.Close()
			return fmt.Errorf("scan stay: %w", err)
		}
		existing = append(existing, availability.NewStay(in, out))
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return fmt.Errorf("load room stays: %w", err)
	}

	if !accept(existing) {
		err = ErrRoomUnavailable
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO bookings (`+bookingColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		b.ID, b.RoomID, b.CheckInDate.Time, b.CheckOutDate.Time, b.GuestFullName, b.GuestEmail,
		b.NumOfAdults, b.NumOfChildren, b.ConfirmationCode, b.CreatedAt,
	)
	if err != nil {
		if pgCode(err) == uniqueViolation {
			return ErrDuplicate
		}
		return fmt.Errorf("insert booking: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Delete removes a booking by id or returns ErrNotFound.
func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByConfirmationCode returns a single booking or ErrNotFound.
func (r *BookingRepository) GetByConfirmationCode(ctx context.Context, code string) (*model.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE confirmation_code = $1`,
		code,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

// List returns every booking ordered by check-in date.
func (r *BookingRepository) List(ctx context.Context) ([]model.Booking, error) {
	return r.list(ctx,
		`SELECT `+bookingColumns+` FROM bookings ORDER BY check_in_date, created_at`,
	)
}

// ListByGuestEmail returns the bookings made for a guest email, ignoring case.
func (r *BookingRepository) ListByGuestEmail(ctx context.Context, email string) ([]model.Booking, error) {
	return r.list(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE lower(guest_email) = lower($1)
		 ORDER BY check_in_date, created_at`,
		email,
	)
}

// ListByRooms returns the bookings of the given rooms keyed by room id.
// Rooms without bookings are absent from the map.
func (r *BookingRepository) ListByRooms(ctx context.Context, roomIDs []string) (map[string][]model.Booking, error) {
	out := make(map[string][]model.Booking, len(roomIDs))
	if len(roomIDs) == 0 {
		return out, nil
	}

	bookings, err := r.list(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE room_id = ANY($1)
		 ORDER BY check_in_date, created_at`,
		roomIDs,
	)
	if err != nil {
		return nil, err
	}
	for _, b := range bookings {
		out[b.RoomID] = append(out[b.RoomID], b)
	}
	return out, nil
}

func (r *BookingRepository) list(ctx context.Context, query string, args ...any) ([]model.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var (
		b       model.Booking
		in, out time.Time
	)
	err := row.Scan(&b.ID, &b.RoomID, &in, &out, &b.GuestFullName, &b.GuestEmail,
		&b.NumOfAdults, &b.NumOfChildren, &b.ConfirmationCode, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	b.CheckInDate = model.NewDate(in)
	b.CheckOutDate = model.NewDate(out)
	return &b, nil
}
