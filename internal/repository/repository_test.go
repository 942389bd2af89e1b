package repository

import (
	"context"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/hotel-booking/internal/availability"
	"github.com/Shivanand-hulikatti/hotel-booking/internal/database"
	"github.com/Shivanand-hulikatti/hotel-booking/internal/model"
)

// testPool connects to the database named by HOTEL_TEST_DB_HOST and friends,
// skipping the test when it is not configured.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	host := os.Getenv("HOTEL_TEST_DB_HOST")
	if host == "" {
		t.Skip("HOTEL_TEST_DB_HOST not set")
	}
	log := logrus.New()
	log.SetOutput(io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	pool, err := database.NewPool(ctx, database.Config{
		Host:     host,
		Port:     envOr("HOTEL_TEST_DB_PORT", "5432"),
		User:     envOr("HOTEL_TEST_DB_USER", "postgres"),
		Password: envOr("HOTEL_TEST_DB_PASSWORD", "postgres"),
		DBName:   envOr("HOTEL_TEST_DB_NAME", "hotelbooking_test"),
		SSLMode:  "disable",
	}, log)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, database.Migrate(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE user_roles, users, roles, bookings, rooms CASCADE`)
	require.NoError(t, err)
	return pool
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newBooking(roomID, in, out string) *model.Booking {
	checkIn, _ := model.ParseDate(in)
	checkOut, _ := model.ParseDate(out)
	return &model.Booking{
		ID:               uuid.New().String(),
		RoomID:           roomID,
		CheckInDate:      checkIn,
		CheckOutDate:     checkOut,
		GuestFullName:    "Ada Lovelace",
		GuestEmail:       "Ada@Example.com",
		NumOfAdults:      1,
		ConfirmationCode: uuid.New().String()[:10],
		CreatedAt:        time.Now().UTC(),
	}
}

func evaluate(b *model.Booking) func([]availability.Stay) bool {
	return func(existing []availability.Stay) bool {
		return availability.IsAvailable(b.Stay(), existing)
	}
}

func TestBookingRepositoryConcurrentBook(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	rooms := NewRoomRepository(pool)
	bookings := NewBookingRepository(pool)

	room, err := rooms.Create(ctx, "Suite", 250, []byte("img"))
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b := newBooking(room.ID, "2024-06-01", "2024-06-04")
			if err := bookings.Book(ctx, b, evaluate(b)); err == nil {
				succeeded.Add(1)
			} else {
				assert.ErrorIs(t, err, ErrRoomUnavailable)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), succeeded.Load())

	byRoom, err := bookings.ListByRooms(ctx, []string{room.ID})
	require.NoError(t, err)
	require.Len(t, byRoom[room.ID], 1)

	mine, err := bookings.ListByGuestEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	missing := newBooking(uuid.New().String(), "2024-06-01", "2024-06-04")
	assert.ErrorIs(t, bookings.Book(ctx, missing, evaluate(missing)), ErrNotFound)

	require.NoError(t, bookings.Delete(ctx, byRoom[room.ID][0].ID))
	assert.ErrorIs(t, bookings.Delete(ctx, byRoom[room.ID][0].ID), ErrNotFound)
}

func TestRoomRepository(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	rooms := NewRoomRepository(pool)

	room, err := rooms.Create(ctx, "Junior Suite", 180, []byte("first-photo"))
	require.NoError(t, err)
	_, err = rooms.Create(ctx, "Single", 80, []byte("single"))
	require.NoError(t, err)

	require.NoError(t, rooms.Update(ctx, &model.Room{ID: room.ID, RoomType: "Junior Suite", RoomPrice: 199.5}))
	photo, err := rooms.GetPhoto(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("first-photo"), photo)

	got, err := rooms.GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.InDelta(t, 199.5, got.RoomPrice, 0.001)

	suites, err := rooms.ListByType(ctx, "SUITE")
	require.NoError(t, err)
	assert.Len(t, suites, 1)

	percent, err := rooms.Create(ctx, "100% Suite", 300, nil)
	require.NoError(t, err)
	literal, err := rooms.ListByType(ctx, "%")
	require.NoError(t, err)
	require.Len(t, literal, 1)
	assert.Equal(t, percent.ID, literal[0].ID)
	literal, err = rooms.ListByType(ctx, "_")
	require.NoError(t, err)
	assert.Empty(t, literal)

	photos, err := rooms.GetPhotos(ctx, []string{room.ID, percent.ID, uuid.New().String()})
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{room.ID: []byte("first-photo")}, photos)
	require.NoError(t, rooms.Delete(ctx, percent.ID))

	types, err := rooms.RoomTypes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Junior Suite", "Single"}, types)

	require.NoError(t, rooms.Delete(ctx, room.ID))
	_, err = rooms.GetByID(ctx, room.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserAndRoleRepositories(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users := NewUserRepository(pool)
	roles := NewRoleRepository(pool)

	userRole, err := roles.Create(ctx, model.RoleUser)
	require.NoError(t, err)
	_, err = roles.Create(ctx, model.RoleUser)
	assert.ErrorIs(t, err, ErrDuplicate)
	admin, err := roles.Create(ctx, model.RoleAdmin)
	require.NoError(t, err)

	u := &model.User{FirstName: "Grace", LastName: "Hopper", Email: "Grace@Example.com", Password: "hash"}
	require.NoError(t, users.Create(ctx, u, model.RoleUser))
	assert.ErrorIs(t, users.Create(ctx, &model.User{Email: "grace@example.com"}), ErrDuplicate)

	require.NoError(t, roles.AddUser(ctx, admin.ID, u.ID))
	assert.ErrorIs(t, roles.AddUser(ctx, admin.ID, u.ID), ErrDuplicate)
	assert.ErrorIs(t, roles.AddUser(ctx, admin.ID, uuid.New().String()), ErrNotFound)

	got, err := users.GetByEmail(ctx, "GRACE@example.com")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{model.RoleUser, model.RoleAdmin}, got.RoleNames())

	all, err := users.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Len(t, all[0].Roles, 2)

	_, err = roles.RemoveAllUsers(ctx, userRole.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, roles.RemoveUser(ctx, userRole.ID, u.ID), ErrNotFound)

	require.NoError(t, roles.Delete(ctx, admin.ID))
	got, err = users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Roles)

	require.NoError(t, users.DeleteByEmail(ctx, "grace@example.com"))
	assert.ErrorIs(t, users.DeleteByEmail(ctx, "grace@example.com"), ErrNotFound)
}
