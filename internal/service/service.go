// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the storage layer.
package service

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Shivanand-hulikatti/hotel-booking/internal/availability"
	"github.com/Shivanand-hulikatti/hotel-booking/internal/model"
)

// RoomStore persists rooms. Implemented by repository.RoomRepository and
// memory.RoomStore.
type RoomStore interface {
	Create(ctx context.Context, roomType string, price float64, photo []byte) (*model.Room, error)
	Update(ctx context.Context, room *model.Room) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*model.Room, error)
	GetPhoto(ctx context.Context, id string) ([]byte, error)
	GetPhotos(ctx context.Context, ids []string) (map[string][]byte, error)
	List(ctx context.Context) ([]model.Room, error)
	ListByType(ctx context.Context, roomType string) ([]model.Room, error)
	RoomTypes(ctx context.Context) ([]string, error)
}

// BookingStore persists bookings. Book must run accept and the insert
// atomically with respect to other bookings of the same room.
type BookingStore interface {
	Book(ctx context.Context, b *model.Booking, accept func(existing []availability.Stay) bool) error
	Delete(ctx context.Context, id string) error
	GetByConfirmationCode(ctx context.Context, code string) (*model.Booking, error)
	List(ctx context.Context) ([]model.Booking, error)
	ListByGuestEmail(ctx context.Context, email string) ([]model.Booking, error)
	ListByRooms(ctx context.Context, roomIDs []string) (map[string][]model.Booking, error)
}

// UserStore persists accounts together with their role assignments.
type UserStore interface {
	Create(ctx context.Context, u *model.User, roleNames ...string) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	DeleteByEmail(ctx context.Context, email string) error
}

// RoleStore persists roles and user assignments.
type RoleStore interface {
	List(ctx context.Context) ([]model.Role, error)
	Create(ctx context.Context, name string) (*model.Role, error)
	GetByID(ctx context.Context, id string) (*model.Role, error)
	GetByName(ctx context.Context, name string) (*model.Role, error)
	Delete(ctx context.Context, id string) error
	RemoveAllUsers(ctx context.Context, id string) (*model.Role, error)
	AddUser(ctx context.Context, roleID, userID string) error
	RemoveUser(ctx context.Context, roleID, userID string) error
}

// PhotoCache is a best-effort cache of room photos.
type PhotoCache interface {
	Get(ctx context.Context, roomID string) ([]byte, bool)
	Set(ctx context.Context, roomID string, photo []byte)
	Delete(ctx context.Context, roomID string)
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(userID, email string, roles []string) (string, error)
}

type noCache struct{}

func (noCache) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (noCache) Set(context.Context, string, []byte)        {}
func (noCache) Delete(context.Context, string)             {}

func tracer() trace.Tracer {
	return otel.Tracer("hotel-booking/service")
}

// fail records an unexpected error on the span and returns it.
func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
