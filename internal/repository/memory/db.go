// Package memory is an in-process implementation of the repositories. It is
// used for local runs without PostgreSQL and as the store behind tests.
package memory

import (
	"sync"

	"github.com/Shivanand-hulikatti/hotel-booking/internal/model"
)

// DB holds every table behind one mutex, so each store operation is atomic
// with respect to all others.
type DB struct {
	mu        sync.Mutex
	rooms     map[string]*model.Room
	bookings  map[string]*model.Booking
	users     map[string]*model.User
	roles     map[string]*model.Role
	userRoles map[string]map[string]struct{} // user id -> role ids
}

// New returns an empty DB.
func New() *DB {
	return &DB{
		rooms:     make(map[string]*model.Room),
		bookings:  make(map[string]*model.Booking),
		users:     make(map[string]*model.User),
		roles:     make(map[string]*model.Role),
		userRoles: make(map[string]map[string]struct{}),
	}
}

// Rooms returns the room store backed by db.
func (db *DB) Rooms() *RoomStore { return &RoomStore{db: db} }

// Bookings returns the booking store backed by db.
func (db *DB) Bookings() *BookingStore { return &BookingStore{db: db} }

// Users returns the user store backed by db.
func (db *DB) Users() *UserStore { return &UserStore{db: db} }

// Roles returns the role store backed by db.
func (db *DB) Roles() *RoleStore { return &RoleStore{db: db} }

// rolesOf must be called with db.mu held.
func (db *DB) rolesOf(userID string) []model.Role {
	var roles []model.Role
	for roleID := range db.userRoles[userID] {
		if role, ok := db.roles[roleID]; ok {
			roles = append(roles, *role)
		}
	}
	sortRoles(roles)
	return roles
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
