// Package model defines the core domain types for the hotel booking system.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/hotel-booking/internal/availability"
)

// Role names granted by the system itself.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// Date is a calendar date serialised as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate truncates t to a UTC calendar date.
func NewDate(t time.Time) Date {
	return Date{Time: availability.Day(t)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return NewDate(t), nil
}

func (d Date) String() string {
	return d.Format(time.DateOnly)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Room is a bookable hotel room.
type Room struct {
	ID        string    `json:"id"`
	RoomType  string    `json:"room_type"`
	RoomPrice float64   `json:"room_price"`
	Photo     []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Booking is a confirmed stay in a room.
type Booking struct {
	ID               string    `json:"id"`
	RoomID           string    `json:"room_id"`
	CheckInDate      Date      `json:"check_in_date"`
	CheckOutDate     Date      `json:"check_out_date"`
	GuestFullName    string    `json:"guest_full_name"`
	GuestEmail       string    `json:"guest_email"`
	NumOfAdults      int       `json:"num_of_adults"`
	NumOfChildren    int       `json:"num_of_children"`
	ConfirmationCode string    `json:"confirmation_code"`
	CreatedAt        time.Time `json:"created_at"`
}

// Stay returns the booking's dates as an availability stay.
func (b *Booking) Stay() availability.Stay {
	return availability.NewStay(b.CheckInDate.Time, b.CheckOutDate.Time)
}

// TotalGuests returns adults plus children.
func (b *Booking) TotalGuests() int {
	return b.NumOfAdults + b.NumOfChildren
}

// User is a registered account. Password holds the bcrypt hash.
type User struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Roles     []Role    `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

// RoleNames returns the names of the user's roles.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// HasRole reports whether the user holds the role with the given id.
func (u *User) HasRole(roleID string) bool {
	for _, r := range u.Roles {
		if r.ID == roleID {
			return true
		}
	}
	return false
}

// Role is a named authority granted to users.
type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RoleName normalises a role name to the ROLE_ prefixed upper-case form.
func RoleName(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	if strings.HasPrefix(name, "ROLE_") {
		return name
	}
	return "ROLE_" + name
}
