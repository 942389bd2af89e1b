// Package availability decides whether a requested stay conflicts with the
// stays already booked for a room.
package availability

import "time"

// Stay is a check-in/check-out pair of calendar dates.
type Stay struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// NewStay truncates both dates to UTC midnight so comparisons are per day.
func NewStay(checkIn, checkOut time.Time) Stay {
	return Stay{CheckIn: Day(checkIn), CheckOut: Day(checkOut)}
}

// Day returns t as a UTC calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Valid reports whether check-out is strictly after check-in.
func (s Stay) Valid() bool {
	return s.CheckOut.After(s.CheckIn)
}

// IsAvailable reports whether candidate can be booked next to existing.
// The caller must reject invalid stays first.
//
// The conflict rules are kept exactly as the hotel's booking policy states
// them. Note that a candidate ending before an existing stay ends is always
// rejected, even when the two do not overlap.
func IsAvailable(candidate Stay, existing []Stay) bool {
	for _, e := range existing {
		if conflicts(candidate, e) {
			return false
		}
	}
	return true
}

func conflicts(c, e Stay) bool {
	switch {
	case c.CheckIn.Equal(e.CheckIn):
		return true
	case c.CheckOut.Before(e.CheckOut):
		return true
	case c.CheckIn.After(e.CheckIn) && c.CheckIn.Before(e.CheckOut):
		return true
	case c.CheckIn.Before(e.CheckIn) && c.CheckOut.Equal(e.CheckOut):
		return true
	case c.CheckIn.Before(e.CheckIn) && c.CheckOut.After(e.CheckOut):
		return true
	case c.CheckIn.Equal(e.CheckOut) && c.CheckOut.Equal(e.CheckIn):
		return true
	case c.CheckIn.Equal(e.CheckOut) && c.CheckOut.Equal(c.CheckIn):
		return true
	}
	return false
}
