package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func stay(in, out string) Stay {
	return NewStay(date(in), date(out))
}

func TestIsAvailable(t *testing.T) {
	booked := stay("2024-01-01", "2024-01-05")

	tests := []struct {
		name      string
		candidate Stay
		existing  []Stay
		want      bool
	}{
		{"no bookings", stay("2024-01-01", "2024-01-05"), nil, true},
		{"identical stay", stay("2024-01-01", "2024-01-05"), []Stay{booked}, false},
		{"later stay with gap", stay("2024-02-01", "2024-02-05"), []Stay{booked}, true},
		{"same check-in, longer stay", stay("2024-01-01", "2024-01-10"), []Stay{booked}, false},
		{"earlier stay with gap ends before existing checkout", stay("2023-12-01", "2023-12-05"), []Stay{booked}, false},
		{"starts inside existing", stay("2024-01-03", "2024-01-10"), []Stay{booked}, false},
		{"earlier start, same checkout", stay("2023-12-30", "2024-01-05"), []Stay{booked}, false},
		{"encloses existing", stay("2023-12-30", "2024-01-10"), []Stay{booked}, false},
		{"check-in on existing checkout", stay("2024-01-05", "2024-01-08"), []Stay{booked}, true},
		{
			"one of several conflicts",
			stay("2024-03-01", "2024-03-04"),
			[]Stay{booked, stay("2024-03-02", "2024-03-06")},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAvailable(tt.candidate, tt.existing))
		})
	}
}

func TestIsAvailableSameCheckInAlwaysConflicts(t *testing.T) {
	base := date("2024-05-10")
	for i := 1; i <= 10; i++ {
		for j := 1; j <= 10; j++ {
			a := NewStay(base, base.AddDate(0, 0, i))
			b := NewStay(base, base.AddDate(0, 0, j))
			assert.False(t, IsAvailable(a, []Stay{b}), "a=%v b=%v", a, b)
		}
	}
}

func TestIsAvailableIsPure(t *testing.T) {
	candidate := stay("2024-02-01", "2024-02-05")
	existing := []Stay{stay("2024-01-01", "2024-01-05")}

	first := IsAvailable(candidate, existing)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, IsAvailable(candidate, existing))
	}
	assert.Equal(t, stay("2024-01-01", "2024-01-05"), existing[0])
}

func TestStayValid(t *testing.T) {
	assert.True(t, stay("2024-01-01", "2024-01-02").Valid())
	assert.False(t, stay("2024-01-02", "2024-01-02").Valid())
	assert.False(t, stay("2024-01-03", "2024-01-02").Valid())
}

func TestNewStayTruncatesToDay(t *testing.T) {
	in := time.Date(2024, 1, 1, 15, 30, 0, 0, time.UTC)
	out := time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)

	s := NewStay(in, out)

	assert.Equal(t, date("2024-01-01"), s.CheckIn)
	assert.Equal(t, date("2024-01-03"), s.CheckOut)
}
