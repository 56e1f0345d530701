//go:build unit

package booking_test

import (
	"testing"
	"time"

	"cowork-booking/internal/domain/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSlot(t *testing.T, start, end time.Time) booking.TimeSlot {
	t.Helper()
	slot, err := booking.NewTimeSlot(start, end)
	require.NoError(t, err)
	return slot
}

func at(hour int) time.Time {
	return time.Date(2026, 9, 1, hour, 0, 0, 0, time.UTC)
}

func TestNewTimeSlot(t *testing.T) {
	t.Run("valid slot", func(t *testing.T) {
		slot, err := booking.NewTimeSlot(at(10), at(12))
		require.NoError(t, err)
		assert.Equal(t, at(10), slot.Start())
		assert.Equal(t, at(12), slot.End())
		assert.Equal(t, 2*time.Hour, slot.Duration())
	})

	t.Run("start equal to end", func(t *testing.T) {
		_, err := booking.NewTimeSlot(at(10), at(10))
		assert.ErrorIs(t, err, booking.ErrInvalidTimeSlot)
	})

	t.Run("start after end", func(t *testing.T) {
		_, err := booking.NewTimeSlot(at(12), at(10))
		assert.ErrorIs(t, err, booking.ErrInvalidTimeSlot)
	})
}

func TestTimeSlotOverlaps(t *testing.T) {
	cases := []struct {
		name     string
		a, b     [2]int
		overlaps bool
	}{
		{name: "disjoint", a: [2]int{9, 11}, b: [2]int{13, 15}, overlaps: false},
		{name: "touching ends do not overlap", a: [2]int{9, 11}, b: [2]int{11, 13}, overlaps: false},
		{name: "partial overlap", a: [2]int{9, 12}, b: [2]int{11, 14}, overlaps: true},
		{name: "contained", a: [2]int{9, 17}, b: [2]int{11, 12}, overlaps: true},
		{name: "identical", a: [2]int{9, 11}, b: [2]int{9, 11}, overlaps: true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a := mustSlot(t, at(c.a[0]), at(c.a[1]))
			b := mustSlot(t, at(c.b[0]), at(c.b[1]))

			assert.Equal(t, c.overlaps, a.Overlaps(b))
			assert.Equal(t, c.overlaps, b.Overlaps(a))
		})
	}
}

func TestTimeSlotEndHour(t *testing.T) {
	t.Run("plain end hour", func(t *testing.T) {
		slot := mustSlot(t, at(10), at(18))
		assert.Equal(t, 18, slot.EndHour())
	})

	t.Run("midnight end counts as hour 24", func(t *testing.T) {
		slot := mustSlot(t, at(22), at(0).AddDate(0, 0, 1))
		assert.Equal(t, 24, slot.EndHour())
	})
}

func TestOpenHoursContains(t *testing.T) {
	nineToSix := booking.OpenHours{Open: 9, Close: 18}

	cases := []struct {
		name     string
		slot     [2]int
		contains bool
	}{
		{name: "inside window", slot: [2]int{10, 12}, contains: true},
		{name: "exactly the window", slot: [2]int{9, 18}, contains: true},
		{name: "starts before open", slot: [2]int{8, 12}, contains: false},
		{name: "ends after close", slot: [2]int{16, 20}, contains: false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			slot := mustSlot(t, at(c.slot[0]), at(c.slot[1]))
			assert.Equal(t, c.contains, nineToSix.Contains(slot))
		})
	}

	t.Run("always open accepts overnight slots", func(t *testing.T) {
		always := booking.OpenHours{Open: 0, Close: 24}
		require.True(t, always.AlwaysOpen())

		overnight := mustSlot(t, at(22), at(2).AddDate(0, 0, 1))
		assert.True(t, always.Contains(overnight))
	})

	t.Run("midnight end fits a window closing at 24", func(t *testing.T) {
		evening := booking.OpenHours{Open: 18, Close: 24}
		slot := mustSlot(t, at(22), at(0).AddDate(0, 0, 1))
		assert.True(t, evening.Contains(slot))
	})
}

func TestRole(t *testing.T) {
	assert.True(t, booking.RoleCreator.Valid())
	assert.True(t, booking.RoleMember.Valid())
	assert.False(t, booking.Role("owner").Valid())
}
