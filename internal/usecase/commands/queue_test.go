//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"cowork-booking/internal/domain/booking"
	reqdto "cowork-booking/internal/handler/dto/request"
	"cowork-booking/internal/pkg/clock"
	"cowork-booking/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type queueEnv struct {
	store  *fakeStore
	clock  *clock.MockClock
	fanout *fakeFanout
	cmds   commands.QueueCommands
}

func newQueueEnv() *queueEnv {
	store := newFakeStore()
	clk := clock.NewMockClock(testNow)
	fanout := &fakeFanout{}
	cmds := commands.NewQueueCommands(
		fakeUoW{s: store},
		commands.NewAllocator(clk),
		fakeTimelineQueries{s: store},
		fanout,
		clk,
		time.UTC,
	)
	return &queueEnv{store: store, clock: clk, fanout: fanout, cmds: cmds}
}

func TestQueueJoin(t *testing.T) {
	t.Run("free seat is booked on the spot", func(t *testing.T) {
		env := newQueueEnv()
		loc := env.store.addLocation(booking.OpenHours{Open: 0, Close: 24})
		seat := env.store.addSeat(loc.ID, "A1", 1)

		result, err := env.cmds.Join(context.Background(), 42, reqdto.JoinQueueRequest{
			LocationID: loc.ID,
			Hours:      2,
		})
		require.NoError(t, err)

		require.NotNil(t, result.Booking, "a free seat must not leave the user waiting")
		assert.Nil(t, result.Entry)
		assert.Empty(t, env.store.queue)
		assert.Equal(t, seat.ID, result.Booking.SeatID)
		assert.Equal(t, hourOn(testNow, 11), result.Booking.TimeStart, "undated join targets the next full hour")
		assert.Equal(t, hourOn(testNow, 13), result.Booking.TimeEnd)

		calls := env.fanout.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, commands.EventBookingCreated, calls[0].Event.Event)
		assert.Equal(t, seat.Name, calls[0].Event.TableID)
	})

	t.Run("dated request books at its own hour", func(t *testing.T) {
		env := newQueueEnv()
		loc := env.store.addLocation(booking.OpenHours{Open: 0, Close: 24})
		env.store.addSeat(loc.ID, "A1", 1)
		date := hourOn(testNow.AddDate(0, 0, 1), 15)

		result, err := env.cmds.Join(context.Background(), 42, reqdto.JoinQueueRequest{
			LocationID: loc.ID,
			Date:       &date,
			Hours:      3,
		})
		require.NoError(t, err)

		require.NotNil(t, result.Booking)
		assert.Equal(t, date, result.Booking.TimeStart)
		assert.Equal(t, date.Add(3*time.Hour), result.Booking.TimeEnd)
		assert.Empty(t, env.store.queue)
	})

	t.Run("busy seat falls back to the queue", func(t *testing.T) {
		env := newQueueEnv()
		loc := env.store.addLocation(booking.OpenHours{Open: 0, Close: 24})
		seat := env.store.addSeat(loc.ID, "A1", 1)
		env.store.addBooking(8, seat, hourOn(testNow, 11), hourOn(testNow, 13))

		result, err := env.cmds.Join(context.Background(), 42, reqdto.JoinQueueRequest{
			LocationID: loc.ID,
			Hours:      2,
			Comment:    "any seat works",
		})
		require.NoError(t, err)

		assert.Nil(t, result.Booking)
		require.NotNil(t, result.Entry)
		assert.Nil(t, result.Entry.Date)
		assert.Equal(t, 2, result.Entry.Hours)
		assert.Equal(t, int64(42), result.Entry.UserID)
		assert.Equal(t, testNow, result.Entry.CreatedAt)
		assert.Len(t, env.store.queue, 1)
		assert.Empty(t, env.fanout.Calls())
	})

	t.Run("shared seats never auto-book", func(t *testing.T) {
		env := newQueueEnv()
		loc := env.store.addLocation(booking.OpenHours{Open: 0, Close: 24})
		env.store.addSeat(loc.ID, "Big table", 6)

		result, err := env.cmds.Join(context.Background(), 42, reqdto.JoinQueueRequest{
			LocationID: loc.ID,
			Hours:      2,
		})
		require.NoError(t, err)

		assert.Nil(t, result.Booking)
		require.NotNil(t, result.Entry)
		assert.Len(t, env.store.queue, 1)
	})

	t.Run("allocation race degrades to queueing", func(t *testing.T) {
		env := newQueueEnv()
		loc := env.store.addLocation(booking.OpenHours{Open: 0, Close: 24})
		env.store.addSeat(loc.ID, "A1", 1)
		other := env.store.addSeat(loc.ID, "A2", 1)
		// An existing same-day booking makes the allocator refuse, even
		// though the bitmap shows a free seat.
		env.store.addBooking(42, other, hourOn(testNow, 8), hourOn(testNow, 9))

		result, err := env.cmds.Join(context.Background(), 42, reqdto.JoinQueueRequest{
			LocationID: loc.ID,
			Hours:      2,
		})
		require.NoError(t, err)

		assert.Nil(t, result.Booking)
		require.NotNil(t, result.Entry)
		assert.Len(t, env.store.bookings, 1, "the refused allocation writes nothing")
	})

	t.Run("request outside open hours", func(t *testing.T) {
		env := newQueueEnv()
		loc := env.store.addLocation(booking.OpenHours{Open: 9, Close: 18})
		env.store.addSeat(loc.ID, "A1", 1)
		date := hourOn(testNow.AddDate(0, 0, 1), 17)

		_, err := env.cmds.Join(context.Background(), 42, reqdto.JoinQueueRequest{
			LocationID: loc.ID,
			Date:       &date,
			Hours:      3,
		})
		assert.ErrorIs(t, err, booking.ErrOutsideOpenHours)
		assert.Empty(t, env.store.queue)
		assert.Empty(t, env.store.bookings)
	})

	t.Run("date already passed", func(t *testing.T) {
		env := newQueueEnv()
		loc := env.store.addLocation(booking.OpenHours{Open: 0, Close: 24})
		date := hourOn(testNow, 8)

		_, err := env.cmds.Join(context.Background(), 42, reqdto.JoinQueueRequest{
			LocationID: loc.ID,
			Date:       &date,
			Hours:      2,
		})
		assert.ErrorIs(t, err, commands.ErrQueueDateElapsed)
		assert.Empty(t, env.store.queue)
	})

	t.Run("unknown location", func(t *testing.T) {
		env := newQueueEnv()

		_, err := env.cmds.Join(context.Background(), 42, reqdto.JoinQueueRequest{
			LocationID: uuid.New(),
			Hours:      2,
		})
		assert.ErrorIs(t, err, commands.ErrLocationNotFound)
	})

	t.Run("one entry per user per day", func(t *testing.T) {
		env := newQueueEnv()
		loc := env.store.addLocation(booking.OpenHours{Open: 0, Close: 24})
		env.store.addQueueEntry(loc.ID, 42, nil, 2)

		_, err := env.cmds.Join(context.Background(), 42, reqdto.JoinQueueRequest{
			LocationID: loc.ID,
			Hours:      2,
		})
		assert.ErrorIs(t, err, commands.ErrQueueEntryExists)
	})
}

func TestQueueLeave(t *testing.T) {
	t.Run("owner removes the entry", func(t *testing.T) {
		env := newQueueEnv()
		loc := env.store.addLocation(booking.OpenHours{Open: 0, Close: 24})
		entry := env.store.addQueueEntry(loc.ID, 42, nil, 2)

		err := env.cmds.Leave(context.Background(), 42, entry.ID)
		require.NoError(t, err)
		assert.Empty(t, env.store.queue)
	})

	t.Run("someone else's entry looks like not found", func(t *testing.T) {
		env := newQueueEnv()
		loc := env.store.addLocation(booking.OpenHours{Open: 0, Close: 24})
		entry := env.store.addQueueEntry(loc.ID, 42, nil, 2)

		err := env.cmds.Leave(context.Background(), 99, entry.ID)
		assert.ErrorIs(t, err, commands.ErrQueueEntryNotFound)
		assert.Len(t, env.store.queue, 1)
	})

	t.Run("unknown entry", func(t *testing.T) {
		env := newQueueEnv()

		err := env.cmds.Leave(context.Background(), 42, uuid.New())
		assert.ErrorIs(t, err, commands.ErrQueueEntryNotFound)
	})
}
