package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cowork-booking/internal/domain/booking"
	"cowork-booking/internal/pkg/clock"
	"cowork-booking/internal/pkg/errs"
	"cowork-booking/internal/pkg/metrics"
	"cowork-booking/internal/usecase/queries"
	"cowork-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// QueueMatcher promotes queued requests into concrete reservations whenever a
// single-occupant seat frees hours. One pass walks the location's entries
// newest first; each entry is either promoted once or left for a later pass,
// so the pass terminates after at most len(entries) iterations and no entry
// is ever matched twice.
type QueueMatcher struct {
	uow       shared.UnitOfWork
	allocator *Allocator
	timelines queries.TimelineQueries
	queue     queries.QueueQueries
	fanout    LiveFanout
	notifier  DirectNotifier
	clock     clock.Clock
	loc       *time.Location
}

func NewQueueMatcher(
	uow shared.UnitOfWork,
	allocator *Allocator,
	timelines queries.TimelineQueries,
	queue queries.QueueQueries,
	fanout LiveFanout,
	notifier DirectNotifier,
	clk clock.Clock,
	loc *time.Location,
) *QueueMatcher {
	return &QueueMatcher{
		uow:       uow,
		allocator: allocator,
		timelines: timelines,
		queue:     queue,
		fanout:    fanout,
		notifier:  notifier,
		clock:     clk,
		loc:       loc,
	}
}

func (m *QueueMatcher) Run(ctx context.Context, locationID uuid.UUID, day time.Time, triggeredBy int64) error {
	entries, err := m.queue.ForLocationDay(ctx, locationID, day)
	if err != nil {
		return errs.Wrap(err, "failed to load queue entries")
	}
	if len(entries) == 0 {
		return nil
	}

	filter := queries.TimelineFilter{
		LocationID:         locationID,
		Date:               day,
		TwoDays:            true,
		SingleOccupantOnly: true,
	}
	timelines, err := m.timelines.SeatTimelines(ctx, filter)
	if err != nil {
		return errs.Wrap(err, "failed to build seat timelines")
	}
	if len(timelines) == 0 {
		return nil
	}

	local := day.In(m.loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, m.loc)

	for _, entry := range entries {
		if entry.UserID == triggeredBy {
			// The user whose own cancellation started this pass must not
			// immediately reclaim the slot they gave up.
			continue
		}

		candidate := m.candidateHour(dayStart, entry.Date)
		if candidate < 0 {
			candidate = 0
		}

		seat, startIdx, ok := pickSeat(timelines, candidate, entry.Hours)
		if !ok {
			continue
		}

		start := dayStart.Add(time.Duration(startIdx) * time.Hour)
		slot, err := booking.NewTimeSlot(start, start.Add(time.Duration(entry.Hours)*time.Hour))
		if err != nil {
			continue
		}

		view, err := m.promote(ctx, entry, seat.SeatID, slot)
		if err != nil {
			// Likely a race with a direct booking. The entry stays queued and
			// gets another chance on the next pass.
			slog.Warn("queue promotion failed",
				"entry_id", entry.ID,
				"seat_id", seat.SeatID,
				"error", err.Error())
			continue
		}

		metrics.QueuePromotions.Inc()
		m.fanout.Notify(locationID, bookingEvent(EventBookingCreated, view.SeatName, view.TimeStart, view.TimeEnd))
		m.sendPromotionNotice(ctx, entry.UserID, view)

		// The promoted reservation invalidates the bitmaps.
		timelines, err = m.timelines.SeatTimelines(ctx, filter)
		if err != nil {
			return errs.Wrap(err, "failed to rebuild seat timelines")
		}
	}
	return nil
}

// candidateHour is the bitmap index matching may start from: the entry's own
// requested hour, or the next full hour for an undated entry.
func (m *QueueMatcher) candidateHour(dayStart time.Time, date *time.Time) int {
	if date != nil {
		return int(date.In(m.loc).Sub(dayStart) / time.Hour)
	}
	next := m.clock.Now().In(m.loc).Truncate(time.Hour).Add(time.Hour)
	return int(next.Sub(dayStart) / time.Hour)
}

// pickSeat selects the seat with the widest free run at or after the
// candidate hour, then places the request at the first block that fits.
func pickSeat(timelines []*queries.SeatTimeline, candidate, hours int) (*queries.SeatTimeline, int, bool) {
	var best *queries.SeatTimeline
	bestRun := 0
	for _, tl := range timelines {
		if run := tl.Hours.MaxFreeRun(candidate); run > bestRun {
			bestRun = run
			best = tl
		}
	}
	if best == nil || bestRun < hours {
		return nil, 0, false
	}
	startIdx, ok := best.Hours.FreeRunStart(candidate, hours)
	if !ok {
		return nil, 0, false
	}
	return best, startIdx, true
}

// promote creates the reservation and removes the queue entry in one
// transaction, so a crash between the two cannot double-promote the entry.
func (m *QueueMatcher) promote(ctx context.Context, entry *queries.QueueEntryView, seatID uuid.UUID, slot booking.TimeSlot) (*queries.BookingView, error) {
	var view *queries.BookingView
	err := m.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		v, err := m.allocator.Allocate(ctx, tx, AllocationRequest{
			UserID:       entry.UserID,
			SeatID:       seatID,
			Slot:         slot,
			PeopleAmount: 1,
			Comment:      entry.Comment,
		})
		if err != nil {
			return err
		}
		view = v
		return tx.Queue().Delete(ctx, tx.DB(), entry.ID)
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (m *QueueMatcher) sendPromotionNotice(ctx context.Context, userID int64, view *queries.BookingView) {
	text := fmt.Sprintf(
		"A spot opened up: seat %s, %s - %s. Access code %s.",
		view.SeatName,
		view.TimeStart.Format("02.01 15:04"),
		view.TimeEnd.Format("15:04"),
		view.Code,
	)
	cancel := Action{Label: "Cancel booking", Command: "cancel_booking:" + view.ID.String()}
	if err := m.notifier.Send(ctx, userID, text, cancel); err != nil {
		slog.Warn("promotion notice delivery failed", "user_id", userID, "error", err.Error())
	}
}
