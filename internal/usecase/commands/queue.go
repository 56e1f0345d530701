package commands

import (
	"context"
	"log/slog"
	"time"

	"cowork-booking/internal/domain/booking"
	reqdto "cowork-booking/internal/handler/dto/request"
	"cowork-booking/internal/infra"
	"cowork-booking/internal/pkg/clock"
	"cowork-booking/internal/pkg/errs"
	"cowork-booking/internal/usecase/queries"
	"cowork-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrQueueEntryExists   = errs.New("queue entry already exists for this day")
	ErrQueueEntryNotFound = errs.New("queue entry not found")
	ErrQueueDateElapsed   = errs.New("queue date already passed")
)

// JoinQueueResult carries exactly one of the two join outcomes: the
// reservation booked on the spot when a seat was free, or the queue entry
// waiting for the matcher.
type JoinQueueResult struct {
	Booking *queries.BookingView    `json:"booking,omitempty"`
	Entry   *queries.QueueEntryView `json:"entry,omitempty"`
}

type QueueCommands interface {
	Join(ctx context.Context, userID int64, req reqdto.JoinQueueRequest) (*JoinQueueResult, error)
	Leave(ctx context.Context, userID int64, entryID uuid.UUID) error
}

type queueCommandsImpl struct {
	uow       shared.UnitOfWork
	allocator *Allocator
	timelines queries.TimelineQueries
	fanout    LiveFanout
	clock     clock.Clock
	loc       *time.Location
}

func NewQueueCommands(
	uow shared.UnitOfWork,
	allocator *Allocator,
	timelines queries.TimelineQueries,
	fanout LiveFanout,
	clk clock.Clock,
	loc *time.Location,
) QueueCommands {
	return &queueCommandsImpl{
		uow:       uow,
		allocator: allocator,
		timelines: timelines,
		fanout:    fanout,
		clock:     clk,
		loc:       loc,
	}
}

// Join books a free single-occupant seat on the spot when the location has
// one for the whole requested window; only when every seat is taken does the
// request enter the queue. An undated request targets the next full hour.
func (c *queueCommandsImpl) Join(ctx context.Context, userID int64, req reqdto.JoinQueueRequest) (*JoinQueueResult, error) {
	now := c.clock.Now()

	start := now.In(c.loc).Truncate(time.Hour).Add(time.Hour)
	var date *time.Time
	if req.Date != nil {
		d := req.Date.In(c.loc)
		if !d.After(now) {
			return nil, ErrQueueDateElapsed
		}
		date = &d
		start = d
	}

	slot, err := booking.NewTimeSlot(start, start.Add(time.Duration(req.Hours)*time.Hour))
	if err != nil {
		return nil, err
	}

	reads := c.uow.CommandReads()

	location, err := reads.LocationByID(ctx, req.LocationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrLocationNotFound)
		}
		return nil, err
	}
	if !location.Hours.Contains(slot) {
		return nil, booking.ErrOutsideOpenHours
	}

	queued, err := reads.UserQueuedOn(ctx, userID, start)
	if err != nil {
		return nil, err
	}
	if queued {
		return nil, ErrQueueEntryExists
	}

	if view, ok := c.bookFreeSeat(ctx, userID, req.LocationID, slot, req.Hours, req.Comment); ok {
		c.fanout.Notify(view.LocationID, bookingEvent(EventBookingCreated, view.SeatName, view.TimeStart, view.TimeEnd))
		return &JoinQueueResult{Booking: view}, nil
	}

	var entry *queries.QueueEntryView
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, err := tx.Queue().Create(ctx, tx.DB(), shared.NewQueueEntry{
			LocationID: req.LocationID,
			UserID:     userID,
			Date:       date,
			Hours:      req.Hours,
			Comment:    req.Comment,
		})
		if err != nil {
			return err
		}

		entry = &queries.QueueEntryView{
			ID:        id,
			UserID:    userID,
			Date:      date,
			Hours:     req.Hours,
			Comment:   req.Comment,
			CreatedAt: now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &JoinQueueResult{Entry: entry}, nil
}

// bookFreeSeat tries each single-occupant seat whose bitmap is free for the
// exact window. Any failure falls through to queueing, so a race with a
// direct booking degrades to a wait instead of an error.
func (c *queueCommandsImpl) bookFreeSeat(ctx context.Context, userID int64, locationID uuid.UUID, slot booking.TimeSlot, hours int, comment string) (*queries.BookingView, bool) {
	filter := queries.TimelineFilter{
		LocationID:         locationID,
		Date:               slot.Start(),
		TwoDays:            true,
		SingleOccupantOnly: true,
	}
	timelines, err := c.timelines.SeatTimelines(ctx, filter)
	if err != nil {
		slog.Warn("seat scan failed, queueing instead", "location_id", locationID, "error", err.Error())
		return nil, false
	}

	local := slot.Start().In(c.loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.loc)
	fromIdx := int(slot.Start().Sub(dayStart) / time.Hour)

	for _, tl := range timelines {
		idx, ok := tl.Hours.FreeRunStart(fromIdx, hours)
		if !ok || idx != fromIdx {
			continue
		}

		var view *queries.BookingView
		err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			v, err := c.allocator.Allocate(ctx, tx, AllocationRequest{
				UserID:       userID,
				SeatID:       tl.SeatID,
				Slot:         slot,
				PeopleAmount: 1,
				Comment:      comment,
			})
			if err != nil {
				return err
			}
			view = v
			return nil
		})
		if err != nil {
			slog.Warn("immediate booking failed, queueing instead",
				"seat_id", tl.SeatID,
				"error", err.Error())
			return nil, false
		}
		return view, true
	}
	return nil, false
}

func (c *queueCommandsImpl) Leave(ctx context.Context, userID int64, entryID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Queue().DeleteOwned(ctx, tx.DB(), entryID, userID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrQueueEntryNotFound)
			}
			return err
		}
		return nil
	})
}
