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
	"cowork-booking/internal/pkg/metrics"
	"cowork-booking/internal/usecase/queries"
	"cowork-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound   = errs.New("booking not found")
	ErrNotCreator        = errs.New("only the booking creator may do this")
	ErrBookingElapsed    = errs.New("booking already ended")
	ErrEndsInPast        = errs.New("new end time is in the past")
	ErrStartMovedEarlier = errs.New("start time cannot move earlier")
	ErrGroupFull         = errs.New("booking group is full")
	ErrAlreadyMember     = errs.New("user already joined this booking")
	ErrWrongAccessCode   = errs.New("wrong access code")
)

type BookingCommands interface {
	Create(ctx context.Context, userID int64, req reqdto.CreateBookingRequest) (*queries.BookingView, error)
	Update(ctx context.Context, userID int64, bookingID uuid.UUID, req reqdto.UpdateBookingRequest) (*queries.BookingView, error)
	Cancel(ctx context.Context, userID int64, bookingID uuid.UUID) error
	Join(ctx context.Context, userID int64, bookingID uuid.UUID, req reqdto.JoinBookingRequest) error
}

type bookingCommandsImpl struct {
	uow       shared.UnitOfWork
	allocator *Allocator
	matcher   MatchRunner
	fanout    LiveFanout
	clock     clock.Clock
	loc       *time.Location
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	allocator *Allocator,
	matcher MatchRunner,
	fanout LiveFanout,
	clk clock.Clock,
	loc *time.Location,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:       uow,
		allocator: allocator,
		matcher:   matcher,
		fanout:    fanout,
		clock:     clk,
		loc:       loc,
	}
}

func (c *bookingCommandsImpl) Create(ctx context.Context, userID int64, req reqdto.CreateBookingRequest) (*queries.BookingView, error) {
	slot, err := booking.NewTimeSlot(req.TimeStart.In(c.loc), req.TimeEnd.In(c.loc))
	if err != nil {
		return nil, err
	}

	var view *queries.BookingView
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		v, err := c.allocator.Allocate(ctx, tx, AllocationRequest{
			UserID:       userID,
			SeatID:       req.SeatID,
			Slot:         slot,
			PeopleAmount: req.PeopleAmount,
			Features:     req.Features,
			Comment:      req.Comment,
		})
		if err != nil {
			return err
		}
		view = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.BookingsCreated.Inc()
	c.fanout.Notify(view.LocationID, bookingEvent(EventBookingCreated, view.SeatName, view.TimeStart, view.TimeEnd))
	return view, nil
}

func (c *bookingCommandsImpl) Update(ctx context.Context, userID int64, bookingID uuid.UUID, req reqdto.UpdateBookingRequest) (*queries.BookingView, error) {
	now := c.clock.Now()

	var snap *shared.BookingSnapshot
	var slot booking.TimeSlot
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		reads := tx.Reads()

		s, err := reads.BookingByID(ctx, bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrBookingNotFound)
			}
			return err
		}
		snap = s

		if err := c.requireCreator(ctx, reads, bookingID, userID); err != nil {
			return err
		}

		slot, err = booking.NewTimeSlot(req.TimeStart.In(c.loc), req.TimeEnd.In(c.loc))
		if err != nil {
			return err
		}
		if !slot.End().After(now) {
			return ErrEndsInPast
		}
		if slot.Start().Before(snap.TimeStart) {
			return ErrStartMovedEarlier
		}

		location, err := reads.LocationByID(ctx, snap.LocationID)
		if err != nil {
			return err
		}
		if !location.Hours.Contains(slot) {
			return booking.ErrOutsideOpenHours
		}

		free, err := reads.SeatFree(ctx, snap.SeatID, slot.Start(), slot.End(), &bookingID)
		if err != nil {
			return err
		}
		if !free {
			return ErrSeatOccupied
		}

		if err := tx.Bookings().UpdateSlot(ctx, tx.DB(), bookingID, slot, req.Features, req.Comment); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return errs.Mark(err, ErrSeatOccupied)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.fanout.Notify(snap.LocationID, bookingEvent(EventBookingUpdated, snap.SeatName, slot.Start(), slot.End()))
	if snap.SeatCapacity == 1 {
		// The hours given up by the move are candidates for queued requests.
		c.triggerMatch(snap.LocationID, snap.TimeStart, userID)
	}

	return &queries.BookingView{
		ID:           snap.ID,
		SeatID:       snap.SeatID,
		SeatName:     snap.SeatName,
		LocationID:   snap.LocationID,
		TimeStart:    slot.Start(),
		TimeEnd:      slot.End(),
		PeopleAmount: snap.PeopleAmount,
		Features:     req.Features,
		Comment:      req.Comment,
		Code:         snap.Code,
	}, nil
}

func (c *bookingCommandsImpl) Cancel(ctx context.Context, userID int64, bookingID uuid.UUID) error {
	now := c.clock.Now()

	var snap *shared.BookingSnapshot
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		reads := tx.Reads()

		s, err := reads.BookingByID(ctx, bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrBookingNotFound)
			}
			return err
		}
		snap = s

		if err := c.requireCreator(ctx, reads, bookingID, userID); err != nil {
			return err
		}
		if !snap.TimeEnd.After(now) {
			return ErrBookingElapsed
		}

		return tx.Bookings().Delete(ctx, tx.DB(), bookingID)
	})
	if err != nil {
		return err
	}

	metrics.BookingsCanceled.Inc()
	c.fanout.Notify(snap.LocationID, bookingEvent(EventBookingCanceled, snap.SeatName, snap.TimeStart, snap.TimeEnd))
	if snap.SeatCapacity == 1 {
		c.triggerMatch(snap.LocationID, snap.TimeStart, userID)
	}
	return nil
}

func (c *bookingCommandsImpl) Join(ctx context.Context, userID int64, bookingID uuid.UUID, req reqdto.JoinBookingRequest) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		reads := tx.Reads()

		snap, err := reads.BookingByID(ctx, bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrBookingNotFound)
			}
			return err
		}
		if snap.Code != req.Code {
			return ErrWrongAccessCode
		}

		count, err := reads.MemberCount(ctx, bookingID)
		if err != nil {
			return err
		}
		if count >= snap.PeopleAmount {
			return ErrGroupFull
		}

		if err := tx.Members().Add(ctx, tx.DB(), bookingID, userID, booking.RoleMember); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.Mark(err, ErrAlreadyMember)
			}
			return err
		}
		return nil
	})
}

func (c *bookingCommandsImpl) requireCreator(ctx context.Context, reads shared.CommandReads, bookingID uuid.UUID, userID int64) error {
	role, err := reads.MemberRole(ctx, bookingID, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, ErrNotCreator)
		}
		return err
	}
	if role != booking.RoleCreator {
		return ErrNotCreator
	}
	return nil
}

// triggerMatch starts a queue-match pass for the day whose hours were just
// freed. Fire-and-forget: the caller's request never waits on promotions.
func (c *bookingCommandsImpl) triggerMatch(locationID uuid.UUID, day time.Time, userID int64) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := c.matcher.Run(ctx, locationID, day, userID); err != nil {
			slog.Warn("queue match pass failed",
				"location_id", locationID,
				"error", err.Error())
		}
	}()
}
