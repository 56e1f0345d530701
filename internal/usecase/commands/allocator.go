package commands

import (
	"context"

	"cowork-booking/internal/domain/booking"
	"cowork-booking/internal/infra"
	"cowork-booking/internal/pkg/clock"
	"cowork-booking/internal/pkg/errs"
	"cowork-booking/internal/usecase/queries"
	"cowork-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrLocationNotFound    = errs.New("location not found")
	ErrSeatNotFound        = errs.New("seat not found")
	ErrSeatOccupied        = errs.New("seat already occupied in the requested window")
	ErrDuplicateDayBooking = errs.New("user already has a booking in this location that day")
)

// AllocationRequest is one validated-and-persist attempt: the direct booking
// path and the queue matcher both go through it.
type AllocationRequest struct {
	UserID       int64
	SeatID       uuid.UUID
	Slot         booking.TimeSlot
	PeopleAmount int
	Features     []string
	Comment      string
}

// Allocator creates a reservation inside a caller-supplied transaction:
// same-day duplicate check, overlap check, domain validation, insert, and
// creator membership, all or nothing. The reads go through the transaction so
// they see its own uncommitted writes.
type Allocator struct {
	clock clock.Clock
}

func NewAllocator(clk clock.Clock) *Allocator {
	return &Allocator{clock: clk}
}

func (a *Allocator) Allocate(ctx context.Context, tx shared.Tx, req AllocationRequest) (*queries.BookingView, error) {
	reads := tx.Reads()

	seat, err := reads.SeatByID(ctx, req.SeatID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrSeatNotFound)
		}
		return nil, err
	}

	location, err := reads.LocationByID(ctx, seat.LocationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrLocationNotFound)
		}
		return nil, err
	}

	taken, err := reads.UserHasBookingOn(ctx, req.UserID, seat.LocationID, req.Slot.Start())
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicateDayBooking
	}

	free, err := reads.SeatFree(ctx, seat.ID, req.Slot.Start(), req.Slot.End(), nil)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, ErrSeatOccupied
	}

	res, err := booking.NewReservation(seat.Spec(location.Hours), req.Slot, req.PeopleAmount, req.Features, req.Comment)
	if err != nil {
		return nil, err
	}

	id, err := tx.Bookings().Create(ctx, tx.DB(), res)
	if err != nil {
		// A concurrent writer won the slot between the check and the insert.
		if infra.IsKind(err, infra.KindConflict) {
			return nil, errs.Mark(err, ErrSeatOccupied)
		}
		return nil, err
	}

	if err := tx.Members().Add(ctx, tx.DB(), id, req.UserID, booking.RoleCreator); err != nil {
		return nil, errs.Wrap(err, "failed to enroll creator")
	}

	return &queries.BookingView{
		ID:           id,
		SeatID:       seat.ID,
		SeatName:     seat.Name,
		LocationID:   seat.LocationID,
		TimeStart:    req.Slot.Start(),
		TimeEnd:      req.Slot.End(),
		PeopleAmount: res.PeopleAmount(),
		Features:     res.Features(),
		Comment:      res.Comment(),
		Code:         res.Code(),
		CreatedAt:    a.clock.Now(),
	}, nil
}
