package booking

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
)

// SeatSpec is the slice of seat/location state the entity needs for
// validation; the full rows stay in the read side.
type SeatSpec struct {
	ID         uuid.UUID
	LocationID uuid.UUID
	Name       string
	Capacity   int
	Hours      OpenHours
}

func (s SeatSpec) SingleOccupant() bool {
	return s.Capacity == 1
}

type Reservation struct {
	id           uuid.UUID
	seatID       uuid.UUID
	slot         TimeSlot
	peopleAmount int
	features     []string
	comment      string
	code         string
}

// NewReservation validates a reservation request against the seat. The
// per-seat overlap and per-user-per-day rules need storage state and are
// enforced by the allocator inside its transaction.
func NewReservation(
	seat SeatSpec,
	slot TimeSlot,
	peopleAmount int,
	features []string,
	comment string,
) (*Reservation, error) {
	if peopleAmount < 1 {
		peopleAmount = 1
	}
	if peopleAmount > seat.Capacity {
		return nil, ErrCapacityExceeded
	}
	if !seat.Hours.Contains(slot) {
		return nil, ErrOutsideOpenHours
	}

	return &Reservation{
		id:           uuid.New(),
		seatID:       seat.ID,
		slot:         slot,
		peopleAmount: peopleAmount,
		features:     features,
		comment:      comment,
		code:         newAccessCode(),
	}, nil
}

func (r *Reservation) ID() uuid.UUID      { return r.id }
func (r *Reservation) SeatID() uuid.UUID  { return r.seatID }
func (r *Reservation) Slot() TimeSlot     { return r.slot }
func (r *Reservation) PeopleAmount() int  { return r.peopleAmount }
func (r *Reservation) Features() []string { return r.features }
func (r *Reservation) Comment() string    { return r.comment }
func (r *Reservation) Code() string       { return r.code }

// newAccessCode returns the short human-facing code shown at the front desk.
func newAccessCode() string {
	return fmt.Sprintf("%04d", rand.IntN(10000))
}
