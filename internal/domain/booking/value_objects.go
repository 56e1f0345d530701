package booking

import (
	"errors"
	"time"
)

var (
	ErrInvalidTimeSlot  = errors.New("start time must be before end time")
	ErrOutsideOpenHours = errors.New("time slot outside location open hours")
	ErrCapacityExceeded = errors.New("people amount exceeds seat capacity")
)

// TimeSlot is a half-open interval [start, end).
type TimeSlot struct {
	start time.Time
	end   time.Time
}

func NewTimeSlot(start, end time.Time) (TimeSlot, error) {
	if !start.Before(end) {
		return TimeSlot{}, ErrInvalidTimeSlot
	}
	return TimeSlot{start: start, end: end}, nil
}

func (ts TimeSlot) Start() time.Time {
	return ts.start
}

func (ts TimeSlot) End() time.Time {
	return ts.end
}

func (ts TimeSlot) Duration() time.Duration {
	return ts.end.Sub(ts.start)
}

// Overlaps reports whether two half-open intervals intersect:
// a.start < b.end AND b.start < a.end.
func (ts TimeSlot) Overlaps(other TimeSlot) bool {
	return ts.start.Before(other.end) && other.start.Before(ts.end)
}

// EndHour is the wall-clock hour of the slot end, with an end falling exactly
// on the following midnight counted as hour 24 of the start day.
func (ts TimeSlot) EndHour() int {
	h := ts.end.Hour()
	if h == 0 && ts.end.After(ts.start) {
		return HoursAlwaysOpenClose
	}
	return h
}

const (
	HoursAlwaysOpenStart = 0
	HoursAlwaysOpenClose = 24
)

// OpenHours is a location's daily operating window. Open 0 together with
// close 24 is the "always open" sentinel.
type OpenHours struct {
	Open  int
	Close int
}

func (oh OpenHours) AlwaysOpen() bool {
	return oh.Open == HoursAlwaysOpenStart && oh.Close == HoursAlwaysOpenClose
}

func (oh OpenHours) Contains(ts TimeSlot) bool {
	if oh.AlwaysOpen() {
		return true
	}
	return ts.Start().Hour() >= oh.Open && ts.EndHour() <= oh.Close
}

type Role string

const (
	RoleCreator Role = "creator"
	RoleMember  Role = "member"
)

func (r Role) Valid() bool {
	return r == RoleCreator || r == RoleMember
}

// Flags are the four independent one-shot notification markers. Each
// transitions false to true at most once over a reservation's lifetime.
type Flags struct {
	PreEnd      bool
	PreStart    bool
	ClientEnd   bool
	ClientStart bool
}

type Flag string

const (
	FlagPreEnd      Flag = "pre_end"
	FlagPreStart    Flag = "pre_start"
	FlagClientEnd   Flag = "client_end"
	FlagClientStart Flag = "client_start"
)
