package request

import (
	"time"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	SeatID       uuid.UUID `json:"seat_id" binding:"required"`
	TimeStart    time.Time `json:"time_start" binding:"required"`
	TimeEnd      time.Time `json:"time_end" binding:"required"`
	PeopleAmount int       `json:"people_amount"`
	Features     []string  `json:"features"`
	Comment      string    `json:"comment"`
}

type UpdateBookingRequest struct {
	TimeStart time.Time `json:"time_start" binding:"required"`
	TimeEnd   time.Time `json:"time_end" binding:"required"`
	Features  []string  `json:"features"`
	Comment   string    `json:"comment"`
}

type JoinBookingRequest struct {
	Code string `json:"code" binding:"required"`
}
