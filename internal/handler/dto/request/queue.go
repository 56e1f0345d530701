package request

import (
	"time"

	"github.com/google/uuid"
)

// JoinQueueRequest: a nil Date means "earliest available hour onward".
type JoinQueueRequest struct {
	LocationID uuid.UUID  `json:"location_id" binding:"required"`
	Date       *time.Time `json:"date,omitempty"`
	Hours      int        `json:"hours" binding:"required,min=1"`
	Comment    string     `json:"comment"`
}
