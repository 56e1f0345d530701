package bootstrap

import (
	"time"

	"cowork-booking/internal/pkg/clock"
	"cowork-booking/internal/pkg/config"

	"go.uber.org/fx"
)

// ClockModule provides the process-wide timezone and the clock reporting in
// it. Every wall-clock hour comparison in the engine goes through these.
var ClockModule = fx.Module("clock",
	fx.Provide(
		NewLocation,
		clock.NewRealClock,
	),
)

func NewLocation(cfg config.BookingConfig) (*time.Location, error) {
	return cfg.Location()
}
