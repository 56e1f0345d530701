package components

import (
	"cowork-booking/internal/infra/broker"
	"cowork-booking/internal/infra/ws"
	"cowork-booking/internal/usecase/commands"

	"go.uber.org/fx"
)

var UsecaseModule = fx.Module("usecase",
	fx.Provide(
		fx.Annotate(
			ws.NewHub,
			fx.As(new(commands.LiveFanout)),
			fx.As(fx.Self()),
		),
		fx.Annotate(
			broker.NewPublisher,
			fx.As(new(commands.DirectNotifier)),
		),

		commands.NewAllocator,
		fx.Annotate(
			commands.NewQueueMatcher,
			fx.As(new(commands.MatchRunner)),
		),
		commands.NewBookingCommands,
		commands.NewQueueCommands,
		commands.NewAuthCommands,
	),
)
