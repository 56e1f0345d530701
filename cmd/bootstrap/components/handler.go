package components

import (
	"cowork-booking/internal/handler"
	"cowork-booking/internal/handler/api"
	"cowork-booking/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		middleware.NewAuthMiddleware,

		api.NewAuthHandler,
		api.NewBookingHandler,
		api.NewQueueHandler,
		api.NewLocationHandler,
		api.NewLiveHandler,
	),
	fx.Invoke(handler.NewRouter),
)
