package bootstrap

import (
	"cowork-booking/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	ClockModule,
	DBModule,
	JWTModule,
	components.RepositoryModule,
	components.UsecaseModule,
	components.HandlerModule,
	SchedulerModule,
)
