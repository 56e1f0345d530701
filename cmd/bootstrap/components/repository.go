package components

import (
	"cowork-booking/internal/infra/db"
	"cowork-booking/internal/infra/readstore"
	"cowork-booking/internal/infra/uow"
	"cowork-booking/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		uow.NewPostgresUoW,

		fx.Annotate(
			readstore.NewLocationReadStore,
			fx.As(new(queries.LocationQueries)),
		),
		fx.Annotate(
			readstore.NewTimelineReadStore,
			fx.As(new(queries.TimelineQueries)),
		),
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingQueries)),
		),
		fx.Annotate(
			readstore.NewQueueReadStore,
			fx.As(new(queries.QueueQueries)),
		),
		fx.Annotate(
			readstore.NewLifecycleReadStore,
			fx.As(new(queries.LifecycleQueries)),
		),
	),
)
