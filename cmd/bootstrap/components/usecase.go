package components

import (
	"consular-queue/internal/pkg/clock"
	"consular-queue/internal/usecase/commands"
	"consular-queue/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
	),
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAppointmentCommands,
		commands.NewTicketCommands,
		commands.NewClosureCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewAvailabilityQueries,
		queries.NewQueueQueries,
		queries.NewAppointmentQueries,
	),
)
