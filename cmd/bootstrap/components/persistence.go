package components

import (
	"consular-queue/internal/infra/readstore"
	"consular-queue/internal/infra/repository"
	"consular-queue/internal/infra/uow"
	"consular-queue/internal/usecase/commands"
	"consular-queue/internal/usecase/queries"

	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		// UnitOfWork
		uow.NewPostgresUoW,
		// Procedure
		fx.Annotate(
			readstore.NewProcedureReadStore,
			fx.As(new(commands.ProcedureStore)),
			fx.As(new(queries.ProcedureReader)),
		),
		// Appointment reads
		fx.Annotate(
			readstore.NewAppointmentReadStore,
			fx.As(new(commands.BookingReads)),
			fx.As(new(commands.ClosureReads)),
			fx.As(new(queries.AppointmentReader)),
		),
		// Ticket reads
		fx.Annotate(
			readstore.NewTicketReadStore,
			fx.As(new(commands.TicketReads)),
			fx.As(new(queries.TicketReader)),
		),
		// Holiday calendar
		fx.Annotate(
			readstore.NewHolidayReadStore,
			fx.As(new(queries.HolidayReader)),
		),
		// Out-of-transaction lock release (cancellation path)
		fx.Annotate(
			repository.NewLockRepository,
			fx.As(new(commands.LockReleaser)),
		),
		// Kiosk counter reset
		fx.Annotate(
			repository.NewSequenceRepository,
			fx.As(new(commands.CounterReset)),
		),
		// Notification outbox for the sweep job
		repository.NewNotificationRepository,
	),
)
