package components

import (
	"consular-queue/internal/handler"
	"consular-queue/internal/handler/api"
	"consular-queue/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewProcedureHandler,
		api.NewAppointmentHandler,
		api.NewTicketHandler,
		api.NewServiceHandler,
		api.NewQueueHandler,
		api.NewAdminHandler,
		middleware.NewAuthMiddleware,
		newHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func newHandlers(
	procedure *api.ProcedureHandler,
	appointment *api.AppointmentHandler,
	ticket *api.TicketHandler,
	service *api.ServiceHandler,
	queue *api.QueueHandler,
	admin *api.AdminHandler,
) handler.Handlers {
	return handler.Handlers{
		Procedure:   procedure,
		Appointment: appointment,
		Ticket:      ticket,
		Service:     service,
		Queue:       queue,
		Admin:       admin,
	}
}
