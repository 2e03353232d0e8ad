package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"consular-queue/internal/handler/api"
	"consular-queue/internal/handler/middleware"
	"consular-queue/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Procedure   *api.ProcedureHandler
	Appointment *api.AppointmentHandler
	Ticket      *api.TicketHandler
	Service     *api.ServiceHandler
	Queue       *api.QueueHandler
	Admin       *api.AdminHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, h, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := engine.Group("/api")
	{
		procedures := apiGroup.Group("/procedures")
		{
			addRoutes(procedures, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Procedure.ListProcedures},
				{Method: http.MethodGet, Path: "/:id/slots", Handler: h.Procedure.DaySlots},
			})
		}

		appointments := apiGroup.Group("/appointments")
		{
			// Citizen-facing: no authentication, identity is the document number.
			addRoutes(appointments, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Appointment.Book},
				{Method: http.MethodGet, Path: "/duplicate", Handler: h.Appointment.CheckDuplicate},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Appointment.Get},
				{Method: http.MethodDelete, Path: "/:id", Handler: h.Appointment.Cancel},
			})

			agentOnly := appointments.Group("")
			agentOnly.Use(authMiddleware.RequireAgent())
			addRoutes(agentOnly, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Appointment.ListDay},
				{Method: http.MethodPost, Path: "/:id/call", Handler: h.Appointment.Call},
			})

			// Reopening a completed record is a correction flow, admins only.
			adminOnly := appointments.Group("")
			adminOnly.Use(authMiddleware.RequireAgent(), authMiddleware.RequireAdmin())
			addRoutes(adminOnly, []route{
				{Method: http.MethodPost, Path: "/:id/reopen", Handler: h.Appointment.Reopen},
			})
		}

		tickets := apiGroup.Group("/tickets")
		{
			addRoutes(tickets, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Ticket.Create},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Ticket.Get},
			})

			agentOnly := tickets.Group("")
			agentOnly.Use(authMiddleware.RequireAgent())
			addRoutes(agentOnly, []route{
				{Method: http.MethodPost, Path: "/:id/call", Handler: h.Ticket.Call},
			})
		}

		service := apiGroup.Group("/service")
		service.Use(authMiddleware.RequireAgent())
		{
			addRoutes(service, []route{
				{Method: http.MethodPost, Path: "/finish", Handler: h.Service.Finish},
			})
		}

		queue := apiGroup.Group("/queue")
		queue.Use(authMiddleware.RequireAgent())
		{
			addRoutes(queue, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Queue.List},
				{Method: http.MethodGet, Path: "/next", Handler: h.Queue.Next},
			})
		}

		admin := apiGroup.Group("/admin")
		admin.Use(authMiddleware.RequireAgent(), authMiddleware.RequireAdmin())
		{
			addRoutes(admin, []route{
				{Method: http.MethodPost, Path: "/close-day", Handler: h.Admin.CloseDay},
				{Method: http.MethodPost, Path: "/reset-counters", Handler: h.Admin.ResetCounters},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
