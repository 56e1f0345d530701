package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"cowork-booking/internal/handler/api"
	"cowork-booking/internal/handler/middleware"
	"cowork-booking/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	authHandler *api.AuthHandler,
	bookingHandler *api.BookingHandler,
	queueHandler *api.QueueHandler,
	locationHandler *api.LocationHandler,
	liveHandler *api.LiveHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, authHandler, bookingHandler, queueHandler, locationHandler, liveHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	authHandler *api.AuthHandler,
	bookingHandler *api.BookingHandler,
	queueHandler *api.QueueHandler,
	locationHandler *api.LocationHandler,
	liveHandler *api.LiveHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/user", Handler: authHandler.RegisterUser},
				{Method: http.MethodPost, Path: "/admin/login", Handler: authHandler.AdminLogin},
			})
		}

		locations := apiGroup.Group("/locations")
		{
			addRoutes(locations, []route{
				{Method: http.MethodGet, Path: "", Handler: locationHandler.ListLocations},
				{Method: http.MethodGet, Path: "/:id", Handler: locationHandler.GetLocation},
				{Method: http.MethodGet, Path: "/:id/seats", Handler: locationHandler.ListSeats},
				{Method: http.MethodGet, Path: "/:id/timeline", Handler: locationHandler.GetTimeline},
				{Method: http.MethodGet, Path: "/:id/busy", Handler: locationHandler.GetBusySeats},
				{Method: http.MethodGet, Path: "/:id/ws", Handler: liveHandler.Subscribe},
			})
		}

		bookings := apiGroup.Group("/bookings")
		bookings.Use(authMiddleware.RequireAuth())
		{
			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "", Handler: bookingHandler.CreateBooking},
				{Method: http.MethodGet, Path: "", Handler: bookingHandler.GetMyBookings},
				{Method: http.MethodPut, Path: "/:id", Handler: bookingHandler.UpdateBooking},
				{Method: http.MethodDelete, Path: "/:id", Handler: bookingHandler.CancelBooking},
				{Method: http.MethodPost, Path: "/:id/join", Handler: bookingHandler.JoinBooking},
				{Method: http.MethodGet, Path: "/:id/members", Handler: bookingHandler.GetMembers},
			})
		}

		queue := apiGroup.Group("/queue")
		queue.Use(authMiddleware.RequireAuth())
		{
			addRoutes(queue, []route{
				{Method: http.MethodPost, Path: "", Handler: queueHandler.JoinQueue},
				{Method: http.MethodGet, Path: "", Handler: queueHandler.GetMyQueue},
				{Method: http.MethodDelete, Path: "/:id", Handler: queueHandler.LeaveQueue},
			})
		}

		admin := apiGroup.Group("/admin")
		admin.Use(authMiddleware.RequireAdmin())
		{
			addRoutes(admin, []route{
				{Method: http.MethodGet, Path: "/locations/:id/bookings", Handler: locationHandler.ListLocationBookings},
				{Method: http.MethodGet, Path: "/locations/:id/queue", Handler: locationHandler.ListLocationQueue},
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
