// Package api is the local HTTP gateway between the booking UI and the
// reservation backend.
//
// @title        Reservation Gateway API
// @version      1.0
// @description  Local gateway between the hotel booking UI and the reservation backend.
// @BasePath     /
package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/hotelbooking/reservation-client/internal/api/docs"
	"github.com/hotelbooking/reservation-client/internal/api/handler"
	"github.com/hotelbooking/reservation-client/internal/api/middleware"
	"github.com/hotelbooking/reservation-client/internal/core/domain"
	"github.com/hotelbooking/reservation-client/internal/core/ports"
	"github.com/hotelbooking/reservation-client/internal/core/service"
)

// Deps is everything the router wires into handlers. Journal and Receipts
// are nil when no receipt journal is configured.
type Deps struct {
	Session   ports.SessionManager
	Auth      ports.AuthGateway
	Rooms     ports.RoomCatalog
	Bookings  ports.BookingDirectory
	Workflows *service.WorkflowRegistry
	Journal   ports.ReceiptJournal
	Receipts  ports.ReceiptRepository
	Checks    map[string]handler.Check
	// Registry receives the HTTP middleware metrics. A fresh registry is
	// used when nil so several routers can coexist in one process.
	Registry *prometheus.Registry
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	reg := d.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "gateway",
		Registerer: reg,
	}))

	// --- Handlers ---
	sessionHandler := handler.NewSessionHandler(d.Session, d.Auth, d.Log)
	userHandler := handler.NewUserHandler(d.Auth)
	roomHandler := handler.NewRoomHandler(d.Rooms)
	bookingHandler := handler.NewBookingHandler(handler.BookingDeps{
		Bookings:  d.Bookings,
		Rooms:     d.Rooms,
		Workflows: d.Workflows,
		Journal:   d.Journal,
		Receipts:  d.Receipts,
		Log:       d.Log,
	})
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Checks)

	requireSession := middleware.RequireSession(d.Session)
	requireAdmin := middleware.RequireRole(domain.RoleAdmin)

	// --- Health probes, metrics and docs (no session required) ---
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{prometheus.DefaultGatherer, reg},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Session ---
	e.GET("/session", sessionHandler.Get)
	e.POST("/session/login", sessionHandler.Login)
	e.POST("/session/logout", sessionHandler.Logout)
	e.POST("/session/refresh", sessionHandler.Refresh)

	// --- Public catalog ---
	e.POST("/users", userHandler.Register)
	e.GET("/rooms", roomHandler.List)
	e.GET("/rooms/types", roomHandler.Types)
	e.GET("/rooms/available", roomHandler.Available)
	e.GET("/rooms/:id", roomHandler.Get)
	e.POST("/bookings/quote", bookingHandler.Quote)

	// --- Signed-in routes ---
	me := e.Group("/me", requireSession)
	me.GET("", userHandler.Me)
	me.POST("/password", userHandler.ChangePassword)

	bookings := e.Group("/bookings", requireSession)
	bookings.POST("", bookingHandler.Create)
	bookings.GET("/mine", bookingHandler.Mine)
	bookings.GET("/receipts", bookingHandler.Receipts)
	bookings.GET("/code/:code", bookingHandler.ByCode)
	bookings.PUT("/:id/cancel", bookingHandler.Cancel)

	// --- Admin routes ---
	admin := e.Group("/admin", requireSession, requireAdmin)
	admin.GET("/bookings", bookingHandler.All)
	admin.POST("/rooms", roomHandler.Create)
	admin.PUT("/rooms/:id", roomHandler.Update)
	admin.DELETE("/rooms/:id", roomHandler.Delete)
	admin.GET("/users/:id", userHandler.Profile)
	admin.DELETE("/users/:id", userHandler.Delete)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
