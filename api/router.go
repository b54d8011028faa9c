package api

import (
	"net/http"
	"path/filepath"

	"github.com/Domenick1991/flightbooking/internal/service/auth"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/Domenick1991/flightbooking/internal/service/notifications"
	"github.com/Domenick1991/flightbooking/internal/service/reporting"
	"github.com/Domenick1991/flightbooking/internal/telemetry"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

type Services struct {
	Flights       flights.FlightUseCase
	Bookings      booking.BookingUseCase
	Reporting     reporting.ReportingUseCase
	Auth          auth.AuthUseCase
	Notifications notifications.NotificationUseCase
	Realtime      Subscriber
}

type RouterOptions struct {
	Logger     *zap.Logger
	SwaggerDir string
	Tracing    bool
}

const swaggerFile = "flightbooking.swagger.json"

func NewRouter(svc Services, opts RouterOptions) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(log))
	if opts.Tracing {
		router.Use(telemetry.Middleware())
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if opts.SwaggerDir != "" {
		router.StaticFile("/swagger/doc.json", filepath.Join(opts.SwaggerDir, swaggerFile))
		router.GET("/swagger/ui/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json"))))
	}

	v1 := router.Group("/api/v1")

	NewFlightHandler(svc.Flights).Register(v1.Group("/flights"))
	authHandler := NewAuthHandler(svc.Auth)
	authHandler.Register(v1.Group("/auth"))

	private := v1.Group("", RequireAuth(svc.Auth))
	authHandler.RegisterSession(private.Group("/auth"))
	NewSeatMapHandler(svc.Flights, svc.Bookings).Register(private)
	NewBookingHandler(svc.Bookings, svc.Flights).Register(private.Group("/bookings"))
	NewNotificationHandler(svc.Notifications).Register(private.Group("/notifications"))
	if svc.Realtime != nil {
		NewRealtimeHandler(svc.Realtime).Register(private.Group("/realtime"))
	}

	admin := private.Group("/admin", RequireAdmin())
	NewAdminHandler(svc.Flights, svc.Bookings, svc.Reporting, svc.Auth).Register(admin)

	return router
}
