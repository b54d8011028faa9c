package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightbooking/api"
	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/bootstrap"
	"github.com/Domenick1991/flightbooking/internal/cache"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/logger"
	"github.com/Domenick1991/flightbooking/internal/realtime"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/service/auth"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/Domenick1991/flightbooking/internal/service/notifications"
	"github.com/Domenick1991/flightbooking/internal/service/reporting"
	"github.com/Domenick1991/flightbooking/internal/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// A missing .env is fine; the real environment wins either way.
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		zlog.Fatal("init tracing", zap.Error(err))
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			zlog.Warn("shutdown tracing", zap.Error(err))
		}
	}()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		zlog.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	if cfg.Database.Migrate {
		if err := repository.Migrate(ctx, pool); err != nil {
			zlog.Fatal("migrate", zap.Error(err))
		}
	}

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.FlightsCacheTTLDuration())
	defer redisCache.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers, zlog.Named("kafka"))
	defer producer.Close()

	flightRepo := repository.NewFlightRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	flightService := flights.NewFlightService(flightRepo, redisCache,
		flights.WithLogger(zlog.Named("flights")),
		flights.WithProducer(producer, cfg.Kafka.BookingEventsTopic),
	)
	bookingService := booking.NewBookingService(bookingRepo, flightRepo,
		booking.WithLogger(zlog.Named("booking")),
		booking.WithCache(redisCache),
		booking.WithProducer(producer, cfg.Kafka.BookingEventsTopic),
	)
	reportingService := reporting.NewReportingService(repository.NewStatsRepository(pool), zlog.Named("reporting"), nil)
	authService := auth.NewAuthService(repository.NewProfileRepository(pool), redisCache, cfg.Auth, zlog.Named("auth"))
	notificationService := notifications.NewNotificationService(repository.NewNotificationRepository(pool), bookingRepo, zlog.Named("notifications"))

	hub := realtime.NewHub(cfg.Booking.RealtimeBuffer, zlog.Named("realtime"))
	defer hub.Close()
	listener := realtime.NewListener(pool, hub, zlog.Named("realtime"))
	go func() {
		if err := listener.Run(ctx); err != nil {
			zlog.Error("realtime listener stopped", zap.Error(err))
		}
	}()

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Services{
		Flights:       flightService,
		Bookings:      bookingService,
		Reporting:     reportingService,
		Auth:          authService,
		Notifications: notificationService,
		Realtime:      hub,
	}, api.RouterOptions{
		Logger:     zlog.Named("http"),
		SwaggerDir: cfg.HTTP.SwaggerDir,
		Tracing:    cfg.Telemetry.Enabled,
	})

	deps := map[string]bootstrap.Pinger{
		"postgres": pool,
		"redis":    redisCache,
		"kafka":    bootstrap.PingFunc(producer.CheckConnection),
	}
	if err := bootstrap.Run(ctx, cfg, router, deps, zlog); err != nil {
		zlog.Fatal("server error", zap.Error(err))
	}
}
