package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/logger"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/service/notifications"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
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
	zlog = zlog.Named("worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		zlog.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	notificationService := notifications.NewNotificationService(
		repository.NewNotificationRepository(pool),
		repository.NewBookingRepository(pool),
		zlog,
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.BookingEventsTopic, zlog.Named("kafka"))
	defer consumer.Close()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		zlog.Info("consuming booking events", zap.String("topic", cfg.Kafka.BookingEventsTopic))
		return consumer.Consume(gctx, func(ctx context.Context, event kafka.BookingEvent) error {
			// A failed notification is not retried; the offset still moves on.
			if err := notificationService.HandleEvent(ctx, event); err != nil {
				zlog.Error("handle booking event",
					zap.String("type", event.Type),
					zap.Int64("flight_id", event.FlightID),
					zap.Error(err),
				)
			}
			return nil
		})
	})

	g.Go(func() error {
		ticker := time.NewTicker(time.Duration(cfg.Worker.HealthIntervalSeconds) * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if err := pool.Ping(gctx); err != nil {
					zlog.Warn("postgres unreachable", zap.Error(err))
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		zlog.Error("worker stopped", zap.Error(err))
		return
	}
	zlog.Info("worker stopped")
}
