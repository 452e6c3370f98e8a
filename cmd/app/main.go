package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/eventbooking/config"
	"github.com/Domenick1991/eventbooking/internal/availability"
	"github.com/Domenick1991/eventbooking/internal/bootstrap"
	"github.com/Domenick1991/eventbooking/internal/cache"
	"github.com/Domenick1991/eventbooking/internal/kafka"
	"github.com/Domenick1991/eventbooking/internal/logger"
	"github.com/Domenick1991/eventbooking/internal/repository"
	"github.com/Domenick1991/eventbooking/internal/service/booking"
	"github.com/Domenick1991/eventbooking/internal/service/events"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		log.Fatalf("app: %v", err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadConfig(config.Path())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	lg, err := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = lg.Sync() }()

	loc, err := cfg.App.Location()
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis,
		time.Duration(cfg.Booking.SlotsCacheTTL)*time.Second,
		time.Duration(cfg.Booking.EventsCacheTTL)*time.Second,
	)
	defer redisCache.Close()
	if err := redisCache.Ping(ctx); err != nil {
		lg.Warn("redis unavailable, cache calls will fail", zap.Error(err))
	}

	producer := kafka.NewProducer(cfg.Kafka.Brokers, lg.Named("kafka"))
	defer producer.Close()
	if err := producer.CheckConnection(ctx); err != nil {
		lg.Warn("kafka unavailable, booking events will be dropped", zap.Error(err))
	}

	bookingRepo := repository.NewBookingRepository(pool)
	eventRepo := repository.NewEventRepository(pool)

	bookingService := booking.NewBookingService(
		bookingRepo,
		redisCache,
		producer,
		availability.NewCalculator(cfg.Booking.MinGap(), cfg.Booking.MinSlot()),
		cfg.Kafka.BookingEventsTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithRules(booking.Rules{
			MinAdvanceDays: cfg.Booking.MinAdvanceDays,
			MinGuests:      cfg.Booking.MinGuests,
		}),
		booking.WithLocation(loc),
		booking.WithLockTTL(time.Duration(cfg.Booking.ScheduleLockSeconds)*time.Second),
		booking.WithLogger(lg.Named("booking")),
	)
	eventService := events.NewEventService(eventRepo, redisCache, lg.Named("events"))

	if err := bootstrap.Run(ctx, cfg, loc, bookingService, eventService, lg); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
