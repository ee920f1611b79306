package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/stimpy3/fareFlow/internal/config"
	"github.com/stimpy3/fareFlow/internal/handler"
	"github.com/stimpy3/fareFlow/internal/logging"
	"github.com/stimpy3/fareFlow/internal/metrics"
	"github.com/stimpy3/fareFlow/internal/middleware"
	"github.com/stimpy3/fareFlow/internal/queue"
	"github.com/stimpy3/fareFlow/internal/repository"
	"github.com/stimpy3/fareFlow/internal/router"
	"github.com/stimpy3/fareFlow/internal/scheduler"
	"github.com/stimpy3/fareFlow/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	log, err := logging.New(cfg.LogLevel, cfg.IsProd())
	if err != nil {
		logrus.Fatalf("logging: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("server exited")
	}
	log.Info("shutdown complete")
}

func run(ctx context.Context, cfg config.Config, log *logrus.Logger) error {
	seats, err := repository.GenerateSeats(cfg.SeatCount, cfg.SeatPrice)
	if err != nil {
		return fmt.Errorf("generate seats: %w", err)
	}
	registry, err := repository.NewSeatRegistry(seats)
	if err != nil {
		return fmt.Errorf("seat registry: %w", err)
	}

	opts := []service.Option{
		service.WithMonitor(metrics.NewMonitor()),
		service.WithLogger(log),
	}
	if cfg.EventsEnabled {
		opts = append(opts, service.WithPublisher(queue.NewPublisher(cfg.RabbitMQURL, log)))
	}
	coord := service.NewCoordinator(registry, cfg.HoldDuration, opts...)
	defer coord.Close()

	rdb := config.NewRedisClient(ctx, cfg.Redis)
	if rdb == nil {
		log.WithField("addr", cfg.Redis.Addr).Warn("redis unavailable; rate limit and layout cache disabled")
	} else {
		defer func() { _ = rdb.Close() }()
	}

	e := newServer(cfg, coord, rdb, log)

	g, runCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		scheduler.New(coord, cfg.SweepInterval, log).Start(runCtx)
		return nil
	})

	if cfg.EventsEnabled {
		g.Go(func() error {
			return queue.NewConsumer(cfg.RabbitMQURL, cfg.EventLogDir, log).Run(runCtx)
		})
	}

	g.Go(func() error {
		addr := ":" + cfg.Port
		log.WithFields(logrus.Fields{
			"addr":  addr,
			"env":   cfg.Env,
			"seats": cfg.SeatCount,
			"hold":  cfg.HoldDuration.String(),
		}).Info("starting http server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("starting http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-runCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		log.Info("shutting down http server")
		if err := e.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http server: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func newServer(cfg config.Config, coord *service.Coordinator, rdb *redis.Client, log logrus.FieldLogger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.RequestLogger(log))

	router.RegisterRoutes(e)
	router.RegisterSeats(e, handler.NewSeatHandler(coord, cfg.SeatPrice), cfg, rdb, log)
	return e
}
