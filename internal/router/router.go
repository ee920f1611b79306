package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stimpy3/fareFlow/internal/config"
	"github.com/stimpy3/fareFlow/internal/handler"
	"github.com/stimpy3/fareFlow/internal/middleware"
)

// RegisterRoutes registers routes that need no seat state: the health
// check and the prometheus endpoint.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterSeats registers the seat selection API under /v1.  Seat clicks
// go through the token bucket and the layout through the response
// cache; rdb may be nil, which turns both off.
func RegisterSeats(e *echo.Echo, h *handler.SeatHandler, cfg config.Config, rdb *redis.Client, log logrus.FieldLogger) {
	g := e.Group("/v1")

	g.GET("/seats", h.ListSeats)
	g.GET("/seats/layout", h.Layout, middleware.NewRedisCache(cfg.Cache, rdb))
	g.POST("/seats/:id/toggle", h.ToggleSeat, middleware.NewTokenBucket(cfg.RateLimit, rdb, log))

	g.POST("/booking/confirm", h.Confirm)
	g.POST("/booking/clear", h.Clear)

	g.GET("/summary", h.Summary)
}
