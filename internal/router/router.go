package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/campus-space-reservation/internal/config"
	"github.com/iliyamo/campus-space-reservation/internal/handler"
	"github.com/iliyamo/campus-space-reservation/internal/middleware"
	"github.com/iliyamo/campus-space-reservation/internal/model"
)

// Handlers collects every handler the router wires up.
type Handlers struct {
	Auth         *handler.AuthHandler
	Spaces       *handler.SpaceHandler
	Availability *handler.AvailabilityHandler
	Reservations *handler.ReservationHandler
	Admin        *handler.AdminHandler
	Calendar     *handler.CalendarHandler
}

// Register wires all routes.  Auth endpoints are open; everything else
// requires a valid access token.  The approval queue additionally
// requires the STAFF or ADMIN role.  The Redis response cache wraps only
// the shared read endpoints (spaces, slots, calendar), never per-user
// data.
func Register(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	g := e.Group("/v1/auth")
	g.POST("/register", h.Auth.Register)
	g.POST("/login", h.Auth.Login)
	g.POST("/refresh", h.Auth.Refresh)
	g.POST("/logout", h.Auth.Logout)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	respCache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(cfg.JWTSecret))
	auth.Use(middleware.RequireRole(model.RoleStudent, model.RoleStaff, model.RoleAdmin))
	auth.Use(limiter)

	auth.GET("/me", h.Auth.Me)
	auth.POST("/logout", h.Auth.Logout)

	// Shared read surface.  Only the space list goes through the
	// response cache: its key strategy hashes route+query, which would
	// collide across path params on the other endpoints.
	auth.GET("/spaces", h.Spaces.ListSpaces, respCache)
	auth.GET("/spaces/:id", h.Spaces.GetSpace)
	auth.GET("/spaces/:id/slots", h.Availability.GetSlots)
	auth.GET("/spaces/:id/slots/stream", h.Availability.StreamSlots)
	auth.GET("/calendar/:year/:month", h.Calendar.Month)

	auth.POST("/reservations", h.Reservations.Create)
	auth.GET("/reservations/mine", h.Reservations.ListMine)
	auth.DELETE("/reservations/:id", h.Reservations.Cancel)

	admin := e.Group("/v1/admin")
	admin.Use(middleware.JWTAuth(cfg.JWTSecret))
	admin.Use(middleware.RequireRole(model.RoleStaff, model.RoleAdmin))
	admin.Use(limiter)
	admin.GET("/reservations/pending", h.Admin.ListPending)
	admin.GET("/reservations/pending/stream", h.Admin.StreamPending)
	admin.POST("/reservations/:id/approve", h.Admin.Approve)
	admin.POST("/reservations/:id/reject", h.Admin.Reject)
}
