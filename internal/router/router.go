package router // route registration for the API

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/sclab/seat-reservation/internal/config"
    "github.com/sclab/seat-reservation/internal/handler"
    "github.com/sclab/seat-reservation/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the auth endpoints.  Token-exchange operations live
// under /v1/auth without a session; /v1/me and /v1/auth/logout-all require a
// valid access token.  The rate limiter runs after JWT on protected routes
// so its key carries the authenticated user; on the token-exchange routes it
// keys by IP alone.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limit echo.MiddlewareFunc) {
    g := e.Group("/v1/auth", limit)
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    g.POST("/refresh", a.Refresh)
    g.POST("/logout", a.Logout)

    auth := e.Group("/v1")
    auth.Use(middleware.JWTAuth(jwtSecret), limit)
    auth.GET("/me", a.Me)
    auth.POST("/auth/logout-all", a.LogoutAll)
}

// RegisterReservations registers the seat catalog and reservation lifecycle
// endpoints.  Everything here requires a valid access token.  The read-only
// seat endpoints additionally go through the short-TTL response cache.
func RegisterReservations(e *echo.Echo, s *handler.SeatHandler, r *handler.ReservationHandler,
    jwtSecret string, cacheCfg config.CacheConfig, rdb *redis.Client, limit echo.MiddlewareFunc) {

    auth := e.Group("/v1")
    auth.Use(middleware.JWTAuth(jwtSecret), limit)

    cached := middleware.NewRedisCache(cacheCfg, rdb)
    auth.GET("/seats", s.List, cached)
    auth.GET("/seats/:id/availability", s.Availability, cached)

    auth.POST("/reservations", r.Create)
    auth.PATCH("/reservations/:id/checkout", r.Checkout)
    auth.PATCH("/reservations/:id/extend", r.Extend)
    auth.GET("/reservations/today", r.ListToday)
}
