package main

import (
    "context"
    "log"
    "time"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"

    "github.com/sclab/seat-reservation/internal/booking"
    "github.com/sclab/seat-reservation/internal/clock"
    "github.com/sclab/seat-reservation/internal/config"
    "github.com/sclab/seat-reservation/internal/database"
    "github.com/sclab/seat-reservation/internal/handler"
    "github.com/sclab/seat-reservation/internal/middleware"
    "github.com/sclab/seat-reservation/internal/queue"
    "github.com/sclab/seat-reservation/internal/repository"
    "github.com/sclab/seat-reservation/internal/router"
)

func main() {
    // .env is optional; real deployments set the environment directly.
    _ = godotenv.Load()

    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database open failed: %v", err)
    }
    ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
    err = database.Bootstrap(ctx, db)
    cancel()
    if err != nil {
        log.Fatalf("database bootstrap failed: %v", err)
    }

    // Redis is optional: without it the rate limiter and response cache
    // become pass-throughs.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Printf("redis unavailable, rate limiting and caching disabled")
    }

    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)
    seats := repository.NewSeatRepo(db)
    reservations := repository.NewReservationRepo(db)

    clk := clock.NewOffset(cfg.Timezone, cfg.TimeOffsetHours)
    if cfg.TimeOffsetHours != 0 {
        log.Printf("clock offset active: %+d hours", cfg.TimeOffsetHours)
    }
    engine := booking.NewEngine(reservations, clk)

    authH := handler.NewAuthHandler(cfg, users, tokens)
    seatH := handler.NewSeatHandler(seats, engine)
    resH := handler.NewReservationHandler(engine)

    e := echo.New()
    e.HideBanner = true
    e.Use(echomw.Recover())
    e.Use(echomw.Logger())

    // Registered per route group, after JWT where one applies, so the
    // limiter keys on the authenticated user.
    limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

    router.RegisterRoutes(e)
    router.RegisterAuth(e, authH, cfg.JWTSecret, limiter)
    router.RegisterReservations(e, seatH, resH, cfg.JWTSecret, config.LoadCacheConfig(), rdb, limiter)

    // Lifecycle events land in logs/reservation.log via the broker; the
    // consumer reconnects on its own and never takes the server down.
    go func() {
        if err := queue.StartReservationConsumer(); err != nil {
            log.Printf("reservation consumer stopped: %v", err)
        }
    }()

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
