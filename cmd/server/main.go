package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/campus-space-reservation/internal/availability"
	"github.com/iliyamo/campus-space-reservation/internal/cache"
	"github.com/iliyamo/campus-space-reservation/internal/config"
	"github.com/iliyamo/campus-space-reservation/internal/database"
	"github.com/iliyamo/campus-space-reservation/internal/handler"
	"github.com/iliyamo/campus-space-reservation/internal/queue"
	"github.com/iliyamo/campus-space-reservation/internal/reservation"
	"github.com/iliyamo/campus-space-reservation/internal/router"
	queue_publisher "github.com/iliyamo/campus-space-reservation/internal/service"
	"github.com/iliyamo/campus-space-reservation/internal/store"
	"github.com/iliyamo/campus-space-reservation/internal/store/mongostore"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()

	remote, mongoClient, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("connect remote store: %v", err)
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()

	var (
		base   store.Cache
		tokens handler.TokenStore
	)
	switch cfg.CacheDriver {
	case "memory":
		base = cache.NewMemory()
		tokens = cache.NewMemoryTokens()
	default:
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.Fatalf("open cache database: %v", err)
		}
		defer db.Close()
		if err := cache.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("ensure cache schema: %v", err)
		}
		base = cache.NewMySQL(db)
		tokens = cache.NewTokenRepo(db)
	}
	watched := cache.NewWatched(base)

	sync := availability.NewSynchronizer(remote, watched)
	mgr := reservation.NewManager(remote, watched, queue_publisher.Publisher{})

	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and response cache disabled")
	}

	authH := handler.NewAuthHandler(cfg, remote, watched, tokens)
	router.Register(e, router.Handlers{
		Auth:         authH,
		Spaces:       handler.NewSpaceHandler(watched, remote, sync),
		Availability: handler.NewAvailabilityHandler(sync, watched, cfg.SyncInterval),
		Reservations: handler.NewReservationHandler(mgr, authH),
		Admin:        handler.NewAdminHandler(mgr, watched, cfg.SyncInterval),
		Calendar:     handler.NewCalendarHandler(mgr),
	}, cfg, rdb)

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil {
			log.Printf("server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
