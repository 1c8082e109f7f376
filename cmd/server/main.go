package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/stagebook/stagebook/internal/config"
	"github.com/stagebook/stagebook/internal/database"
	"github.com/stagebook/stagebook/internal/handler"
	"github.com/stagebook/stagebook/internal/middleware"
	"github.com/stagebook/stagebook/internal/queue"
	"github.com/stagebook/stagebook/internal/repository"
	"github.com/stagebook/stagebook/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf(".env not loaded: %v", err)
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil when Redis is unreachable

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	halls := repository.NewHallRepo(db)
	genres := repository.NewGenreRepo(db)
	actors := repository.NewActorRepo(db)
	plays := repository.NewPlayRepo(db)
	performances := repository.NewPerformanceRepo(db)
	orders := repository.NewOrderRepo(db)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.Metrics())

	router.Register(e, router.Deps{
		Auth:      handler.NewAuthHandler(cfg, users, tokens),
		Public:    handler.NewPublicHandler(halls, genres, actors, plays, performances),
		Admin:     handler.NewAdminHandler(halls, genres, actors, plays, performances),
		Orders:    handler.NewOrderHandler(orders, performances),
		JWTSecret: cfg.JWTSecret,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
		Redis:     rdb,
	})

	// Consumer keeps retrying the broker in the background; a missing broker
	// never blocks the API.
	go func() {
		if err := queue.StartOrderConsumer(); err != nil {
			log.Printf("order consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
