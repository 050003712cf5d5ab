package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/movie-rental-store/internal/config"
	"github.com/iliyamo/movie-rental-store/internal/database"
	"github.com/iliyamo/movie-rental-store/internal/handler"
	"github.com/iliyamo/movie-rental-store/internal/queue"
	"github.com/iliyamo/movie-rental-store/internal/repository"
	"github.com/iliyamo/movie-rental-store/internal/router"
	"github.com/iliyamo/movie-rental-store/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, caching and rate limiting disabled")
	}

	genres := repository.NewGenreRepo(db)
	movies := repository.NewMovieRepo(db)
	customers := repository.NewCustomerRepo(db)
	rentals := repository.NewRentalRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	checkout := service.NewRentalService(rentals, customers, movies)
	returns := service.NewReturnService(rentals, movies)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.Register(e, router.Deps{
		Cfg:       cfg,
		Redis:     rdb,
		Auth:      handler.NewAuthHandler(cfg, users, tokens),
		Genres:    handler.NewGenreHandler(genres),
		Movies:    handler.NewMovieHandler(movies, genres),
		Customers: handler.NewCustomerHandler(customers),
		Rentals:   handler.NewRentalHandler(rentals, checkout),
		Returns:   handler.NewReturnHandler(returns),
	})

	// The consumer owns its reconnect loop; a broker outage only stalls
	// the audit trail, never the API.
	go func() {
		if err := queue.StartReturnConsumer(); err != nil {
			log.Printf("return-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
