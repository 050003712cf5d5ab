// Package router maps the HTTP surface onto handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movie-rental-store/internal/config"
	"github.com/iliyamo/movie-rental-store/internal/handler"
	"github.com/iliyamo/movie-rental-store/internal/middleware"
)

// Deps carries everything route registration needs.
type Deps struct {
	Cfg       config.Config
	Redis     *redis.Client // nil disables caching and rate limiting
	Auth      *handler.AuthHandler
	Genres    *handler.GenreHandler
	Movies    *handler.MovieHandler
	Customers *handler.CustomerHandler
	Rentals   *handler.RentalHandler
	Returns   *handler.ReturnHandler
}

// Register wires all routes.
//
// Catalogue reads (genres, movies) are public and sit behind the
// response cache. Customer and rental data requires a token. Deletes
// require an admin. Returns follow the rental write rules: any
// authenticated clerk can process one.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), d.Redis)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), d.Redis)
	jwtAuth := middleware.JWTAuth(d.Cfg.JWTSecret)
	admin := middleware.RequireAdmin()

	api := e.Group("/api", limiter)

	auth := api.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/refresh", d.Auth.Refresh)
	auth.POST("/logout", d.Auth.Logout)
	auth.GET("/me", d.Auth.Me, jwtAuth)
	// Authenticated logout revokes every session of the caller; the
	// /auth/logout form above revokes just the presented refresh token.
	api.POST("/logout", d.Auth.Logout, jwtAuth)

	// Legacy aliases kept for clients built against the old API.
	api.POST("/users", d.Auth.Register)
	api.GET("/users/me", d.Auth.Me, jwtAuth)

	genres := api.Group("/genres")
	genres.GET("", d.Genres.List, cache)
	genres.GET("/:id", d.Genres.Get, cache)
	genres.POST("", d.Genres.Create, jwtAuth)
	genres.PUT("/:id", d.Genres.Update, jwtAuth)
	genres.DELETE("/:id", d.Genres.Delete, jwtAuth, admin)

	movies := api.Group("/movies")
	movies.GET("", d.Movies.List, cache)
	movies.GET("/:id", d.Movies.Get, cache)
	movies.POST("", d.Movies.Create, jwtAuth)
	movies.PUT("/:id", d.Movies.Update, jwtAuth)
	movies.DELETE("/:id", d.Movies.Delete, jwtAuth, admin)

	customers := api.Group("/customers", jwtAuth)
	customers.GET("", d.Customers.List)
	customers.GET("/:id", d.Customers.Get)
	customers.POST("", d.Customers.Create)
	customers.PUT("/:id", d.Customers.Update)
	customers.DELETE("/:id", d.Customers.Delete, admin)

	rentals := api.Group("/rentals", jwtAuth)
	rentals.GET("", d.Rentals.List)
	rentals.GET("/:id", d.Rentals.Get)
	rentals.POST("", d.Rentals.Create)

	api.POST("/returns", d.Returns.Process, jwtAuth)
}
