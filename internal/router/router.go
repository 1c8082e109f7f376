// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/stagebook/stagebook/internal/config"
	"github.com/stagebook/stagebook/internal/handler"
	"github.com/stagebook/stagebook/internal/middleware"
)

// Deps carries everything route registration needs.
type Deps struct {
	Auth   *handler.AuthHandler
	Public *handler.PublicHandler
	Admin  *handler.AdminHandler
	Orders *handler.OrderHandler

	JWTSecret string
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
	Redis     *redis.Client // nil disables caching and rate limiting
}

// Register sets up the full route table.  Reads are public, catalog writes
// require ADMIN, booking requires any authenticated user.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	if d.Redis != nil && d.RateLimit.Enabled {
		api.Use(middleware.NewTokenBucket(d.RateLimit, d.Redis))
	}

	// Auth endpoints sit outside the JWT middleware; logout accepts either a
	// bearer token or a refresh token in the body.
	auth := api.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/refresh", d.Auth.Refresh)
	auth.POST("/refresh-access", d.Auth.RefreshAccess)
	auth.POST("/logout", d.Auth.Logout)

	// Public catalog reads, cached when Redis is available.
	pub := api.Group("")
	if d.Redis != nil && d.Cache.Enabled {
		pub.Use(middleware.NewRedisCache(d.Cache, d.Redis))
	}
	pub.GET("/halls", d.Public.ListHalls)
	pub.GET("/halls/:id", d.Public.GetHall)
	pub.GET("/genres", d.Public.ListGenres)
	pub.GET("/genres/:id", d.Public.GetGenre)
	pub.GET("/actors", d.Public.ListActors)
	pub.GET("/actors/:id", d.Public.GetActor)
	pub.GET("/plays", d.Public.ListPlays)
	pub.GET("/plays/:id", d.Public.GetPlay)
	pub.GET("/performances", d.Public.ListPerformances)
	pub.GET("/performances/:id", d.Public.GetPerformance)

	// Catalog writes: ADMIN only.
	admin := api.Group("")
	admin.Use(middleware.JWTAuth(d.JWTSecret))
	admin.Use(middleware.RequireRole("ADMIN"))
	admin.POST("/halls", d.Admin.CreateHall)
	admin.PUT("/halls/:id", d.Admin.UpdateHall)
	admin.DELETE("/halls/:id", d.Admin.DeleteHall)
	admin.POST("/genres", d.Admin.CreateGenre)
	admin.PUT("/genres/:id", d.Admin.UpdateGenre)
	admin.DELETE("/genres/:id", d.Admin.DeleteGenre)
	admin.POST("/actors", d.Admin.CreateActor)
	admin.PUT("/actors/:id", d.Admin.UpdateActor)
	admin.DELETE("/actors/:id", d.Admin.DeleteActor)
	admin.POST("/plays", d.Admin.CreatePlay)
	admin.PUT("/plays/:id", d.Admin.UpdatePlay)
	admin.DELETE("/plays/:id", d.Admin.DeletePlay)
	admin.POST("/performances", d.Admin.CreatePerformance)
	admin.PUT("/performances/:id", d.Admin.UpdatePerformance)
	admin.DELETE("/performances/:id", d.Admin.DeletePerformance)

	// Bookings: any authenticated role.
	me := api.Group("")
	me.Use(middleware.JWTAuth(d.JWTSecret))
	me.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))
	me.GET("/me", d.Auth.Me)
	me.POST("/orders", d.Orders.Create)
	me.GET("/orders", d.Orders.List)
	me.GET("/orders/:id", d.Orders.Get)
	me.DELETE("/orders/:id", d.Orders.Delete)
}
