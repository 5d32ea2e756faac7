package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/subtrack/internal/interfaces/http/handlers"
	"github.com/orris-inc/subtrack/internal/interfaces/http/middleware"
)

// AuthRouteConfig holds dependencies for authentication routes.
type AuthRouteConfig struct {
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	RateLimiter    *middleware.RateLimiter
}

// SetupAuthRoutes configures /api/auth. Register and login are public.
func SetupAuthRoutes(api *gin.RouterGroup, cfg *AuthRouteConfig) {
	auth := api.Group("/auth")
	{
		public := auth.Group("")
		if cfg.RateLimiter != nil {
			public.Use(cfg.RateLimiter.Limit())
		}
		public.POST("/register", cfg.AuthHandler.Register)
		public.POST("/login", cfg.AuthHandler.Login)

		auth.GET("/me", cfg.AuthMiddleware.RequireAuth(), cfg.AuthHandler.GetCurrentUser)
	}
}
