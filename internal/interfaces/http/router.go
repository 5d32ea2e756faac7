package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/orris-inc/subtrack/internal/interfaces/http/middleware"
	"github.com/orris-inc/subtrack/internal/interfaces/http/routes"
)

// SetupRoutes configures all HTTP routes
func (c *Container) SetupRoutes() {
	c.engine.Use(middleware.RequestID())
	c.engine.Use(middleware.Logger(c.log))
	c.engine.Use(middleware.Recovery(c.log))
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))
	c.engine.Use(middleware.SecurityHeaders())
	c.engine.Use(middleware.Metrics(c.metrics))

	c.engine.GET("/health", c.hdlrs.healthHandler.HealthCheck)
	c.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Browsers cannot set headers on a websocket handshake.
	c.engine.GET("/ws", c.authMiddleware.RequireAuthOrQuery(), c.hdlrs.reminderHandler.Stream)

	api := c.engine.Group("/api")

	routes.SetupAuthRoutes(api, &routes.AuthRouteConfig{
		AuthHandler:    c.hdlrs.authHandler,
		AuthMiddleware: c.authMiddleware,
		RateLimiter:    c.rateLimiter,
	})

	protected := api.Group("")
	protected.Use(c.authMiddleware.RequireAuth(), c.permissionMiddleware.Authorize())
	{
		routes.SetupCustomerRoutes(protected, c.hdlrs.customerHandler)
		routes.SetupProductRoutes(protected, c.hdlrs.productHandler)
		routes.SetupMappingRoutes(protected, c.hdlrs.mappingHandler)
		routes.SetupReminderRoutes(protected, c.hdlrs.reminderHandler)
		routes.SetupAdminRoutes(protected, c.hdlrs.reminderHandler)
	}
}
