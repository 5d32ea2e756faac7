package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/subtrack/internal/interfaces/http/handlers"
)

// SetupMappingRoutes configures /api/mappings on an authenticated group.
func SetupMappingRoutes(api *gin.RouterGroup, h *handlers.MappingHandler) {
	mappings := api.Group("/mappings")
	{
		mappings.POST("", h.CreateMapping)
		mappings.GET("", h.ListMappings)
		mappings.GET("/:id", h.GetMapping)
		mappings.PUT("/:id", h.UpdateMapping)
		mappings.DELETE("/:id", h.DeleteMapping)
		mappings.PUT("/:id/details", h.UpdateDetails)

		mappings.POST("/:id/pay", h.RecordPayment)
		mappings.PUT("/:id/subscription/:subIdx", h.EditSubscription)
		mappings.DELETE("/:id/subscription/:subIdx", h.DeleteSubscription)
	}
}
