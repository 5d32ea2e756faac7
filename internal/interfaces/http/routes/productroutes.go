package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/subtrack/internal/interfaces/http/handlers"
)

// SetupProductRoutes configures /api/products on an authenticated group.
func SetupProductRoutes(api *gin.RouterGroup, h *handlers.ProductHandler) {
	products := api.Group("/products")
	{
		products.POST("", h.CreateProduct)
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProduct)
		products.PUT("/:id", h.UpdateProduct)
		products.DELETE("/:id", h.DeleteProduct)
	}
}
