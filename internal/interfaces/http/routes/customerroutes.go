package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/subtrack/internal/interfaces/http/handlers"
)

// SetupCustomerRoutes configures /api/customers on an authenticated group.
func SetupCustomerRoutes(api *gin.RouterGroup, h *handlers.CustomerHandler) {
	customers := api.Group("/customers")
	{
		customers.POST("", h.CreateCustomer)
		customers.GET("", h.ListCustomers)
		customers.GET("/:id", h.GetCustomer)
		customers.PUT("/:id", h.UpdateCustomer)
		customers.DELETE("/:id", h.DeleteCustomer)

		customers.POST("/:id/products/:productId", h.LinkProduct)
		customers.DELETE("/:id/products/:productId", h.UnlinkProduct)
	}
}
