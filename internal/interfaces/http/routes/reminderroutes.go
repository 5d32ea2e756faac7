package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/subtrack/internal/interfaces/http/handlers"
)

// SetupReminderRoutes configures the reminder window on an authenticated group.
func SetupReminderRoutes(api *gin.RouterGroup, h *handlers.ReminderHandler) {
	api.GET("/reminders", h.ListReminders)
}

// SetupAdminRoutes configures /api/admin. Access is decided by the
// permission middleware on api, so no extra role check is needed here.
func SetupAdminRoutes(api *gin.RouterGroup, h *handlers.ReminderHandler) {
	admin := api.Group("/admin")
	{
		admin.GET("/products", h.ListAdminProducts)
		admin.POST("/assignments/:id/send-reminder", h.SendReminder)
		admin.GET("/reports/renewals.xlsx", h.ExportRenewals)
	}
}
