package api

import (
	"net/http"

	"hse-backend/internal/auth/delivery"
	authUsecase "hse-backend/internal/auth/usecase"
	notifDelivery "hse-backend/internal/notification/delivery"
	reportDelivery "hse-backend/internal/report/delivery"
	workitemDelivery "hse-backend/internal/workitem/delivery"
	zoneDelivery "hse-backend/internal/zone/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUsecase authUsecase.AuthUsecase, authHandler *delivery.AuthHandler, reportHandler *reportDelivery.ReportHandler, workItemHandler *workitemDelivery.WorkItemHandler, delegationHandler *zoneDelivery.DelegationHandler, notificationHandler *notifDelivery.NotificationHandler, settingsHandler *SettingsHandler) {
	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
		}

		// Delegation routes (protected, admin only)
		delegations := api.Group("/delegations")
		delegations.Use(delivery.AuthMiddleware(authUsecase))
		{
			delegations.POST("", delegationHandler.Create)
			delegations.GET("/:id", delegationHandler.Get)
			delegations.POST("/:id/end", delegationHandler.End)
		}

		// Report routes (protected)
		reports := api.Group("/reports")
		reports.Use(delivery.AuthMiddleware(authUsecase))
		{
			reports.POST("", reportHandler.Create)
			reports.GET("/:id", reportHandler.Get)
			reports.PATCH("/:id/status", reportHandler.UpdateStatus)
			reports.POST("/:id/reassign", reportHandler.Reassign)
			reports.GET("/:id/comments", reportHandler.ListComments)
			reports.POST("/:id/comments", reportHandler.AddComment)
		}

		// Work item routes (protected)
		workItems := api.Group("/work-items")
		workItems.Use(delivery.AuthMiddleware(authUsecase))
		{
			workItems.POST("/:kind", workItemHandler.Create)
			workItems.GET("/:kind/:id", workItemHandler.Get)
			workItems.PATCH("/:kind/:id/status", workItemHandler.ChangeStatus)
		}

		// Notification routes (protected)
		notifications := api.Group("/notifications")
		notifications.Use(delivery.AuthMiddleware(authUsecase))
		{
			notifications.GET("", notificationHandler.List)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.PATCH("/:id/read", notificationHandler.MarkRead)
			notifications.POST("/read-all", notificationHandler.MarkAllRead)
		}

		// Settings routes (protected) - Runtime digest configuration
		settings := api.Group("/settings")
		settings.Use(delivery.AuthMiddleware(authUsecase))
		{
			settings.GET("/digest", settingsHandler.GetDigestSettings)
			settings.PUT("/digest", settingsHandler.UpdateDigestSettings)
		}
	}
}
