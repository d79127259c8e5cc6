package routes

import (
	"procurify-api/controllers"
	"procurify-api/middleware"
	"procurify-api/models"
	"procurify-api/monitor"

	"github.com/gin-gonic/gin"
)

// Handlers are the controllers mounted under /api/v1.
type Handlers struct {
	Profile          *controllers.ProfileController
	Procurements     *controllers.ProcurementController
	Submissions      *controllers.SubmissionController
	AdminSubmissions *controllers.AdminSubmissionController
	Notifications    *controllers.NotificationController
	Activity         *controllers.ActivityController
	Monitor          *monitor.Monitor
}

func SetupRoutes(router *gin.Engine, h Handlers, auth gin.HandlerFunc) {
	admins := middleware.RequireRole(models.AdminRoles...)

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Procurify API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(auth)
		{
			// User profile
			protected.GET("/profile", h.Profile.GetProfile)

			procurements := protected.Group("/procurements")
			{
				procurements.GET("", h.Procurements.List)
				procurements.GET("/:id", h.Procurements.Get)
				procurements.GET("/:id/history", h.Procurements.History)

				procurements.POST("", admins, h.Procurements.Create)
				procurements.PATCH("/:id", admins, h.Procurements.Update)
				procurements.POST("/:id/status", admins, h.Procurements.UpdateStatus)
			}

			submissions := protected.Group("/submissions")
			{
				// Vendors see their own, admins see all
				submissions.GET("", h.Submissions.List)
				submissions.GET("/:id", h.Submissions.Get)
				submissions.GET("/:id/history", h.Submissions.History)

				// Only vendors can submit bids
				submissions.POST("", middleware.RequireRole(models.RoleUserProcurement), h.Submissions.Create)

				// Review actions
				submissions.POST("/batch-reject", admins, h.AdminSubmissions.BatchReject)
				submissions.POST("/:id/status", admins, h.AdminSubmissions.UpdateStatus)
				submissions.POST("/:id/rating", admins, h.AdminSubmissions.Rate)
			}

			protected.GET("/vendors/:id/rating", h.AdminSubmissions.VendorRating)

			notifications := protected.Group("/notifications")
			{
				notifications.GET("", h.Notifications.List)
				notifications.GET("/counter", h.Notifications.Counter)
				notifications.PATCH("/read-all", h.Notifications.MarkAllRead)
				notifications.PATCH("/:id/read", h.Notifications.MarkRead)
			}

			protected.GET("/activity-logs", middleware.RequireRole(models.RoleSuperAdmin), h.Activity.List)

			// Operator endpoints
			admin := protected.Group("/admin", middleware.RequireRole(models.RoleSuperAdmin))
			{
				admin.GET("/monitor", h.Monitor.Status)
				admin.GET("/logs", h.Monitor.Logs)
			}
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": "not_found", "message": "Endpoint not found"})
	})
}
