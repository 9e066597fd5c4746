package routes

import (
	"cv-portal-api/controllers"
	"cv-portal-api/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)

			// Student CV intake
			public.POST("/submissions", controllers.CreateSubmission)
			public.GET("/profiles", controllers.GetProfiles)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "CV Portal API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/profile", controllers.GetProfile)

			// Reviewer side
			reviewer := protected.Group("/reviewer", middleware.RequireRole(middleware.RoleReviewer))
			{
				reviewer.GET("/dashboard", controllers.GetReviewerDashboard)
				reviewer.GET("/cvs", controllers.GetAssignedCVs)
				reviewer.PUT("/linkedin", controllers.UpdateLinkedIn)
			}

			protected.POST("/reviews", middleware.RequireRole(middleware.RoleReviewer), controllers.SubmitReview)

			// Admin side
			admin := protected.Group("/admin", middleware.RequireRole(middleware.RoleAdmin))
			{
				// Editable tables
				admin.GET("/submissions", controllers.GetSubmissions)
				admin.PUT("/submissions/:id", controllers.UpdateSubmission)
				admin.DELETE("/submissions/:id", controllers.DeleteSubmission)

				admin.GET("/reviewers", controllers.GetReviewers)
				admin.POST("/reviewers", controllers.CreateReviewer)
				admin.PUT("/reviewers/:id", controllers.UpdateReviewer)
				admin.DELETE("/reviewers/:id", controllers.DeleteReviewer)

				admin.GET("/reviews", controllers.GetReviews)
				admin.PUT("/reviews/:id", controllers.UpdateReview)
				admin.DELETE("/reviews/:id", controllers.DeleteReview)

				// Allocation engine
				admin.GET("/allocation/stats", controllers.GetAllocationStats)
				admin.POST("/allocation/refresh", controllers.RefreshAllocationStats)
				admin.GET("/allocation/unassigned", controllers.GetUnassignedCounts)
				admin.POST("/allocation/run", controllers.RunSmartAllocation)

				// CSV downloads
				admin.GET("/export/:table", controllers.ExportTable)
			}
		}
	}
}
