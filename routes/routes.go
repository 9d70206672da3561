package routes

import (
	"compliance-assessment-api/controllers"
	"compliance-assessment-api/middleware"
	"compliance-assessment-api/models"

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

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Compliance Assessment API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Reference data (all authenticated users)
			protected.GET("/clients", controllers.GetClients)
			protected.GET("/clients/:id/sites", controllers.GetClientSites)
			protected.GET("/clients/:id/pocs", controllers.GetClientPocs)
			protected.GET("/engagements", controllers.GetEngagements)
			protected.GET("/topics", controllers.GetTopics)
			protected.GET("/questions", controllers.GetQuestions)
			protected.GET("/filters", controllers.GetFilters)

			// Reference data management (admin only)
			protected.POST("/clients", middleware.RequireRole(models.RoleAdmin), controllers.CreateClient)
			protected.POST("/clients/:id/sites", middleware.RequireRole(models.RoleAdmin), controllers.CreateSite)
			protected.POST("/clients/:id/pocs", middleware.RequireRole(models.RoleAdmin), controllers.CreatePoc)
			protected.POST("/engagements", middleware.RequireRole(models.RoleAdmin), controllers.CreateEngagement)

			// Assessments
			assessments := protected.Group("/assessments")
			{
				assessments.GET("", controllers.GetAssessments)
				assessments.GET("/:id", controllers.GetAssessment)

				// Only admins build or edit assessments
				assessments.POST("", middleware.RequireRole(models.RoleAdmin), controllers.CreateAssessment)
				assessments.PUT("/:id", middleware.RequireRole(models.RoleAdmin), controllers.UpdateAssessment)

				// Stage workflow
				assessments.POST("/:id/submit", controllers.SubmitAssessment)
				assessments.GET("/:id/unfinished", controllers.GetUnfinishedAssessmentQuestions)
				assessments.GET("/:id/changelogs", controllers.GetAssessmentChangelogs)
				assessments.GET("/:id/export", controllers.ExportAssessment)
			}

			// Answers
			protected.POST("/assessment-questions/:id/answers", controllers.OpenAnswer)
			protected.GET("/assessment-questions/:id/answers", controllers.GetAnswersByStage)
			protected.PUT("/answers/:id", controllers.UpdateAnswer)
			protected.GET("/answers/:id/changelogs", controllers.GetAnswerChangelogs)

			// Evidence files
			protected.POST("/answers/:id/evidence", controllers.UploadEvidence)
			protected.GET("/evidence/:file_id/download", controllers.DownloadEvidence)

			// Notifications
			protected.GET("/notifications", controllers.GetNotifications)
			protected.PUT("/notifications/:id/read", controllers.MarkNotificationRead)

			// Dashboard
			protected.GET("/dashboard/stats", controllers.GetDashboardStats)
		}
	}
}
