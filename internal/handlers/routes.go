package handlers

import (
	"github.com/ahamhfc/aham-cms-api/internal/middleware"
	"github.com/ahamhfc/aham-cms-api/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the public and admin API under /api.
func (h *Handlers) RegisterRoutes(router gin.IRouter, jwtSecret string) {
	api := router.Group("/api")
	{
		api.GET("/health", h.Health.Index)

		// Public site
		api.GET("/content/:section", h.Content.Public)

		api.POST("/admin/login", h.Auth.Login)

		// Admin panel (admins and editors)
		admin := api.Group("/admin")
		admin.Use(middleware.Auth(jwtSecret), middleware.RequireRole(models.RoleAdmin, models.RoleEditor))
		{
			admin.GET("/me", h.Auth.Me)

			content := admin.Group("/content/:section")
			{
				content.GET("", h.Content.Index)
				content.POST("", h.Content.Create)
				content.GET("/:id", h.Content.Show)
				content.PUT("/:id", h.Content.Update)
				content.DELETE("/:id", h.Content.Delete)
			}

			media := admin.Group("/media")
			{
				media.POST("/upload", h.Media.Upload)
				media.GET("/library", h.Media.Index)
				media.GET("/:media_id", h.Media.Show)
				media.PATCH("/:media_id", h.Media.Update)
				media.DELETE("/:media_id", h.Media.Delete)
			}

			admin.GET("/audit-logs", h.Audit.Index)
			admin.GET("/audit-logs/export", h.Audit.Export)

			// Account management and maintenance (admins only)
			adminOnly := admin.Group("")
			adminOnly.Use(middleware.RequireRole(models.RoleAdmin))
			{
				adminOnly.GET("/users", h.User.Index)
				adminOnly.POST("/users", h.User.Create)
				adminOnly.DELETE("/users/:user_id", h.User.Delete)

				adminOnly.POST("/media/sweep", h.Job.SweepOrphans)
				adminOnly.GET("/jobs/status", h.Job.Status)
			}
		}
	}
}
