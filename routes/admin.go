package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"org-knowledge-platform/middleware"
	"org-knowledge-platform/services"
	"org-knowledge-platform/utils"
)

func SetupAdminRoutes(router *gin.Engine, content *services.ContentManager, backup *services.BackupService, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	authed := router.Group("/")
	authed.Use(authMiddleware.RequireAuth())

	authed.GET("/stats", func(c *gin.Context) {
		stats, err := content.Stats(c.Request.Context())
		if err != nil {
			utils.RespondWithDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	authed.POST("/backup", roleMiddleware.AdminGuard(), func(c *gin.Context) {
		path, err := backup.Run(c.Request.Context())
		if err != nil {
			utils.RespondWithDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"backup": path})
	})
}
