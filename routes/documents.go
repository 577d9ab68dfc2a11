package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"org-knowledge-platform/internal/logger"
	"org-knowledge-platform/internal/queue"
	"org-knowledge-platform/middleware"
	"org-knowledge-platform/services"
	"org-knowledge-platform/utils"
)

type documentRequest struct {
	Content string `json:"content" binding:"required"`
	services.IngestRequest
}

type asyncIngestRequest struct {
	Path string `json:"path" binding:"required"`
	services.IngestRequest
}

func SetupDocumentRoutes(router *gin.Engine, content *services.ContentManager, asynqClient *asynq.Client, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	documents := router.Group("/documents")
	documents.Use(authMiddleware.RequireAuth())

	// Synchronous ingest: the document is chunked, embedded, and indexed
	// before the response returns.
	documents.POST("", roleMiddleware.AdminGuard(), func(c *gin.Context) {
		var req documentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		meta, err := content.Ingest(c.Request.Context(), req.Content, req.IngestRequest)
		if err != nil {
			utils.RespondWithDomainError(c, err)
			return
		}
		c.JSON(http.StatusCreated, meta)
	})

	// Async ingest: enqueue a worker task for a file on shared storage.
	documents.POST("/async", roleMiddleware.AdminGuard(), func(c *gin.Context) {
		var req asyncIngestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		jobID := uuid.NewString()
		task, err := queue.NewIngestDocumentTask(jobID, req.Path, req.IngestRequest)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to build ingest task", nil)
			return
		}
		info, err := asynqClient.Enqueue(task)
		if err != nil {
			logger.Error("Failed to enqueue ingest task", "error", err)
			utils.RespondWithInternalError(c, "Failed to enqueue ingest task", nil)
			return
		}

		c.JSON(http.StatusAccepted, gin.H{
			"job_id":  jobID,
			"task_id": info.ID,
			"queue":   info.Queue,
		})
	})

	documents.PUT("/:id", roleMiddleware.AdminGuard(), func(c *gin.Context) {
		var req documentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		meta, err := content.Update(c.Request.Context(), c.Param("id"), req.Content, req.IngestRequest)
		if err != nil {
			utils.RespondWithDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, meta)
	})

	documents.DELETE("/:id", roleMiddleware.AdminGuard(), func(c *gin.Context) {
		if err := content.Delete(c.Request.Context(), c.Param("id")); err != nil {
			utils.RespondWithDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
	})

	documents.GET("", func(c *gin.Context) {
		metas, err := content.List(c.Request.Context())
		if err != nil {
			utils.RespondWithDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"documents": metas, "count": len(metas)})
	})

	documents.GET("/:id", func(c *gin.Context) {
		meta, err := content.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			utils.RespondWithDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, meta)
	})
}
