package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"org-knowledge-platform/middleware"
	"org-knowledge-platform/models"
	"org-knowledge-platform/services"
	"org-knowledge-platform/utils"
)

type queryRequest struct {
	Question   string `json:"question" binding:"required"`
	Language   string `json:"language"`
	Department string `json:"department"`
	Category   string `json:"category"`
}

// toQueryRequest combines the body with the caller's token identity. The
// classification filter always comes from the token role, never from the
// request.
func toQueryRequest(c *gin.Context, req queryRequest) services.QueryRequest {
	var extra models.And
	if req.Department != "" {
		extra = append(extra, models.Eq{Field: "department", Value: req.Department})
	}
	if req.Category != "" {
		extra = append(extra, models.Eq{Field: "category", Value: req.Category})
	}

	var filter models.Filter
	if len(extra) > 0 {
		filter = extra
	}
	return services.QueryRequest{
		Question:   req.Question,
		Language:   req.Language,
		Role:       middleware.GetRole(c),
		Department: middleware.GetDepartment(c),
		Filter:     filter,
	}
}

func SetupQueryRoutes(router *gin.Engine, orchestrator *services.RetrievalOrchestrator, authMiddleware *middleware.AuthMiddleware) {
	authed := router.Group("/")
	authed.Use(authMiddleware.RequireAuth())

	// Raw retrieval: ranked chunks, context, sources, confidence.
	authed.POST("/query", func(c *gin.Context) {
		var req queryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		result, err := orchestrator.Retrieve(c.Request.Context(), toQueryRequest(c, req))
		if err != nil {
			utils.RespondWithDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	})

	// Full pipeline with generation. Failures come back as the canned
	// degraded reply, so this endpoint always answers 200.
	authed.POST("/answer", func(c *gin.Context) {
		var req queryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		result := orchestrator.Answer(c.Request.Context(), toQueryRequest(c, req))
		c.JSON(http.StatusOK, result)
	})
}
