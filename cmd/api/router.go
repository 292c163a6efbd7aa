package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	triageDelivery "mail-triage-backend/internal/triage/delivery"
)

func SetupRoutes(r *gin.Engine, triageHandler *triageDelivery.TriageHandler) {
	api := r.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		messages := api.Group("/messages")
		{
			messages.GET("", triageHandler.GetMessages)
			messages.GET("/:id", triageHandler.GetMessage)
			messages.GET("/:id/state", triageHandler.GetState)
			messages.POST("/:id/must-reply", triageHandler.SetMustReply)
			messages.PUT("/:id/draft", triageHandler.SetDraft)
			messages.DELETE("/:id/state", triageHandler.ClearState)
			messages.POST("/:id/generate", triageHandler.GenerateDraft)
			messages.POST("/:id/persist", triageHandler.PersistDraft)
		}

		api.POST("/bulk", triageHandler.RunBulk)
	}
}
