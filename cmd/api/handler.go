package api

import (
	"github.com/gin-gonic/gin"

	triageDelivery "mail-triage-backend/internal/triage/delivery"
	"mail-triage-backend/internal/triage/usecase"
	"mail-triage-backend/pkg/config"
)

type Handler struct {
	triageHandler *triageDelivery.TriageHandler
}

func NewHandler(triageUc usecase.TriageUsecase, cfg *config.Config) *Handler {
	return &Handler{
		triageHandler: triageDelivery.NewTriageHandler(triageUc, cfg.FetchWindowDays),
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.triageHandler)

	return r.Run(addr)
}
