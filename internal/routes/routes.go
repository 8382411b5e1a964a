package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smartattend_backend/internal/config"
	"smartattend_backend/internal/handlers"
)

// RegisterRoutes mounts the whole API surface plus the upload file server.
func RegisterRoutes(r *gin.Engine, h *handlers.AppHandlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	cfg := config.GetConfig()
	r.Static(cfg.Storage.BaseURL, cfg.Storage.BasePath)

	api := r.Group("/api")
	{
		h.AuthHandler.RegisterRoutes(api)
		h.UserHandler.RegisterRoutes(api)
		h.AttendanceHandler.RegisterRoutes(api)
	}
}
