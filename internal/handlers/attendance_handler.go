package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smartattend_backend/internal/middleware"
	"smartattend_backend/internal/services"
)

type AttendanceHandler struct {
	*BaseHandler
	attendanceService services.AttendanceService
}

func NewAttendanceHandler(base *BaseHandler, attendanceService services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{
		BaseHandler:       base,
		attendanceService: attendanceService,
	}
}

func (h *AttendanceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	attendance := rg.Group("/attendance")
	attendance.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		attendance.GET("/events-count", h.GetEventsCount)
	}
}

func (h *AttendanceHandler) GetEventsCount(c *gin.Context) {
	count, err := h.attendanceService.GetTotalEventsCount()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": count})
}
