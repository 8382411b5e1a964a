package appErrors

import (
	"smartattend_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the error body returned by every API route.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   *AppError `json:"error"`
}

// HandleError writes an AppError as a JSON response with its HTTP status.
func HandleError(c *gin.Context, err *AppError) {
	if err.HTTPCode >= 500 {
		logger.CtxError(c.Request.Context(), "server error",
			"code", string(err.Code),
			"error", err.Error(),
			"path", c.Request.URL.Path,
		)
	}

	c.JSON(err.HTTPCode, ErrorResponse{Success: false, Error: err})
}

// HandleValidationError converts a binding/validation error into the
// standard validation response.
func HandleValidationError(c *gin.Context, err error) {
	HandleError(c, ErrValidationFailed.WithDetails(err.Error()))
}
