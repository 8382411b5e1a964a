package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"smartattend_backend/internal/appErrors"
	"smartattend_backend/internal/middleware"
	"smartattend_backend/internal/models"
	"smartattend_backend/internal/repositories"
	"smartattend_backend/internal/services"
	"smartattend_backend/internal/services/dto"
)

// maxAvatarSize bounds the in-memory read of an uploaded avatar.
const maxAvatarSize = 10 << 20

type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("", middleware.AdminMiddleware(), h.ListUsers)

		user := users.Group("/:userId")
		user.Use(middleware.SelfOrAdminMiddleware("userId"))
		{
			user.GET("", h.GetUser)
			user.PATCH("", h.UpdateUser)
		}

		users.DELETE("/:userId", middleware.AdminMiddleware(), h.DeleteUser)
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	filter := repositories.UserFilter{
		Search:   c.Query("search"),
		Page:     page,
		PageSize: pageSize,
	}
	if role := c.Query("role"); role != "" {
		filter.Role = models.UserRole(role)
	}

	response, err := h.userService.ListUsers(filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.Param("userId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// UpdateUser accepts either a JSON body or multipart form data. Multipart
// requests may carry the new avatar in the profileImage file field; JSON
// requests may carry it as a data URI in the profileImage string field.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req dto.UpdateUserRequest
	var avatar *dto.AvatarFile

	if c.ContentType() == "multipart/form-data" {
		if !h.BindAndValidate_Form(c, &req) {
			return
		}

		file, header, err := c.Request.FormFile("profileImage")
		if err == nil {
			defer file.Close()

			data, readErr := io.ReadAll(io.LimitReader(file, maxAvatarSize+1))
			if readErr != nil {
				h.HandleServiceError(c, appErrors.FileError(readErr))
				return
			}
			if len(data) > maxAvatarSize {
				h.HandleServiceError(c, appErrors.NewBadRequestError("Image file is too large"))
				return
			}
			avatar = &dto.AvatarFile{Data: data, Filename: header.Filename}
		} else if err != http.ErrMissingFile {
			h.HandleServiceError(c, appErrors.NewBadRequestError("Invalid profileImage upload"))
			return
		}
	} else {
		if !h.BindAndValidate_JSON(c, &req) {
			return
		}
	}

	user, err := h.userService.UpdateUser(middleware.GetRole(c), c.Param("userId"), &req, avatar)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.userService.DeleteUser(c.Param("userId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted successfully"})
}
