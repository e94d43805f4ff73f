package handlers

import (
	"errors"
	"net/http"

	"eventify_backend/internal/auth"
	"eventify_backend/internal/dto"
	"eventify_backend/internal/repositories"
	"eventify_backend/internal/services"
	"eventify_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
	authService services.AuthService
}

func NewUserHandler(base *BaseHandler, userService services.UserService, authService services.AuthService) *UserHandler {
	return &UserHandler{BaseHandler: base, userService: userService, authService: authService}
}

// requireManageUsers loads the caller and checks the manage-users grant.
func (h *UserHandler) requireManageUsers(c *gin.Context) bool {
	user, err := h.authService.CurrentUser(c.Request.Context(), h.GetAuthUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return false
	}
	if !user.HasPermission(auth.PermManageUsers) {
		h.HandleServiceError(c, apperrors.NewForbiddenError("you are not allowed to manage users"))
		return false
	}
	return true
}

func (h *UserHandler) List(c *gin.Context) {
	if !h.requireManageUsers(c) {
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, services.UserToResponse(&users[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (h *UserHandler) ListRoles(c *gin.Context) {
	if !h.requireManageUsers(c) {
		return
	}

	roles, err := h.userService.ListRoles(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": roles})
}

func (h *UserHandler) SetRoles(c *gin.Context) {
	if !h.requireManageUsers(c) {
		return
	}

	var req dto.SetRolesRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	user, err := h.userService.SetRoles(c.Request.Context(), c.Param("id"), req.Roles)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			h.HandleServiceError(c, apperrors.NewNotFoundError("users", "user not found"))
			return
		}
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, services.UserToResponse(user))
}
