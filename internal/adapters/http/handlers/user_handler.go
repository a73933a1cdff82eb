package handlers

import (
	"strconv"

	"alliance-srp/internal/core/services"
	"alliance-srp/internal/pkg/pagination"
	"alliance-srp/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user management endpoints
type UserHandler struct {
	userService *services.UserService
	authService *services.AuthService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, authService *services.AuthService) *UserHandler {
	return &UserHandler{
		userService: userService,
		authService: authService,
	}
}

// ListUsers handles listing all users (Admin only)
// @Summary List all users
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} pagination.Response
// @Failure 403 {object} response.Response
// @Router /users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	users, total, err := h.userService.ListUsers(c.UserContext(), params.Page, params.Limit)
	if err != nil {
		return fail(c, err, "Failed to list users")
	}

	return response.Success(c, "Users retrieved successfully", pagination.NewResponse(users, params, total))
}

// CreateUser handles creating a local account (Admin only)
// @Summary Create user
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateUserInput true "User data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users [post]
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req services.CreateUserInput
	if ok, err := bind(c, &req); !ok {
		return err
	}

	user, err := h.authService.CreateUser(c.UserContext(), &req)
	if err != nil {
		return fail(c, err, "Failed to create user")
	}

	return response.Created(c, "User created successfully", user)
}

// SetUserRole handles changing a user's role (Admin only)
// @Summary Set user role
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body services.SetRoleInput true "Role"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id}/role [put]
func (h *UserHandler) SetUserRole(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(param(c, "id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req services.SetRoleInput
	if ok, err := bind(c, &req); !ok {
		return err
	}

	user, err := h.userService.SetUserRole(c.UserContext(), a.UserID, uint(id), &req)
	if err != nil {
		return fail(c, err, "Failed to set user role")
	}

	return response.Success(c, "User role updated successfully", user)
}
