package handlers

import (
	"errors"

	"alliance-srp/internal/config"
	"alliance-srp/internal/core/domain"
	"alliance-srp/internal/core/services"
	"alliance-srp/internal/pkg/response"
	"alliance-srp/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// param returns a copy of the route parameter. Fiber reuses the request
// buffer once the handler returns, so values handed to services must not alias it.
func param(c *fiber.Ctx, name string) string {
	return utils.CopyString(c.Params(name))
}

// actor builds the acting user from the locals set by AuthMiddleware
func actor(c *fiber.Ctx) (services.Actor, bool) {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return services.Actor{}, false
	}
	username, _ := c.Locals("username").(string)
	role, _ := c.Locals("role").(string)

	return services.Actor{UserID: userID, Name: username, Role: domain.Role(role)}, true
}

// bind parses the body into req and runs struct validation.
// It writes the error response itself; callers return when ok is false.
func bind(c *fiber.Ctx, req interface{}) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(req); err != nil {
		if fields := validation.Errors(err); fields != nil {
			return false, response.ValidationError(c, fields)
		}
		return false, response.BadRequest(c, err.Error())
	}
	return true, nil
}

// fail maps service errors to HTTP responses
func fail(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrClaimNotFound),
		errors.Is(err, domain.ErrFleetNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, err.Error())

	case errors.Is(err, domain.ErrIllegalTransition),
		errors.Is(err, domain.ErrInvalidFleetTransition),
		errors.Is(err, domain.ErrDuplicateKillmail),
		errors.Is(err, domain.ErrDuplicateEntry),
		errors.Is(err, domain.ErrClaimLocked):
		return response.Conflict(c, err.Error())

	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidKillmailURL),
		errors.Is(err, domain.ErrInvalidOpContext),
		errors.Is(err, domain.ErrNegativeAmount),
		errors.Is(err, domain.ErrBelowMinimumValue),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, services.ErrCannotChangeOwnRole):
		return response.BadRequest(c, err.Error())

	case errors.Is(err, domain.ErrNotClaimOwner),
		errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrUserInactive):
		return response.Forbidden(c, err.Error())

	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrUnauthorized):
		return response.Unauthorized(c, err.Error())

	case errors.Is(err, domain.ErrStoreUnavailable):
		return response.ServiceUnavailable(c, "Storage is busy, please retry")
	}

	config.LogError(config.GetLogger(), "http", c.Path(), fallback, nil, err)
	return response.InternalServerError(c, fallback)
}
