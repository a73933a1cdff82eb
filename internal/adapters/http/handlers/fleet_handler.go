package handlers

import (
	"alliance-srp/internal/core/domain"
	"alliance-srp/internal/core/services"
	"alliance-srp/internal/pkg/pagination"
	"alliance-srp/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// FleetHandler handles fleet endpoints
type FleetHandler struct {
	fleetService *services.FleetService
}

// NewFleetHandler creates a new fleet handler
func NewFleetHandler(fleetService *services.FleetService) *FleetHandler {
	return &FleetHandler{fleetService: fleetService}
}

// Create creates a fleet (FC/Admin)
// @Summary Create fleet
// @Tags Fleets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateFleetInput true "Fleet"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /fleets [post]
func (h *FleetHandler) Create(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.CreateFleetInput
	if ok, err := bind(c, &req); !ok {
		return err
	}

	fleet, err := h.fleetService.Create(c.UserContext(), a, &req)
	if err != nil {
		return fail(c, err, "Failed to create fleet")
	}

	return response.Created(c, "Fleet created successfully", fleet)
}

// List lists fleets
// @Summary List fleets
// @Tags Fleets
// @Produce json
// @Security BearerAuth
// @Param status query string false "Fleet status" Enums(active, completed, cancelled)
// @Param mine query bool false "Only fleets I command"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response{data=pagination.Response}
// @Router /fleets [get]
func (h *FleetHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	input := services.ListFleetsInput{
		Status: c.Query("status"),
		Page:   params.Page,
		Limit:  params.Limit,
	}
	if c.QueryBool("mine") {
		if a, ok := actor(c); ok {
			input.CommanderID = &a.UserID
		}
	}

	fleets, total, err := h.fleetService.List(c.UserContext(), input)
	if err != nil {
		return fail(c, err, "Failed to list fleets")
	}

	return response.Success(c, "Fleets retrieved successfully", pagination.NewResponse(fleets, params, total))
}

// Get returns a fleet
// @Summary Get fleet
// @Tags Fleets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Fleet ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /fleets/{id} [get]
func (h *FleetHandler) Get(c *fiber.Ctx) error {
	fleet, err := h.fleetService.Get(c.UserContext(), param(c, "id"))
	if err != nil {
		return fail(c, err, "Failed to get fleet")
	}
	return response.Success(c, "Fleet retrieved successfully", fleet)
}

// UpdateStatus completes or cancels a fleet
// @Summary Update fleet status
// @Tags Fleets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Fleet ID"
// @Param body body services.UpdateFleetStatusInput true "Status"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /fleets/{id}/status [put]
func (h *FleetHandler) UpdateStatus(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.UpdateFleetStatusInput
	if ok, err := bind(c, &req); !ok {
		return err
	}

	fleet, err := h.fleetService.UpdateStatus(c.UserContext(), a, param(c, "id"), &req)
	if err != nil {
		return fail(c, err, "Failed to update fleet")
	}

	return response.Success(c, "Fleet status updated", fleet)
}

// Claims lists claims filed against a fleet
// @Summary List fleet claims
// @Tags Fleets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Fleet ID"
// @Param status query string false "Derived status" Enums(pending, approved, denied, paid)
// @Success 200 {object} response.Response{data=pagination.Response}
// @Router /fleets/{id}/claims [get]
func (h *FleetHandler) Claims(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	claims, total, err := h.fleetService.Claims(c.UserContext(), param(c, "id"),
		domain.ClaimStatus(c.Query("status")), params.Page, params.Limit)
	if err != nil {
		return fail(c, err, "Failed to list fleet claims")
	}

	return response.Success(c, "Fleet claims retrieved successfully", pagination.NewResponse(claims, params, total))
}
