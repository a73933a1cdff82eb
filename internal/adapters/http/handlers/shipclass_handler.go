package handlers

import (
	"strings"

	"alliance-srp/internal/adapters/persistence/models"
	"alliance-srp/internal/adapters/persistence/repositories"
	"alliance-srp/internal/core/shipclass"
	"alliance-srp/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// ShipClassHandler handles the ship class dataset
type ShipClassHandler struct {
	repo     repositories.ShipClassRepository
	registry *shipclass.Registry
}

// NewShipClassHandler creates a new ship class handler
func NewShipClassHandler(repo repositories.ShipClassRepository, registry *shipclass.Registry) *ShipClassHandler {
	return &ShipClassHandler{repo: repo, registry: registry}
}

// ShipClassRequest is one dataset row
type ShipClassRequest struct {
	GroupName   string           `json:"group_name" validate:"required,max=100"`
	TierCeiling *decimal.Decimal `json:"tier_ceiling" swaggertype:"string"`
	IsSpecial   bool             `json:"is_special"`
}

// UpsertShipClassesRequest replaces or adds rows
type UpsertShipClassesRequest struct {
	Classes []ShipClassRequest `json:"classes" validate:"required,min=1,dive"`
}

// List returns the stored dataset
// @Summary List ship classes
// @Tags ShipClasses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /ship-classes [get]
func (h *ShipClassHandler) List(c *fiber.Ctx) error {
	classes, err := h.repo.List(c.UserContext())
	if err != nil {
		return fail(c, err, "Failed to list ship classes")
	}
	return response.Success(c, "Ship classes retrieved successfully", fiber.Map{
		"classes":   classes,
		"loaded":    h.registry.Table().Len(),
		"loaded_at": h.registry.Table().LoadedAt(),
	})
}

// Upsert stores rows; the live table changes only on refresh
// @Summary Upsert ship classes
// @Tags ShipClasses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpsertShipClassesRequest true "Rows"
// @Success 200 {object} response.Response
// @Router /admin/ship-classes [put]
func (h *ShipClassHandler) Upsert(c *fiber.Ctx) error {
	var req UpsertShipClassesRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	rows := make([]*models.ShipClass, 0, len(req.Classes))
	for _, r := range req.Classes {
		row := &models.ShipClass{GroupName: strings.TrimSpace(r.GroupName), IsSpecial: r.IsSpecial}
		if r.TierCeiling != nil {
			if r.TierCeiling.IsNegative() {
				return response.BadRequest(c, "tier_ceiling must not be negative")
			}
			row.TierCeiling = decimal.NewNullDecimal(*r.TierCeiling)
		}
		rows = append(rows, row)
	}

	if err := h.repo.Upsert(c.UserContext(), rows); err != nil {
		return fail(c, err, "Failed to store ship classes")
	}
	return response.Success(c, "Ship classes stored", fiber.Map{"stored": len(rows)})
}

// Refresh reloads the live lookup table from the database
// @Summary Refresh ship class table
// @Tags ShipClasses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /admin/ship-classes/refresh [post]
func (h *ShipClassHandler) Refresh(c *fiber.Ctx) error {
	n, err := h.registry.Refresh(c.UserContext())
	if err != nil {
		return response.ServiceUnavailable(c, "Failed to reload ship classes")
	}
	return response.Success(c, "Ship class table refreshed", fiber.Map{"groups": n})
}
