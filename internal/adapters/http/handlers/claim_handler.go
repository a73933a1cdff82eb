package handlers

import (
	"alliance-srp/internal/core/domain"
	"alliance-srp/internal/core/services"
	"alliance-srp/internal/pkg/pagination"
	"alliance-srp/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ClaimHandler handles SRP claim endpoints
type ClaimHandler struct {
	claimService *services.ClaimService
}

// NewClaimHandler creates a new claim handler
func NewClaimHandler(claimService *services.ClaimService) *ClaimHandler {
	return &ClaimHandler{claimService: claimService}
}

// Estimate previews a payout
// @Summary Estimate payout
// @Description Runs the payout calculator without storing a claim
// @Tags Claims
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.EstimateInput true "Loss details"
// @Success 200 {object} response.Response{data=payout.Result}
// @Failure 400 {object} response.Response
// @Router /claims/estimate [post]
func (h *ClaimHandler) Estimate(c *fiber.Ctx) error {
	var req services.EstimateInput
	if ok, err := bind(c, &req); !ok {
		return err
	}

	result, err := h.claimService.Estimate(c.UserContext(), &req)
	if err != nil {
		return fail(c, err, "Failed to estimate payout")
	}

	return response.Success(c, "Payout estimated", result)
}

// Submit files a new claim
// @Summary Submit claim
// @Tags Claims
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.SubmitClaimInput true "Claim"
// @Success 201 {object} response.Response{data=services.ClaimDetail}
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /claims [post]
func (h *ClaimHandler) Submit(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.SubmitClaimInput
	if ok, err := bind(c, &req); !ok {
		return err
	}

	detail, err := h.claimService.Submit(c.UserContext(), a, &req)
	if err != nil {
		return fail(c, err, "Failed to submit claim")
	}

	return response.Created(c, "Claim submitted successfully", detail)
}

// ListMine lists the caller's claims
// @Summary List my claims
// @Tags Claims
// @Produce json
// @Security BearerAuth
// @Param status query string false "Derived status" Enums(pending, approved, denied, paid)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response{data=pagination.Response}
// @Router /claims/my [get]
func (h *ClaimHandler) ListMine(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	return h.list(c, &a.UserID, nil)
}

// List lists all claims (FC/Admin)
// @Summary List claims
// @Tags Claims
// @Produce json
// @Security BearerAuth
// @Param status query string false "Derived status" Enums(pending, approved, denied, paid)
// @Param claimant_id query int false "Claimant user ID"
// @Param fleet_id query string false "Fleet ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response{data=pagination.Response}
// @Router /claims [get]
func (h *ClaimHandler) List(c *fiber.Ctx) error {
	var claimant *uint
	if v := c.QueryInt("claimant_id", 0); v > 0 {
		id := uint(v)
		claimant = &id
	}
	var fleet *string
	if v := c.Query("fleet_id"); v != "" {
		fleet = &v
	}
	return h.list(c, claimant, fleet)
}

func (h *ClaimHandler) list(c *fiber.Ctx, claimant *uint, fleet *string) error {
	params := pagination.GetParams(c)

	claims, total, err := h.claimService.List(c.UserContext(), services.ListClaimsInput{
		Status:     domain.ClaimStatus(c.Query("status")),
		ClaimantID: claimant,
		FleetID:    fleet,
		Page:       params.Page,
		Limit:      params.Limit,
	})
	if err != nil {
		return fail(c, err, "Failed to list claims")
	}

	return response.Success(c, "Claims retrieved successfully", pagination.NewResponse(claims, params, total))
}

// Get returns one claim with its derived status and log
// @Summary Get claim
// @Tags Claims
// @Produce json
// @Security BearerAuth
// @Param id path string true "Claim ID"
// @Success 200 {object} response.Response{data=services.ClaimDetail}
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /claims/{id} [get]
func (h *ClaimHandler) Get(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	detail, err := h.claimService.Get(c.UserContext(), a, param(c, "id"))
	if err != nil {
		return fail(c, err, "Failed to get claim")
	}

	return response.Success(c, "Claim retrieved successfully", detail)
}

// History returns a claim's process log
// @Summary Get claim history
// @Tags Claims
// @Produce json
// @Security BearerAuth
// @Param id path string true "Claim ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /claims/{id}/history [get]
func (h *ClaimHandler) History(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	history, err := h.claimService.History(c.UserContext(), a, param(c, "id"))
	if err != nil {
		return fail(c, err, "Failed to get claim history")
	}

	return response.Success(c, "Claim history retrieved successfully", history)
}

// Approve approves a pending claim (FC/Admin)
// @Summary Approve claim
// @Tags Claims
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Claim ID"
// @Param body body services.ApproveInput false "Payout override and note"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /claims/{id}/approve [put]
func (h *ClaimHandler) Approve(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.ApproveInput
	if len(c.Body()) > 0 {
		if ok, err := bind(c, &req); !ok {
			return err
		}
	}

	claim, err := h.claimService.Approve(c.UserContext(), a, param(c, "id"), &req)
	if err != nil {
		return fail(c, err, "Failed to approve claim")
	}

	return response.Success(c, "Claim approved", claim)
}

// Deny denies a pending claim (FC/Admin)
// @Summary Deny claim
// @Tags Claims
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Claim ID"
// @Param body body services.DenyInput true "Reason"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /claims/{id}/deny [put]
func (h *ClaimHandler) Deny(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.DenyInput
	if ok, err := bind(c, &req); !ok {
		return err
	}

	claim, err := h.claimService.Deny(c.UserContext(), a, param(c, "id"), &req)
	if err != nil {
		return fail(c, err, "Failed to deny claim")
	}

	return response.Success(c, "Claim denied", claim)
}

// Pay marks an approved claim as paid (Admin)
// @Summary Pay claim
// @Tags Claims
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Claim ID"
// @Param body body services.PayInput false "Note"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /claims/{id}/pay [put]
func (h *ClaimHandler) Pay(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.PayInput
	if len(c.Body()) > 0 {
		if ok, err := bind(c, &req); !ok {
			return err
		}
	}

	claim, err := h.claimService.Pay(c.UserContext(), a, param(c, "id"), &req)
	if err != nil {
		return fail(c, err, "Failed to pay claim")
	}

	return response.Success(c, "Claim paid", claim)
}

// AddNote appends a comment to a claim
// @Summary Comment on claim
// @Tags Claims
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Claim ID"
// @Param body body services.NoteInput true "Note"
// @Success 201 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /claims/{id}/notes [post]
func (h *ClaimHandler) AddNote(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.NoteInput
	if ok, err := bind(c, &req); !ok {
		return err
	}

	entry, err := h.claimService.AddNote(c.UserContext(), a, param(c, "id"), &req)
	if err != nil {
		return fail(c, err, "Failed to add note")
	}

	return response.Created(c, "Note added", entry)
}
