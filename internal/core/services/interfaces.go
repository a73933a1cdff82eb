package services

import (
	"alliance-srp/internal/adapters/persistence/models"
	"alliance-srp/internal/core/domain"
)

// Actor is the authenticated user performing an operation
type Actor struct {
	UserID uint
	Name   string
	Role   domain.Role
}

// IsReviewer reports whether the actor may review claims
func (a Actor) IsReviewer() bool {
	return a.Role == domain.RoleFC || a.Role == domain.RoleAdmin
}

// Notifier is told about claim lifecycle events after they commit.
// Implementations must not block the caller.
type Notifier interface {
	ClaimSubmitted(claim *models.Claim)
	ClaimReviewed(claim *models.Claim, status domain.ClaimStatus, reviewer string)
	ClaimPaid(claim *models.Claim, payer string)
	PayoutSummary(summary *DashboardSummary)
}
