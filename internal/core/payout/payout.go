// Package payout computes SRP reimbursement amounts.
//
// Calculate is pure: it reads a Policy and a ShipClasses lookup and never
// touches storage, so the same input always yields the same Result.
package payout

import (
	"fmt"

	"alliance-srp/internal/core/domain"

	"github.com/shopspring/decimal"
)

// ShipClasses is the read-only ship class lookup the calculator needs.
type ShipClasses interface {
	IsSpecialClass(group string) bool
	TierCeiling(group string) (decimal.Decimal, bool)
}

// Policy holds the multipliers and the global ceiling.
type Policy struct {
	SoloMultiplier     decimal.Decimal
	FleetMultiplier    decimal.Decimal
	FullRateMultiplier decimal.Decimal
	DefaultCeiling     decimal.Decimal
}

// DefaultPolicy returns the alliance's standard payout policy
func DefaultPolicy() Policy {
	return Policy{
		SoloMultiplier:     decimal.RequireFromString("0.25"),
		FleetMultiplier:    decimal.RequireFromString("0.5"),
		FullRateMultiplier: decimal.NewFromInt(1),
		DefaultCeiling:     decimal.NewFromInt(5_000_000_000),
	}
}

// Validate checks that the policy can be used for calculation
func (p Policy) Validate() error {
	for name, m := range map[string]decimal.Decimal{
		"solo multiplier":      p.SoloMultiplier,
		"fleet multiplier":     p.FleetMultiplier,
		"full-rate multiplier": p.FullRateMultiplier,
		"default ceiling":      p.DefaultCeiling,
	} {
		if m.IsNegative() {
			return fmt.Errorf("%s must not be negative: %w", name, domain.ErrInvalidInput)
		}
	}
	return nil
}

// Input is a single calculation request
type Input struct {
	BaseValue   decimal.Decimal
	Context     domain.OperationContext
	SpecialRole bool
	ShipGroup   string
}

// Breakdown explains how a payout was reached
type Breakdown struct {
	BaseValue            decimal.Decimal `json:"base_value"`
	OperationMultiplier  decimal.Decimal `json:"operation_multiplier"`
	EffectiveSpecialRole bool            `json:"effective_special_role"`
	IsSpecialShipClass   bool            `json:"is_special_ship_class"`
	CalculatedAmount     decimal.Decimal `json:"calculated_amount"`
	MaxPayout            decimal.Decimal `json:"max_payout"`
	CeilingApplied       bool            `json:"ceiling_applied"`
	FinalAmount          decimal.Decimal `json:"final_amount"`
}

// Result is the calculator output
type Result struct {
	EstimatedPayout decimal.Decimal `json:"estimated_payout"`
	Breakdown       Breakdown       `json:"breakdown"`
}

// amountPlaces is the precision payouts are truncated to.
const amountPlaces = 2

// MaxAmount is the smallest value a decimal(20,2) amount column cannot hold.
var MaxAmount = decimal.New(1, 18)

// CheckAmount rejects amounts at or above MaxAmount
func CheckAmount(field string, v decimal.Decimal) error {
	if v.GreaterThanOrEqual(MaxAmount) {
		return fmt.Errorf("%s must be below %s: %w", field, MaxAmount.String(), domain.ErrInvalidInput)
	}
	return nil
}

// ValidateInput rejects input the calculator must never see
func ValidateInput(in Input) error {
	if !in.Context.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidOpContext, in.Context)
	}
	if in.BaseValue.IsNegative() {
		return fmt.Errorf("base value: %w", domain.ErrNegativeAmount)
	}
	return CheckAmount("base value", in.BaseValue)
}

// Calculate computes the estimated payout for in.
// classes may be nil, in which case no ship group is special or capped.
func Calculate(p Policy, classes ShipClasses, in Input) Result {
	isSpecialClass := false
	ceiling, hasCeiling := decimal.Zero, false
	if classes != nil && in.ShipGroup != "" {
		isSpecialClass = classes.IsSpecialClass(in.ShipGroup)
		ceiling, hasCeiling = classes.TierCeiling(in.ShipGroup)
	}

	effectiveSpecialRole := in.Context == domain.ContextFleet && in.SpecialRole

	var multiplier decimal.Decimal
	switch {
	case effectiveSpecialRole:
		multiplier = p.FullRateMultiplier
	case in.Context == domain.ContextFleet:
		multiplier = p.FleetMultiplier
	case isSpecialClass:
		multiplier = p.FullRateMultiplier
	default:
		multiplier = p.SoloMultiplier
	}

	calculated := in.BaseValue.Mul(multiplier)

	maxPayout := p.DefaultCeiling
	if in.Context == domain.ContextSolo && hasCeiling {
		maxPayout = ceiling
	}

	final := decimal.Min(calculated, maxPayout).Truncate(amountPlaces)

	return Result{
		EstimatedPayout: final,
		Breakdown: Breakdown{
			BaseValue:            in.BaseValue,
			OperationMultiplier:  multiplier,
			EffectiveSpecialRole: effectiveSpecialRole,
			IsSpecialShipClass:   isSpecialClass,
			CalculatedAmount:     calculated,
			MaxPayout:            maxPayout,
			CeilingApplied:       calculated.GreaterThan(maxPayout),
			FinalAmount:          final,
		},
	}
}
