package payout

import (
	"errors"
	"testing"

	"alliance-srp/internal/core/domain"

	"github.com/shopspring/decimal"
)

type fakeClasses struct {
	special  map[string]bool
	ceilings map[string]decimal.Decimal
}

func (f fakeClasses) IsSpecialClass(group string) bool { return f.special[group] }

func (f fakeClasses) TierCeiling(group string) (decimal.Decimal, bool) {
	c, ok := f.ceilings[group]
	return c, ok
}

func isk(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func testClasses() fakeClasses {
	return fakeClasses{
		special: map[string]bool{"Logistics Cruiser": true},
		ceilings: map[string]decimal.Decimal{
			"Cruiser":           isk(300_000_000),
			"Logistics Cruiser": isk(200_000_000),
		},
	}
}

func TestCalculate_Scenarios(t *testing.T) {
	tests := []struct {
		name           string
		in             Input
		wantPayout     decimal.Decimal
		wantMultiplier string
		wantCeiling    bool
	}{
		{
			name:           "fleet loss without ceiling",
			in:             Input{BaseValue: isk(1_000_000_000), Context: domain.ContextFleet, ShipGroup: "Battleship"},
			wantPayout:     isk(500_000_000),
			wantMultiplier: "0.5",
		},
		{
			name:           "solo loss under tier ceiling",
			in:             Input{BaseValue: isk(1_000_000_000), Context: domain.ContextSolo, ShipGroup: "Cruiser"},
			wantPayout:     isk(250_000_000),
			wantMultiplier: "0.25",
		},
		{
			name:           "solo loss capped by tier ceiling",
			in:             Input{BaseValue: isk(2_000_000_000), Context: domain.ContextSolo, ShipGroup: "Cruiser"},
			wantPayout:     isk(300_000_000),
			wantMultiplier: "0.25",
			wantCeiling:    true,
		},
		{
			name:           "fleet special role",
			in:             Input{BaseValue: isk(400_000_000), Context: domain.ContextFleet, SpecialRole: true},
			wantPayout:     isk(400_000_000),
			wantMultiplier: "1",
		},
		{
			name:           "fleet loss ignores tier ceiling",
			in:             Input{BaseValue: isk(2_000_000_000), Context: domain.ContextFleet, ShipGroup: "Cruiser"},
			wantPayout:     isk(1_000_000_000),
			wantMultiplier: "0.5",
		},
		{
			name:           "global ceiling",
			in:             Input{BaseValue: isk(20_000_000_000), Context: domain.ContextFleet, SpecialRole: true},
			wantPayout:     isk(5_000_000_000),
			wantMultiplier: "1",
			wantCeiling:    true,
		},
		{
			name:           "zero value",
			in:             Input{BaseValue: decimal.Zero, Context: domain.ContextSolo},
			wantPayout:     decimal.Zero,
			wantMultiplier: "0.25",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(DefaultPolicy(), testClasses(), tt.in)
			if !got.EstimatedPayout.Equal(tt.wantPayout) {
				t.Errorf("expected payout %s, got %s", tt.wantPayout, got.EstimatedPayout)
			}
			if got.Breakdown.OperationMultiplier.String() != tt.wantMultiplier {
				t.Errorf("expected multiplier %s, got %s", tt.wantMultiplier, got.Breakdown.OperationMultiplier)
			}
			if got.Breakdown.CeilingApplied != tt.wantCeiling {
				t.Errorf("expected ceiling applied %v, got %v", tt.wantCeiling, got.Breakdown.CeilingApplied)
			}
			if !got.Breakdown.FinalAmount.Equal(got.EstimatedPayout) {
				t.Errorf("breakdown final %s differs from estimate %s", got.Breakdown.FinalAmount, got.EstimatedPayout)
			}
		})
	}
}

func TestCalculate_Deterministic(t *testing.T) {
	in := Input{BaseValue: decimal.RequireFromString("123456789.37"), Context: domain.ContextSolo, ShipGroup: "Cruiser"}

	a := Calculate(DefaultPolicy(), testClasses(), in)
	b := Calculate(DefaultPolicy(), testClasses(), in)

	if a.EstimatedPayout.String() != b.EstimatedPayout.String() {
		t.Errorf("expected identical payouts, got %s and %s", a.EstimatedPayout, b.EstimatedPayout)
	}
	if a.Breakdown.CalculatedAmount.String() != b.Breakdown.CalculatedAmount.String() {
		t.Errorf("expected identical breakdowns, got %s and %s", a.Breakdown.CalculatedAmount, b.Breakdown.CalculatedAmount)
	}
}

func TestCalculate_TruncatesToTwoPlaces(t *testing.T) {
	in := Input{BaseValue: decimal.RequireFromString("10.07"), Context: domain.ContextSolo}

	got := Calculate(DefaultPolicy(), nil, in)

	if got.EstimatedPayout.String() != "2.51" {
		t.Errorf("expected 2.51, got %s", got.EstimatedPayout)
	}
	if got.Breakdown.CalculatedAmount.String() != "2.5175" {
		t.Errorf("expected unrounded 2.5175, got %s", got.Breakdown.CalculatedAmount)
	}
}

func TestCalculate_FleetIsTwiceSolo(t *testing.T) {
	for _, v := range []int64{1, 1_000, 7_777_777, 900_000_000} {
		fleet := Calculate(DefaultPolicy(), testClasses(), Input{BaseValue: isk(v * 4), Context: domain.ContextFleet, ShipGroup: "Battleship"})
		solo := Calculate(DefaultPolicy(), testClasses(), Input{BaseValue: isk(v * 4), Context: domain.ContextSolo, ShipGroup: "Battleship"})

		if !fleet.EstimatedPayout.Equal(solo.EstimatedPayout.Mul(isk(2))) {
			t.Errorf("value %d: expected fleet %s to be twice solo %s", v*4, fleet.EstimatedPayout, solo.EstimatedPayout)
		}
	}
}

func TestCalculate_SpecialRoleIgnoredWhenSolo(t *testing.T) {
	for _, group := range []string{"", "Cruiser", "Logistics Cruiser", "Unknown"} {
		with := Calculate(DefaultPolicy(), testClasses(), Input{BaseValue: isk(900_000_000), Context: domain.ContextSolo, SpecialRole: true, ShipGroup: group})
		without := Calculate(DefaultPolicy(), testClasses(), Input{BaseValue: isk(900_000_000), Context: domain.ContextSolo, ShipGroup: group})

		if !with.EstimatedPayout.Equal(without.EstimatedPayout) {
			t.Errorf("group %q: expected %s, got %s", group, without.EstimatedPayout, with.EstimatedPayout)
		}
		if with.Breakdown.EffectiveSpecialRole {
			t.Errorf("group %q: special role must not be effective for solo losses", group)
		}
	}
}

func TestCalculate_SpecialClassMatchesFleetSpecialRole(t *testing.T) {
	classes := testClasses()
	delete(classes.ceilings, "Logistics Cruiser")
	value := isk(150_000_000)

	solo := Calculate(DefaultPolicy(), classes, Input{BaseValue: value, Context: domain.ContextSolo, ShipGroup: "Logistics Cruiser"})
	fleet := Calculate(DefaultPolicy(), classes, Input{BaseValue: value, Context: domain.ContextFleet, SpecialRole: true, ShipGroup: "Battleship"})

	if !solo.EstimatedPayout.Equal(fleet.EstimatedPayout) {
		t.Errorf("expected %s, got %s", fleet.EstimatedPayout, solo.EstimatedPayout)
	}
	if !solo.Breakdown.IsSpecialShipClass {
		t.Error("expected breakdown to flag the special ship class")
	}
}

func TestCalculate_SpecialClassStillCappedWhenSolo(t *testing.T) {
	got := Calculate(DefaultPolicy(), testClasses(), Input{BaseValue: isk(500_000_000), Context: domain.ContextSolo, ShipGroup: "Logistics Cruiser"})

	if !got.EstimatedPayout.Equal(isk(200_000_000)) {
		t.Errorf("expected 200000000, got %s", got.EstimatedPayout)
	}
	if !got.Breakdown.FinalAmount.LessThan(got.Breakdown.CalculatedAmount) {
		t.Error("expected final amount below calculated amount")
	}
}

func TestCalculate_CustomPolicy(t *testing.T) {
	p := DefaultPolicy()
	p.SoloMultiplier = decimal.RequireFromString("0.1")

	got := Calculate(p, nil, Input{BaseValue: isk(1_000), Context: domain.ContextSolo})

	if !got.EstimatedPayout.Equal(isk(100)) {
		t.Errorf("expected 100, got %s", got.EstimatedPayout)
	}
}

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name    string
		in      Input
		wantErr error
	}{
		{"valid", Input{BaseValue: isk(1), Context: domain.ContextFleet}, nil},
		{"bad context", Input{BaseValue: isk(1), Context: "wormhole"}, domain.ErrInvalidOpContext},
		{"empty context", Input{BaseValue: isk(1)}, domain.ErrInvalidOpContext},
		{"negative value", Input{BaseValue: isk(-1), Context: domain.ContextSolo}, domain.ErrNegativeAmount},
		{"largest storable value", Input{BaseValue: MaxAmount.Sub(decimal.RequireFromString("0.01")), Context: domain.ContextSolo}, nil},
		{"value too large to store", Input{BaseValue: MaxAmount, Context: domain.ContextSolo}, domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInput(tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestPolicyValidate(t *testing.T) {
	if err := DefaultPolicy().Validate(); err != nil {
		t.Errorf("default policy should be valid: %v", err)
	}

	p := DefaultPolicy()
	p.FleetMultiplier = decimal.RequireFromString("-0.5")
	if err := p.Validate(); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
