package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"alliance-srp/internal/core/domain"
)

func TestFleetLifecycle(t *testing.T) {
	f := newClaimFixture(t)
	fleets := NewFleetService(f.fleets, f.svc)
	ctx := context.Background()

	fleet, err := fleets.Create(ctx, f.fc, &CreateFleetInput{
		Name:        "Stratop",
		ScheduledAt: time.Now().Add(time.Hour),
		Location:    "1DQ1-A",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fleet.Status != string(domain.FleetActive) || fleet.CommanderName != "Fleet Boss" {
		t.Errorf("expected active fleet commanded by FC, got %s %s", fleet.Status, fleet.CommanderName)
	}

	if _, err := fleets.UpdateStatus(ctx, f.member, fleet.ID, &UpdateFleetStatusInput{Status: "completed"}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden for non-commander, got %v", err)
	}

	done, err := fleets.UpdateStatus(ctx, f.fc, fleet.ID, &UpdateFleetStatusInput{Status: "completed"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if done.Status != "completed" {
		t.Errorf("expected completed, got %s", done.Status)
	}

	if _, err := fleets.UpdateStatus(ctx, f.admin, fleet.ID, &UpdateFleetStatusInput{Status: "cancelled"}); !errors.Is(err, domain.ErrInvalidFleetTransition) {
		t.Errorf("expected ErrInvalidFleetTransition, got %v", err)
	}
}

func TestFleetStatusDoesNotTouchClaims(t *testing.T) {
	f := newClaimFixture(t)
	fleets := NewFleetService(f.fleets, f.svc)
	ctx := context.Background()

	fleet, _ := fleets.Create(ctx, f.fc, &CreateFleetInput{Name: "Roam", ScheduledAt: time.Now()})
	claim, err := f.svc.Submit(ctx, f.member, &SubmitClaimInput{
		KillmailURL: "https://zkillboard.com/kill/9/", ShipTypeID: 1,
		BaseValue: dec("10000000"), OperationContext: "fleet", FleetID: &fleet.ID,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := fleets.UpdateStatus(ctx, f.fc, fleet.ID, &UpdateFleetStatusInput{Status: "cancelled"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, total, err := fleets.Claims(ctx, fleet.ID, "", 1, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || claims[0].ID != claim.ID {
		t.Fatalf("expected the fleet's claim, got %d", total)
	}
	if claims[0].Status != domain.StatusPending {
		t.Errorf("expected claim to stay pending, got %s", claims[0].Status)
	}

	if _, _, err := fleets.Claims(ctx, "missing", "", 1, 20); !errors.Is(err, domain.ErrFleetNotFound) {
		t.Errorf("expected ErrFleetNotFound, got %v", err)
	}
}
