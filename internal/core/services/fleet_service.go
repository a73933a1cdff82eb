package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"alliance-srp/internal/adapters/persistence/models"
	"alliance-srp/internal/adapters/persistence/repositories"
	"alliance-srp/internal/config"
	"alliance-srp/internal/core/domain"
	"alliance-srp/internal/pkg/pagination"

	"github.com/sirupsen/logrus"
)

// FleetService handles fleet operations
type FleetService struct {
	fleetRepo    repositories.FleetRepository
	claimService *ClaimService
	logger       *logrus.Logger
}

// NewFleetService creates a new fleet service
func NewFleetService(fleetRepo repositories.FleetRepository, claimService *ClaimService) *FleetService {
	return &FleetService{
		fleetRepo:    fleetRepo,
		claimService: claimService,
		logger:       config.GetLogger(),
	}
}

// CreateFleetInput represents fleet creation input
type CreateFleetInput struct {
	Name        string    `json:"name" validate:"required,min=3,max=150"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	Location    string    `json:"location" validate:"max=150"`
	Description string    `json:"description" validate:"max=2000"`
}

// UpdateFleetStatusInput represents a fleet status change
type UpdateFleetStatusInput struct {
	Status string `json:"status" validate:"required,oneof=active completed cancelled"`
}

// ListFleetsInput represents list fleets input
type ListFleetsInput struct {
	Status      string
	CommanderID *uint
	Page        int
	Limit       int
}

// Create creates a fleet commanded by actor
func (s *FleetService) Create(ctx context.Context, actor Actor, input *CreateFleetInput) (*models.Fleet, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: fleet name is required", domain.ErrInvalidInput)
	}

	fleet := &models.Fleet{
		Name:          name,
		ScheduledAt:   input.ScheduledAt.UTC(),
		Location:      input.Location,
		Description:   input.Description,
		CommanderID:   actor.UserID,
		CommanderName: actor.Name,
		Status:        string(domain.FleetActive),
	}
	if err := s.fleetRepo.Create(ctx, fleet); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"fleet_id": fleet.ID, "commander": actor.Name}).Info("✅ Fleet created")
	return fleet, nil
}

// Get gets a fleet by ID
func (s *FleetService) Get(ctx context.Context, id string) (*models.Fleet, error) {
	return s.fleetRepo.GetByID(ctx, id)
}

// List lists fleets
func (s *FleetService) List(ctx context.Context, input ListFleetsInput) ([]*models.Fleet, int64, error) {
	if input.Status != "" && !domain.FleetStatus(input.Status).IsValid() {
		return nil, 0, fmt.Errorf("%w: unknown fleet status %q", domain.ErrInvalidInput, input.Status)
	}

	params := pagination.New(input.Page, input.Limit)
	filter := repositories.FleetFilter{CommanderID: input.CommanderID, Status: input.Status}
	return s.fleetRepo.List(ctx, filter, params.Offset, params.Limit)
}

// UpdateStatus closes a fleet. Only active fleets may change status, and only
// their commander or an admin may change it.
func (s *FleetService) UpdateStatus(ctx context.Context, actor Actor, id string, input *UpdateFleetStatusInput) (*models.Fleet, error) {
	next := domain.FleetStatus(input.Status)
	if !next.IsValid() {
		return nil, fmt.Errorf("%w: unknown fleet status %q", domain.ErrInvalidInput, input.Status)
	}

	fleet, err := s.fleetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleAdmin && fleet.CommanderID != actor.UserID {
		return nil, domain.ErrForbidden
	}

	if domain.FleetStatus(fleet.Status) != domain.FleetActive || next == domain.FleetActive {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidFleetTransition, fleet.Status, next)
	}

	fleet.Status = string(next)
	if err := s.fleetRepo.Update(ctx, fleet); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"fleet_id": id, "status": next}).Info("✅ Fleet status updated")
	return fleet, nil
}

// Claims lists the claims filed against a fleet
func (s *FleetService) Claims(ctx context.Context, id string, status domain.ClaimStatus, page, limit int) ([]*models.ClaimResponse, int64, error) {
	if _, err := s.fleetRepo.GetByID(ctx, id); err != nil {
		return nil, 0, err
	}
	return s.claimService.List(ctx, ListClaimsInput{
		Status:  status,
		FleetID: &id,
		Page:    page,
		Limit:   limit,
	})
}
