package repositories

import (
	"context"
	"errors"

	"alliance-srp/internal/adapters/persistence/models"
	"alliance-srp/internal/core/domain"

	"gorm.io/gorm"
)

// fleetRepository implements FleetRepository interface
type fleetRepository struct {
	db *gorm.DB
}

// NewFleetRepository creates a new fleet repository
func NewFleetRepository(db *gorm.DB) FleetRepository {
	return &fleetRepository{db: db}
}

// Create creates a new fleet
func (r *fleetRepository) Create(ctx context.Context, fleet *models.Fleet) error {
	return r.db.WithContext(ctx).Create(fleet).Error
}

// GetByID gets a fleet by ID
func (r *fleetRepository) GetByID(ctx context.Context, id string) (*models.Fleet, error) {
	var fleet models.Fleet
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&fleet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrFleetNotFound
		}
		return nil, err
	}
	return &fleet, nil
}

// List lists fleets with pagination, latest scheduled first
func (r *fleetRepository) List(ctx context.Context, filter FleetFilter, offset, limit int) ([]*models.Fleet, int64, error) {
	var fleets []*models.Fleet
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Fleet{})
	if filter.CommanderID != nil {
		query = query.Where("commander_id = ?", *filter.CommanderID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("scheduled_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&fleets).Error
	if err != nil {
		return nil, 0, err
	}

	return fleets, total, nil
}

// Update updates a fleet
func (r *fleetRepository) Update(ctx context.Context, fleet *models.Fleet) error {
	return r.db.WithContext(ctx).Save(fleet).Error
}
