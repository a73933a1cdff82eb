package repositories

import (
	"context"
	"strings"

	"alliance-srp/internal/adapters/persistence/models"
	"alliance-srp/internal/core/shipclass"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// shipClassRepository implements ShipClassRepository interface
type shipClassRepository struct {
	db *gorm.DB
}

// NewShipClassRepository creates a new ship class repository
func NewShipClassRepository(db *gorm.DB) ShipClassRepository {
	return &shipClassRepository{db: db}
}

// List returns the whole dataset ordered by group name
func (r *shipClassRepository) List(ctx context.Context) ([]*models.ShipClass, error) {
	var classes []*models.ShipClass
	err := r.db.WithContext(ctx).Order("group_name ASC").Find(&classes).Error
	return classes, err
}

// Upsert inserts or updates classes by group name
func (r *shipClassRepository) Upsert(ctx context.Context, classes []*models.ShipClass) error {
	if len(classes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "group_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"tier_ceiling", "is_special", "updated_at"}),
	}).Create(&classes).Error
}

// Delete removes a group from the dataset
func (r *shipClassRepository) Delete(ctx context.Context, groupName string) error {
	return r.db.WithContext(ctx).
		Where("group_name = ?", strings.TrimSpace(groupName)).
		Delete(&models.ShipClass{}).Error
}

// LoadShipClasses implements shipclass.Source
func (r *shipClassRepository) LoadShipClasses(ctx context.Context) ([]shipclass.Entry, error) {
	classes, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]shipclass.Entry, 0, len(classes))
	for _, c := range classes {
		e := shipclass.Entry{GroupName: c.GroupName, Special: c.IsSpecial}
		if c.TierCeiling.Valid {
			ceiling := c.TierCeiling.Decimal
			e.TierCeiling = &ceiling
		}
		entries = append(entries, e)
	}
	return entries, nil
}
