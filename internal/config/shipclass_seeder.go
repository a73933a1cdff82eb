package config

import (
	"alliance-srp/internal/adapters/persistence/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func ceiling(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

// DefaultShipClasses is the dataset a fresh database starts with
func DefaultShipClasses() []models.ShipClass {
	return []models.ShipClass{
		// Special classes: full rate even when lost solo.
		{GroupName: "Logistics", IsSpecial: true},
		{GroupName: "Logistics Frigate", IsSpecial: true},
		{GroupName: "Command Ship", IsSpecial: true},
		{GroupName: "Command Destroyer", IsSpecial: true},
		{GroupName: "Force Auxiliary", IsSpecial: true},
		{GroupName: "Electronic Attack Ship", IsSpecial: true},
		{GroupName: "Combat Recon Ship", IsSpecial: true},
		{GroupName: "Force Recon Ship", IsSpecial: true},

		// Tier ceilings for solo losses.
		{GroupName: "Frigate", TierCeiling: ceiling(20_000_000)},
		{GroupName: "Assault Frigate", TierCeiling: ceiling(80_000_000)},
		{GroupName: "Interceptor", TierCeiling: ceiling(60_000_000)},
		{GroupName: "Destroyer", TierCeiling: ceiling(30_000_000)},
		{GroupName: "Interdictor", TierCeiling: ceiling(120_000_000)},
		{GroupName: "Cruiser", TierCeiling: ceiling(80_000_000)},
		{GroupName: "Heavy Assault Cruiser", TierCeiling: ceiling(300_000_000)},
		{GroupName: "Strategic Cruiser", TierCeiling: ceiling(600_000_000)},
		{GroupName: "Combat Battlecruiser", TierCeiling: ceiling(250_000_000)},
		{GroupName: "Battleship", TierCeiling: ceiling(500_000_000)},
	}
}

// SeedShipClasses inserts the default dataset, leaving existing groups untouched
func SeedShipClasses(db *gorm.DB) error {
	classes := DefaultShipClasses()

	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&classes)
	if result.Error != nil {
		return result.Error
	}

	GetLogger().WithField("inserted", result.RowsAffected).Info("✅ Ship classes seeded")
	return nil
}
