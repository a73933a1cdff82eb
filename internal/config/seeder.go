package config

import (
	"errors"

	"alliance-srp/internal/adapters/persistence/models"
	"alliance-srp/internal/core/domain"
	"alliance-srp/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	logger := GetLogger()
	logger.Info("🌱 Running database seeders...")

	if err := SeedShipClasses(s.db); err != nil {
		return err
	}

	if err := s.seedAdminUser(); err != nil {
		logger.WithError(err).Warn("⚠️ Admin seeder skipped")
	}

	logger.Info("✅ Database seeding completed")
	return nil
}

// seedAdminUser creates the first ADMIN account from SEED_ADMIN_* settings.
// Nothing is created when an admin exists or no password is configured.
func (s *Seeder) seedAdminUser() error {
	var count int64
	if err := s.db.Model(&models.User{}).Where("role = ?", string(domain.RoleAdmin)).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	plain := getEnv("SEED_ADMIN_PASSWORD", "")
	if plain == "" {
		return errors.New("SEED_ADMIN_PASSWORD not set")
	}

	hashed, err := password.Hash(plain)
	if err != nil {
		return err
	}

	admin := &models.User{
		Username:      getEnv("SEED_ADMIN_USERNAME", "admin"),
		CharacterName: getEnv("SEED_ADMIN_CHARACTER", "SRP Admin"),
		Password:      hashed,
		Role:          string(domain.RoleAdmin),
		IsActive:      true,
	}
	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	GetLogger().WithField("username", admin.Username).Info("✅ Admin user created")
	return nil
}
