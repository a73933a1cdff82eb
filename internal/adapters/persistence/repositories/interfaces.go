package repositories

import (
	"context"
	"time"

	"alliance-srp/internal/adapters/persistence/models"
	"alliance-srp/internal/core/domain"
	"alliance-srp/internal/core/shipclass"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetActiveByHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// ClaimFilter narrows claim queries. Zero values mean "any".
type ClaimFilter struct {
	ClaimantID  *uint
	FleetID     *string
	PayeeName   string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	IDs         []string
}

// Transition is one log append plus the claim fields that change with it.
type Transition struct {
	Entry *models.ProcessLogEntry
	// Apply mutates the locked claim row; nil for audit-only entries.
	Apply func(claim *models.Claim)
}

// ClaimRepository defines claim and process log storage
type ClaimRepository interface {
	// Create stores the claim and its created entry in one transaction.
	Create(ctx context.Context, claim *models.Claim, created *models.ProcessLogEntry) error
	GetByID(ctx context.Context, id string) (*models.Claim, error)
	ExistsByKillmailID(ctx context.Context, killmailID int64) (bool, error)
	List(ctx context.Context, filter ClaimFilter, offset, limit int) ([]*models.Claim, int64, error)
	FindAll(ctx context.Context, filter ClaimFilter) ([]*models.Claim, error)
	// ListIDsWithEvent returns ids of claims whose log contains kind.
	ListIDsWithEvent(ctx context.Context, kind domain.EventKind) ([]string, error)
	GetLog(ctx context.Context, claimID string) ([]*models.ProcessLogEntry, error)
	GetLogs(ctx context.Context, claimIDs []string) (map[string][]*models.ProcessLogEntry, error)
	ListEntries(ctx context.Context, from, to time.Time) ([]*models.ProcessLogEntry, error)
	// ApplyTransition re-derives the status under a row lock, checks the
	// transition, appends the entry and applies the claim mutation atomically.
	ApplyTransition(ctx context.Context, claimID string, t Transition) (*models.Claim, domain.ClaimStatus, error)
}

// FleetFilter narrows fleet queries
type FleetFilter struct {
	CommanderID *uint
	Status      string
}

// FleetRepository defines fleet storage
type FleetRepository interface {
	Create(ctx context.Context, fleet *models.Fleet) error
	GetByID(ctx context.Context, id string) (*models.Fleet, error)
	List(ctx context.Context, filter FleetFilter, offset, limit int) ([]*models.Fleet, int64, error)
	Update(ctx context.Context, fleet *models.Fleet) error
}

// ShipClassRepository defines ship class dataset storage
type ShipClassRepository interface {
	shipclass.Source
	List(ctx context.Context) ([]*models.ShipClass, error)
	Upsert(ctx context.Context, classes []*models.ShipClass) error
	Delete(ctx context.Context, groupName string) error
}
