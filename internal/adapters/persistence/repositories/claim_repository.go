package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alliance-srp/internal/adapters/persistence/models"
	"alliance-srp/internal/core/claimstatus"
	"alliance-srp/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// claimRepository implements ClaimRepository interface
type claimRepository struct {
	db *gorm.DB
}

// NewClaimRepository creates a new claim repository
func NewClaimRepository(db *gorm.DB) ClaimRepository {
	return &claimRepository{db: db}
}

// storeErr passes domain errors through and marks everything else retryable.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{
		domain.ErrClaimNotFound,
		domain.ErrDuplicateKillmail,
		domain.ErrIllegalTransition,
		domain.ErrInvalidInput,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreUnavailable, err)
}

// Create stores the claim and its created entry in one transaction
func (r *claimRepository) Create(ctx context.Context, claim *models.Claim, created *models.ProcessLogEntry) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(claim).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrDuplicateKillmail
			}
			return err
		}

		created.ClaimID = claim.ID
		created.Kind = string(domain.EventCreated)
		return tx.Create(created).Error
	})
	return storeErr("create claim", err)
}

// GetByID gets a claim by ID with its fleet
func (r *claimRepository) GetByID(ctx context.Context, id string) (*models.Claim, error) {
	var claim models.Claim
	err := r.db.WithContext(ctx).Preload("Fleet").Where("id = ?", id).First(&claim).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrClaimNotFound
		}
		return nil, storeErr("get claim", err)
	}
	return &claim, nil
}

// ExistsByKillmailID checks if a claim exists for the kill record
func (r *claimRepository) ExistsByKillmailID(ctx context.Context, killmailID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Claim{}).Where("killmail_id = ?", killmailID).Count(&count).Error
	return count > 0, storeErr("check killmail", err)
}

func (r *claimRepository) applyFilter(q *gorm.DB, f ClaimFilter) *gorm.DB {
	if f.ClaimantID != nil {
		q = q.Where("claimant_id = ?", *f.ClaimantID)
	}
	if f.FleetID != nil {
		q = q.Where("fleet_id = ?", *f.FleetID)
	}
	if f.PayeeName != "" {
		q = q.Where("payee_name = ?", f.PayeeName)
	}
	if f.CreatedFrom != nil {
		q = q.Where("created_at >= ?", *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		q = q.Where("created_at < ?", *f.CreatedTo)
	}
	if f.IDs != nil {
		q = q.Where("id IN ?", f.IDs)
	}
	return q
}

// List lists claims with pagination, newest first
func (r *claimRepository) List(ctx context.Context, filter ClaimFilter, offset, limit int) ([]*models.Claim, int64, error) {
	var claims []*models.Claim
	var total int64

	if filter.IDs != nil && len(filter.IDs) == 0 {
		return claims, 0, nil
	}

	// Count total
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.Claim{}), filter)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, storeErr("count claims", err)
	}

	// Get claims with pagination
	err := query.
		Preload("Fleet").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&claims).Error
	if err != nil {
		return nil, 0, storeErr("list claims", err)
	}

	return claims, total, nil
}

// FindAll returns every claim matching filter, newest first
func (r *claimRepository) FindAll(ctx context.Context, filter ClaimFilter) ([]*models.Claim, error) {
	var claims []*models.Claim
	if filter.IDs != nil && len(filter.IDs) == 0 {
		return claims, nil
	}

	err := r.applyFilter(r.db.WithContext(ctx), filter).
		Order("created_at DESC").
		Find(&claims).Error
	return claims, storeErr("find claims", err)
}

// ListIDsWithEvent returns ids of claims whose log contains kind
func (r *claimRepository) ListIDsWithEvent(ctx context.Context, kind domain.EventKind) ([]string, error) {
	ids := []string{}
	err := r.db.WithContext(ctx).
		Model(&models.ProcessLogEntry{}).
		Distinct("claim_id").
		Where("kind = ?", string(kind)).
		Pluck("claim_id", &ids).Error
	return ids, storeErr("list claim ids", err)
}

// GetLog returns a claim's process log, oldest first
func (r *claimRepository) GetLog(ctx context.Context, claimID string) ([]*models.ProcessLogEntry, error) {
	var entries []*models.ProcessLogEntry
	err := r.db.WithContext(ctx).
		Where("claim_id = ?", claimID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	return entries, storeErr("get log", err)
}

// GetLogs returns the logs of several claims keyed by claim ID
func (r *claimRepository) GetLogs(ctx context.Context, claimIDs []string) (map[string][]*models.ProcessLogEntry, error) {
	logs := make(map[string][]*models.ProcessLogEntry, len(claimIDs))
	if len(claimIDs) == 0 {
		return logs, nil
	}

	var entries []*models.ProcessLogEntry
	err := r.db.WithContext(ctx).
		Where("claim_id IN ?", claimIDs).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, storeErr("get logs", err)
	}

	for _, e := range entries {
		logs[e.ClaimID] = append(logs[e.ClaimID], e)
	}
	return logs, nil
}

// ListEntries returns all log entries written in [from, to)
func (r *claimRepository) ListEntries(ctx context.Context, from, to time.Time) ([]*models.ProcessLogEntry, error) {
	var entries []*models.ProcessLogEntry
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	return entries, storeErr("list entries", err)
}

// ApplyTransition appends t.Entry if the re-derived status allows it
func (r *claimRepository) ApplyTransition(ctx context.Context, claimID string, t Transition) (*models.Claim, domain.ClaimStatus, error) {
	var (
		claim models.Claim
		next  domain.ClaimStatus
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the claim row
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", claimID).
			First(&claim).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrClaimNotFound
			}
			return err
		}

		// Re-derive from the log
		var entries []*models.ProcessLogEntry
		if err := tx.Where("claim_id = ?", claimID).Find(&entries).Error; err != nil {
			return err
		}

		current := claimstatus.Derive(entries)
		next, err = claimstatus.Next(current, t.Entry.EventKind())
		if err != nil {
			return err
		}

		// Append entry
		t.Entry.ClaimID = claimID
		if err := tx.Create(t.Entry).Error; err != nil {
			return err
		}

		if t.Apply != nil {
			t.Apply(&claim)
			if err := tx.Omit(clause.Associations).Save(&claim).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, "", storeErr("apply transition", err)
	}

	return &claim, next, nil
}
