package handlers

import (
	"context"
	"sort"
	"sync"
	"time"

	"alliance-srp/internal/adapters/persistence/models"
	"alliance-srp/internal/adapters/persistence/repositories"
	"alliance-srp/internal/core/claimstatus"
	"alliance-srp/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type memClaims struct {
	mu      sync.Mutex
	claims  map[string]*models.Claim
	entries []*models.ProcessLogEntry
	seq     uint64
}

func newMemClaims() *memClaims {
	return &memClaims{claims: map[string]*models.Claim{}}
}

func (r *memClaims) Create(_ context.Context, claim *models.Claim, created *models.ProcessLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.claims {
		if c.KillmailID == claim.KillmailID {
			return domain.ErrDuplicateKillmail
		}
	}
	claim.ID = uuid.New().String()
	claim.CreatedAt = time.Now().UTC()
	cp := *claim
	r.claims[claim.ID] = &cp
	created.ClaimID = claim.ID
	r.appendLocked(created)
	return nil
}

func (r *memClaims) appendLocked(e *models.ProcessLogEntry) {
	r.seq++
	e.ID = r.seq
	cp := *e
	r.entries = append(r.entries, &cp)
}

func (r *memClaims) GetByID(_ context.Context, id string) (*models.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.claims[id]
	if !ok {
		return nil, domain.ErrClaimNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memClaims) ExistsByKillmailID(_ context.Context, killmailID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.claims {
		if c.KillmailID == killmailID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memClaims) FindAll(_ context.Context, f repositories.ClaimFilter) ([]*models.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := map[string]bool{}
	for _, id := range f.IDs {
		ids[id] = true
	}
	out := []*models.Claim{}
	for _, c := range r.claims {
		if f.ClaimantID != nil && c.ClaimantID != *f.ClaimantID {
			continue
		}
		if f.FleetID != nil && (c.FleetID == nil || *c.FleetID != *f.FleetID) {
			continue
		}
		if f.PayeeName != "" && c.PayeeName != f.PayeeName {
			continue
		}
		if f.CreatedFrom != nil && c.CreatedAt.Before(*f.CreatedFrom) {
			continue
		}
		if f.CreatedTo != nil && !c.CreatedAt.Before(*f.CreatedTo) {
			continue
		}
		if f.IDs != nil && !ids[c.ID] {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].KillmailID > out[j].KillmailID })
	return out, nil
}

func (r *memClaims) List(ctx context.Context, f repositories.ClaimFilter, offset, limit int) ([]*models.Claim, int64, error) {
	all, _ := r.FindAll(ctx, f)
	total := int64(len(all))
	if offset >= len(all) {
		return []*models.Claim{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *memClaims) ListIDsWithEvent(_ context.Context, kind domain.EventKind) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]bool{}
	ids := []string{}
	for _, e := range r.entries {
		if e.EventKind() == kind && !seen[e.ClaimID] {
			seen[e.ClaimID] = true
			ids = append(ids, e.ClaimID)
		}
	}
	return ids, nil
}

func (r *memClaims) logLocked(id string) []*models.ProcessLogEntry {
	out := []*models.ProcessLogEntry{}
	for _, e := range r.entries {
		if e.ClaimID == id {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out
}

func (r *memClaims) GetLog(_ context.Context, id string) ([]*models.ProcessLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.logLocked(id), nil
}

func (r *memClaims) GetLogs(_ context.Context, ids []string) (map[string][]*models.ProcessLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string][]*models.ProcessLogEntry{}
	for _, id := range ids {
		out[id] = r.logLocked(id)
	}
	return out, nil
}

func (r *memClaims) ListEntries(_ context.Context, from, to time.Time) ([]*models.ProcessLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.ProcessLogEntry{}
	for _, e := range r.entries {
		if !e.CreatedAt.Before(from) && e.CreatedAt.Before(to) {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memClaims) ApplyTransition(_ context.Context, id string, t repositories.Transition) (*models.Claim, domain.ClaimStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.claims[id]
	if !ok {
		return nil, "", domain.ErrClaimNotFound
	}
	next, err := claimstatus.Next(claimstatus.Derive(r.logLocked(id)), t.Entry.EventKind())
	if err != nil {
		return nil, "", err
	}
	t.Entry.ClaimID = id
	r.appendLocked(t.Entry)
	cp := *stored
	if t.Apply != nil {
		t.Apply(&cp)
		r.claims[id] = &cp
	}
	out := cp
	return &out, next, nil
}

type memUsers struct {
	mu    sync.Mutex
	users map[uint]*models.User
}

func (r *memUsers) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = uint(len(r.users) + 1)
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUsers) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUsers) Update(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUsers) List(_ context.Context, offset, limit int) ([]*models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.User{}
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (r *memUsers) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return err == nil, nil
}

// noFleets has no fleets at all
type noFleets struct{}

func (noFleets) Create(context.Context, *models.Fleet) error { return nil }
func (noFleets) GetByID(context.Context, string) (*models.Fleet, error) {
	return nil, domain.ErrFleetNotFound
}
func (noFleets) List(context.Context, repositories.FleetFilter, int, int) ([]*models.Fleet, int64, error) {
	return nil, 0, nil
}
func (noFleets) Update(context.Context, *models.Fleet) error { return nil }
