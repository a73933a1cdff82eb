package services

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

// fakeClaimRepo keeps claims and logs in memory. The mutex plays the role
// of the row lock in ApplyTransition.
type fakeClaimRepo struct {
	mu      sync.Mutex
	claims  map[string]*models.Claim
	entries []*models.ProcessLogEntry
	seq     uint64
	failTx  error
}

func newFakeClaimRepo() *fakeClaimRepo {
	return &fakeClaimRepo{claims: map[string]*models.Claim{}}
}

func (r *fakeClaimRepo) Create(_ context.Context, claim *models.Claim, created *models.ProcessLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.claims {
		if c.KillmailID == claim.KillmailID {
			return domain.ErrDuplicateKillmail
		}
	}
	if claim.ID == "" {
		claim.ID = uuid.New().String()
	}
	if claim.CreatedAt.IsZero() {
		claim.CreatedAt = time.Now().UTC()
	}
	cp := *claim
	cp.Fleet = nil
	r.claims[claim.ID] = &cp

	created.ClaimID = claim.ID
	created.Kind = string(domain.EventCreated)
	r.appendLocked(created)
	return nil
}

func (r *fakeClaimRepo) appendLocked(e *models.ProcessLogEntry) {
	r.seq++
	e.ID = r.seq
	cp := *e
	r.entries = append(r.entries, &cp)
}

func (r *fakeClaimRepo) GetByID(_ context.Context, id string) (*models.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.claims[id]
	if !ok {
		return nil, domain.ErrClaimNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeClaimRepo) ExistsByKillmailID(_ context.Context, killmailID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.claims {
		if c.KillmailID == killmailID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeClaimRepo) match(c *models.Claim, f repositories.ClaimFilter) bool {
	if f.ClaimantID != nil && c.ClaimantID != *f.ClaimantID {
		return false
	}
	if f.FleetID != nil && (c.FleetID == nil || *c.FleetID != *f.FleetID) {
		return false
	}
	if f.PayeeName != "" && c.PayeeName != f.PayeeName {
		return false
	}
	if f.CreatedFrom != nil && c.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && !c.CreatedAt.Before(*f.CreatedTo) {
		return false
	}
	if f.IDs != nil {
		found := false
		for _, id := range f.IDs {
			if id == c.ID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (r *fakeClaimRepo) FindAll(_ context.Context, f repositories.ClaimFilter) ([]*models.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []*models.Claim{}
	for _, c := range r.claims {
		if r.match(c, f) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].KillmailID > out[j].KillmailID
	})
	return out, nil
}

func (r *fakeClaimRepo) List(ctx context.Context, f repositories.ClaimFilter, offset, limit int) ([]*models.Claim, int64, error) {
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

func (r *fakeClaimRepo) ListIDsWithEvent(_ context.Context, kind domain.EventKind) ([]string, error) {
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

func (r *fakeClaimRepo) logLocked(claimID string) []*models.ProcessLogEntry {
	out := []*models.ProcessLogEntry{}
	for _, e := range r.entries {
		if e.ClaimID == claimID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out
}

func (r *fakeClaimRepo) GetLog(_ context.Context, claimID string) ([]*models.ProcessLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.logLocked(claimID), nil
}

func (r *fakeClaimRepo) GetLogs(_ context.Context, ids []string) (map[string][]*models.ProcessLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string][]*models.ProcessLogEntry{}
	for _, id := range ids {
		out[id] = r.logLocked(id)
	}
	return out, nil
}

func (r *fakeClaimRepo) ListEntries(_ context.Context, from, to time.Time) ([]*models.ProcessLogEntry, error) {
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

func (r *fakeClaimRepo) ApplyTransition(_ context.Context, claimID string, t repositories.Transition) (*models.Claim, domain.ClaimStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failTx != nil {
		return nil, "", r.failTx
	}

	stored, ok := r.claims[claimID]
	if !ok {
		return nil, "", domain.ErrClaimNotFound
	}

	next, err := claimstatus.Next(claimstatus.Derive(r.logLocked(claimID)), t.Entry.EventKind())
	if err != nil {
		return nil, "", err
	}

	t.Entry.ClaimID = claimID
	r.appendLocked(t.Entry)

	cp := *stored
	if t.Apply != nil {
		t.Apply(&cp)
		r.claims[claimID] = &cp
	}
	out := cp
	return &out, next, nil
}

// append writes a raw entry, bypassing transition checks
func (r *fakeClaimRepo) append(claimID string, kind domain.EventKind, actor string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appendLocked(&models.ProcessLogEntry{ClaimID: claimID, Kind: string(kind), ActorName: actor, CreatedAt: at})
}

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[uint]*models.User{}}
	for _, u := range users {
		_ = r.Create(context.Background(), u)
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.CharacterID == u.CharacterID {
			return gorm.ErrDuplicatedKey
		}
	}
	if u.ID == 0 {
		r.nextID++
		u.ID = r.nextID
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
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

func (r *fakeUserRepo) Update(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, offset, limit int) ([]*models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := []*models.User{}
	for _, u := range r.users {
		cp := *u
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })
	if offset >= len(all) {
		return []*models.User{}, int64(len(all)), nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], int64(len(all)), nil
}

func (r *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return err == nil, nil
}

type fakeFleetRepo struct {
	fleets map[string]*models.Fleet
}

func newFakeFleetRepo() *fakeFleetRepo {
	return &fakeFleetRepo{fleets: map[string]*models.Fleet{}}
}

func (r *fakeFleetRepo) Create(_ context.Context, f *models.Fleet) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	cp := *f
	r.fleets[f.ID] = &cp
	return nil
}

func (r *fakeFleetRepo) GetByID(_ context.Context, id string) (*models.Fleet, error) {
	f, ok := r.fleets[id]
	if !ok {
		return nil, domain.ErrFleetNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFleetRepo) List(_ context.Context, filter repositories.FleetFilter, offset, limit int) ([]*models.Fleet, int64, error) {
	out := []*models.Fleet{}
	for _, f := range r.fleets {
		if filter.Status != "" && f.Status != filter.Status {
			continue
		}
		if filter.CommanderID != nil && f.CommanderID != *filter.CommanderID {
			continue
		}
		cp := *f
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (r *fakeFleetRepo) Update(_ context.Context, f *models.Fleet) error {
	cp := *f
	r.fleets[f.ID] = &cp
	return nil
}

type fakeTokenRepo struct {
	tokens map[string]*models.RefreshToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[string]*models.RefreshToken{}}
}

func (r *fakeTokenRepo) Create(_ context.Context, t *models.RefreshToken) error {
	cp := *t
	r.tokens[t.TokenHash] = &cp
	return nil
}

func (r *fakeTokenRepo) GetActiveByHash(_ context.Context, hash string) (*models.RefreshToken, error) {
	t, ok := r.tokens[hash]
	if !ok || t.RevokedAt != nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTokenRepo) RevokeByTokenHash(_ context.Context, hash string) error {
	if t, ok := r.tokens[hash]; ok {
		now := time.Now()
		t.RevokedAt = &now
	}
	return nil
}

func (r *fakeTokenRepo) RevokeAllByUserID(_ context.Context, userID uint) error {
	now := time.Now()
	for _, t := range r.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeTokenRepo) DeleteExpired(_ context.Context) (int64, error) {
	var n int64
	for h, t := range r.tokens {
		if t.ExpiresAt.Before(time.Now()) {
			delete(r.tokens, h)
			n++
		}
	}
	return n, nil
}

// recordingNotifier captures notifications
type recordingNotifier struct {
	mu        sync.Mutex
	submitted []string
	reviewed  []domain.ClaimStatus
	paid      []string
	summaries []*DashboardSummary
}

func (n *recordingNotifier) ClaimSubmitted(c *models.Claim) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.submitted = append(n.submitted, c.ID)
}

func (n *recordingNotifier) ClaimReviewed(_ *models.Claim, status domain.ClaimStatus, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reviewed = append(n.reviewed, status)
}

func (n *recordingNotifier) ClaimPaid(c *models.Claim, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paid = append(n.paid, c.ID)
}

func (n *recordingNotifier) PayoutSummary(s *DashboardSummary) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.summaries = append(n.summaries, s)
}

func newTestUser(username string, characterID int64, role string) *models.User {
	return &models.User{
		Username:      username,
		CharacterID:   characterID,
		CharacterName: username,
		Role:          role,
		IsActive:      true,
	}
}
