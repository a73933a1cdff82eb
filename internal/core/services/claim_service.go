package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"alliance-srp/internal/adapters/persistence/models"
	"alliance-srp/internal/adapters/persistence/repositories"
	"alliance-srp/internal/config"
	"alliance-srp/internal/core/claimstatus"
	"alliance-srp/internal/core/domain"
	"alliance-srp/internal/core/payout"
	"alliance-srp/internal/core/shipclass"
	"alliance-srp/internal/pkg/lock"
	"alliance-srp/internal/pkg/pagination"
	"alliance-srp/internal/pkg/validation"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const claimModule = "claim_service"

// ClaimService handles claim submission and review
type ClaimService struct {
	claimRepo repositories.ClaimRepository
	fleetRepo repositories.FleetRepository
	userRepo  repositories.UserRepository
	classes   *shipclass.Registry
	locker    lock.Locker
	notifier  Notifier
	srp       config.SRPConfig
	logger    *logrus.Logger
	now       func() time.Time
}

// NewClaimService creates a new claim service
func NewClaimService(
	claimRepo repositories.ClaimRepository,
	fleetRepo repositories.FleetRepository,
	userRepo repositories.UserRepository,
	classes *shipclass.Registry,
	locker lock.Locker,
	notifier Notifier,
	srp config.SRPConfig,
) *ClaimService {
	if locker == nil {
		locker = lock.Noop{}
	}
	return &ClaimService{
		claimRepo: claimRepo,
		fleetRepo: fleetRepo,
		userRepo:  userRepo,
		classes:   classes,
		locker:    locker,
		notifier:  notifier,
		srp:       srp,
		logger:    config.GetLogger(),
		now:       time.Now,
	}
}

// EstimateInput represents a payout preview request
type EstimateInput struct {
	BaseValue        decimal.Decimal `json:"base_value" swaggertype:"string"`
	OperationContext string          `json:"operation_context" validate:"required,opcontext"`
	SpecialRole      bool            `json:"special_role"`
	ShipGroup        string          `json:"ship_group" validate:"max=100"`
}

// SubmitClaimInput represents claim submission input
type SubmitClaimInput struct {
	KillmailURL      string          `json:"killmail_url" validate:"required,killmail_url"`
	KillmailHash     string          `json:"killmail_hash" validate:"max=64"`
	ShipTypeID       int64           `json:"ship_type_id" validate:"required,gt=0"`
	ShipGroup        string          `json:"ship_group" validate:"max=100"`
	BaseValue        decimal.Decimal `json:"base_value" swaggertype:"string"`
	OperationContext string          `json:"operation_context" validate:"required,opcontext"`
	SpecialRole      bool            `json:"special_role"`
	FleetID          *string         `json:"fleet_id" validate:"omitempty,uuid"`
	Description      string          `json:"description" validate:"max=2000"`
	// PayeeName defaults to the submitting character.
	PayeeName string `json:"payee_name" validate:"max=100"`
}

// ApproveInput represents claim approval input
type ApproveInput struct {
	// PayoutAmount overrides the stored estimate when set.
	PayoutAmount *decimal.Decimal `json:"payout_amount" swaggertype:"string"`
	Note         string           `json:"note" validate:"max=2000"`
}

// DenyInput represents claim denial input
type DenyInput struct {
	Note string `json:"note" validate:"required,max=2000"`
}

// PayInput represents payment confirmation input
type PayInput struct {
	Note string `json:"note" validate:"max=2000"`
}

// NoteInput represents a comment on a claim
type NoteInput struct {
	Note string `json:"note" validate:"required,max=2000"`
}

// ListClaimsInput represents list claims input
type ListClaimsInput struct {
	Status     domain.ClaimStatus
	ClaimantID *uint
	FleetID    *string
	Page       int
	Limit      int
}

// ClaimDetail is a claim with its derived status and full log
type ClaimDetail struct {
	*models.ClaimResponse
	History []*models.ProcessLogEntry `json:"history"`
}

// Estimate previews the payout without storing anything
func (s *ClaimService) Estimate(ctx context.Context, input *EstimateInput) (*payout.Result, error) {
	in := payout.Input{
		BaseValue:   input.BaseValue,
		Context:     domain.OperationContext(input.OperationContext),
		SpecialRole: input.SpecialRole,
		ShipGroup:   input.ShipGroup,
	}
	if err := payout.ValidateInput(in); err != nil {
		return nil, err
	}

	result := payout.Calculate(s.srp.Policy, s.table(), in)
	return &result, nil
}

func (s *ClaimService) table() payout.ShipClasses {
	if s.classes == nil {
		return nil
	}
	return s.classes.Table()
}

// Submit validates and stores a new claim with its created entry
func (s *ClaimService) Submit(ctx context.Context, actor Actor, input *SubmitClaimInput) (*ClaimDetail, error) {
	killmailID, err := validation.ParseKillmailURL(input.KillmailURL)
	if err != nil {
		return nil, err
	}

	in := payout.Input{
		BaseValue:   input.BaseValue,
		Context:     domain.OperationContext(input.OperationContext),
		SpecialRole: input.SpecialRole,
		ShipGroup:   strings.TrimSpace(input.ShipGroup),
	}
	if err := payout.ValidateInput(in); err != nil {
		return nil, err
	}
	if in.BaseValue.LessThan(s.srp.MinBaseValue) {
		return nil, fmt.Errorf("%w (minimum %s)", domain.ErrBelowMinimumValue, s.srp.MinBaseValue.StringFixed(2))
	}

	user, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	var fleet *models.Fleet
	if input.FleetID != nil && *input.FleetID != "" {
		if in.Context != domain.ContextFleet {
			return nil, fmt.Errorf("%w: fleet_id requires a fleet operation context", domain.ErrInvalidInput)
		}
		fleet, err = s.fleetRepo.GetByID(ctx, *input.FleetID)
		if err != nil {
			return nil, err
		}
	}

	exists, err := s.claimRepo.ExistsByKillmailID(ctx, killmailID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateKillmail
	}

	estimate := payout.Calculate(s.srp.Policy, s.table(), in)
	if err := payout.CheckAmount("estimated payout", estimate.EstimatedPayout); err != nil {
		return nil, err
	}

	payee := strings.TrimSpace(input.PayeeName)
	if payee == "" {
		payee = user.CharacterName
	}

	claim := &models.Claim{
		ClaimantID:       user.ID,
		CharacterID:      user.CharacterID,
		CharacterName:    user.CharacterName,
		PayeeName:        payee,
		KillmailID:       killmailID,
		KillmailHash:     input.KillmailHash,
		ShipTypeID:       input.ShipTypeID,
		ShipGroup:        in.ShipGroup,
		BaseValue:        in.BaseValue,
		OperationContext: string(in.Context),
		SpecialRole:      in.SpecialRole,
		Description:      input.Description,
		EstimatedPayout:  estimate.EstimatedPayout,
		Fleet:            fleet,
	}
	if fleet != nil {
		claim.FleetID = &fleet.ID
	}

	created := &models.ProcessLogEntry{
		Kind:      string(domain.EventCreated),
		ActorID:   &user.ID,
		ActorName: user.CharacterName,
		CreatedAt: s.now().UTC(),
	}
	if err := s.claimRepo.Create(ctx, claim, created); err != nil {
		if !errors.Is(err, domain.ErrDuplicateKillmail) {
			config.LogError(s.logger, claimModule, "Submit", "create claim", killmailID, err)
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"claim_id":    claim.ID,
		"killmail_id": killmailID,
		"estimate":    estimate.EstimatedPayout.String(),
	}).Info("✅ Claim submitted")

	if s.notifier != nil {
		s.notifier.ClaimSubmitted(claim)
	}

	return &ClaimDetail{
		ClaimResponse: claim.ToResponse(domain.StatusPending),
		History:       []*models.ProcessLogEntry{created},
	}, nil
}

// Get returns a claim with its derived status and history.
// Members may only read their own claims.
func (s *ClaimService) Get(ctx context.Context, actor Actor, id string) (*ClaimDetail, error) {
	claim, err := s.claimRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsReviewer() && claim.ClaimantID != actor.UserID {
		return nil, domain.ErrNotClaimOwner
	}

	history, err := s.claimRepo.GetLog(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ClaimDetail{
		ClaimResponse: claim.ToResponse(claimstatus.Derive(history)),
		History:       history,
	}, nil
}

// History returns a claim's process log, oldest first
func (s *ClaimService) History(ctx context.Context, actor Actor, id string) ([]*models.ProcessLogEntry, error) {
	detail, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return detail.History, nil
}

// List returns claims with derived status. Filtering by status has to load
// every candidate claim because status only exists after derivation.
func (s *ClaimService) List(ctx context.Context, input ListClaimsInput) ([]*models.ClaimResponse, int64, error) {
	params := pagination.New(input.Page, input.Limit)
	filter := repositories.ClaimFilter{ClaimantID: input.ClaimantID, FleetID: input.FleetID}

	if input.Status == "" {
		claims, total, err := s.claimRepo.List(ctx, filter, params.Offset, params.Limit)
		if err != nil {
			return nil, 0, err
		}
		out, err := s.withStatus(ctx, claims)
		return out, total, err
	}

	if !input.Status.IsValid() {
		return nil, 0, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, input.Status)
	}

	claims, err := s.claimRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	all, err := s.withStatus(ctx, claims)
	if err != nil {
		return nil, 0, err
	}

	matched := make([]*models.ClaimResponse, 0, len(all))
	for _, c := range all {
		if c.Status == input.Status {
			matched = append(matched, c)
		}
	}

	return pagination.Slice(matched, params), int64(len(matched)), nil
}

func (s *ClaimService) withStatus(ctx context.Context, claims []*models.Claim) ([]*models.ClaimResponse, error) {
	ids := make([]string, len(claims))
	for i, c := range claims {
		ids[i] = c.ID
	}

	logs, err := s.claimRepo.GetLogs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*models.ClaimResponse, len(claims))
	for i, c := range claims {
		out[i] = c.ToResponse(claimstatus.Derive(logs[c.ID]))
	}
	return out, nil
}

// Approve moves a pending claim to approved and records the payout amount
func (s *ClaimService) Approve(ctx context.Context, actor Actor, id string, input *ApproveInput) (*models.ClaimResponse, error) {
	if input.PayoutAmount != nil && input.PayoutAmount.IsNegative() {
		return nil, fmt.Errorf("payout amount: %w", domain.ErrNegativeAmount)
	}
	if input.PayoutAmount != nil {
		if err := payout.CheckAmount("payout amount", *input.PayoutAmount); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	claim, status, err := s.transition(ctx, actor, id, domain.EventApprove, input.Note, func(c *models.Claim) {
		amount := c.EstimatedPayout
		if input.PayoutAmount != nil {
			amount = input.PayoutAmount.Truncate(2)
		}
		c.PayoutAmount = decimal.NewNullDecimal(amount)
		c.ReviewerID = &actor.UserID
		c.ReviewerName = actor.Name
		c.ReviewerNote = input.Note
		c.ReviewedAt = &now
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.ClaimReviewed(claim, status, actor.Name)
	}
	return claim.ToResponse(status), nil
}

// Deny moves a pending claim to denied
func (s *ClaimService) Deny(ctx context.Context, actor Actor, id string, input *DenyInput) (*models.ClaimResponse, error) {
	if strings.TrimSpace(input.Note) == "" {
		return nil, fmt.Errorf("%w: a denial needs a note", domain.ErrInvalidInput)
	}

	now := s.now().UTC()
	claim, status, err := s.transition(ctx, actor, id, domain.EventDeny, input.Note, func(c *models.Claim) {
		c.ReviewerID = &actor.UserID
		c.ReviewerName = actor.Name
		c.ReviewerNote = input.Note
		c.ReviewedAt = &now
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.ClaimReviewed(claim, status, actor.Name)
	}
	return claim.ToResponse(status), nil
}

// Pay marks an approved claim as paid
func (s *ClaimService) Pay(ctx context.Context, actor Actor, id string, input *PayInput) (*models.ClaimResponse, error) {
	now := s.now().UTC()
	claim, status, err := s.transition(ctx, actor, id, domain.EventPay, input.Note, func(c *models.Claim) {
		c.PaidAt = &now
		c.PaidBy = actor.Name
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.ClaimPaid(claim, actor.Name)
	}
	return claim.ToResponse(status), nil
}

// AddNote appends a comment. Members may comment on their own claims.
func (s *ClaimService) AddNote(ctx context.Context, actor Actor, id string, input *NoteInput) (*models.ProcessLogEntry, error) {
	if strings.TrimSpace(input.Note) == "" {
		return nil, fmt.Errorf("%w: note is empty", domain.ErrInvalidInput)
	}

	if !actor.IsReviewer() {
		claim, err := s.claimRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if claim.ClaimantID != actor.UserID {
			return nil, domain.ErrNotClaimOwner
		}
	}

	entry := &models.ProcessLogEntry{
		Kind:      string(domain.EventComment),
		ActorID:   &actor.UserID,
		ActorName: actor.Name,
		Note:      input.Note,
		CreatedAt: s.now().UTC(),
	}
	if _, _, err := s.claimRepo.ApplyTransition(ctx, id, repositories.Transition{Entry: entry}); err != nil {
		return nil, err
	}
	return entry, nil
}

// transition runs one review action under the claim's review lock.
// The repository re-derives status inside its transaction, so a reviewer
// who loses a race without the lock still gets ErrIllegalTransition.
func (s *ClaimService) transition(
	ctx context.Context,
	actor Actor,
	id string,
	kind domain.EventKind,
	note string,
	apply func(*models.Claim),
) (*models.Claim, domain.ClaimStatus, error) {
	release, err := s.locker.Acquire(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrClaimLocked) {
			config.LogError(s.logger, claimModule, "transition", "acquire review lock", id, err)
			return nil, "", fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
		return nil, "", err
	}
	defer release()

	entry := &models.ProcessLogEntry{
		Kind:      string(kind),
		ActorID:   &actor.UserID,
		ActorName: actor.Name,
		Note:      note,
		CreatedAt: s.now().UTC(),
	}

	claim, status, err := s.claimRepo.ApplyTransition(ctx, id, repositories.Transition{Entry: entry, Apply: apply})
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			config.LogError(s.logger, claimModule, "transition", string(kind), id, err)
		}
		return nil, "", err
	}

	s.logger.WithFields(logrus.Fields{
		"claim_id": id,
		"event":    kind,
		"status":   status,
		"actor":    actor.Name,
	}).Info("✅ Claim transition applied")

	return claim, status, nil
}
