package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"alliance-srp/internal/adapters/persistence/models"
	"alliance-srp/internal/adapters/persistence/repositories"
	"alliance-srp/internal/config"
	"alliance-srp/internal/core/claimstatus"
	"alliance-srp/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ReportService builds read models over derived claim status.
// Every report fetches claims, fetches their logs, derives, then aggregates.
type ReportService struct {
	claimRepo    repositories.ClaimRepository
	claimService *ClaimService
	logger       *logrus.Logger
}

// NewReportService creates a new report service
func NewReportService(claimRepo repositories.ClaimRepository, claimService *ClaimService) *ReportService {
	return &ReportService{
		claimRepo:    claimRepo,
		claimService: claimService,
		logger:       config.GetLogger(),
	}
}

// StatusTotals is the count and value of claims in one status
type StatusTotals struct {
	Count     int             `json:"count"`
	Estimated decimal.Decimal `json:"estimated_total"`
	Payout    decimal.Decimal `json:"payout_total"`
}

// DashboardSummary aggregates claims created in [From, To)
type DashboardSummary struct {
	From        time.Time                           `json:"from"`
	To          time.Time                           `json:"to"`
	TotalClaims int                                 `json:"total_claims"`
	ByStatus    map[domain.ClaimStatus]StatusTotals `json:"by_status"`
	// Outstanding is the approved but unpaid amount.
	Outstanding decimal.Decimal `json:"outstanding"`
}

// PayeeGroup is one payee's share of the payment queue
type PayeeGroup struct {
	PayeeName  string                  `json:"payee_name"`
	ClaimCount int                     `json:"claim_count"`
	Total      decimal.Decimal         `json:"total"`
	Claims     []*models.ClaimResponse `json:"claims"`
}

// PaymentQueue lists approved claims grouped by payee
type PaymentQueue struct {
	Payees      []*PayeeGroup   `json:"payees"`
	ClaimCount  int             `json:"claim_count"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// ReviewerStat counts one actor's review entries
type ReviewerStat struct {
	ActorID   *uint  `json:"actor_id"`
	ActorName string `json:"actor_name"`
	Approved  int    `json:"approved"`
	Denied    int    `json:"denied"`
	Paid      int    `json:"paid"`
	Total     int    `json:"total"`
}

// PayPayeeResult reports a batch payment
type PayPayeeResult struct {
	PayeeName string            `json:"payee_name"`
	Paid      []string          `json:"paid"`
	Failed    map[string]string `json:"failed"`
	Total     decimal.Decimal   `json:"total"`
}

// payoutOf is the amount owed for a claim: the approved amount, else the estimate.
func payoutOf(c *models.Claim) decimal.Decimal {
	if c.PayoutAmount.Valid {
		return c.PayoutAmount.Decimal
	}
	return c.EstimatedPayout
}

type derivedClaim struct {
	claim  *models.Claim
	status domain.ClaimStatus
}

func (s *ReportService) derive(ctx context.Context, filter repositories.ClaimFilter) ([]derivedClaim, error) {
	claims, err := s.claimRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(claims))
	for i, c := range claims {
		ids[i] = c.ID
	}
	logs, err := s.claimRepo.GetLogs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]derivedClaim, len(claims))
	for i, c := range claims {
		out[i] = derivedClaim{claim: c, status: claimstatus.Derive(logs[c.ID])}
	}
	return out, nil
}

// Dashboard summarizes claims created in [from, to)
func (s *ReportService) Dashboard(ctx context.Context, from, to time.Time) (*DashboardSummary, error) {
	if !to.After(from) {
		return nil, fmt.Errorf("%w: empty date range", domain.ErrInvalidInput)
	}

	claims, err := s.derive(ctx, repositories.ClaimFilter{CreatedFrom: &from, CreatedTo: &to})
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		From:        from,
		To:          to,
		TotalClaims: len(claims),
		ByStatus:    make(map[domain.ClaimStatus]StatusTotals, 4),
		Outstanding: decimal.Zero,
	}
	for _, st := range []domain.ClaimStatus{domain.StatusPending, domain.StatusApproved, domain.StatusDenied, domain.StatusPaid} {
		summary.ByStatus[st] = StatusTotals{Estimated: decimal.Zero, Payout: decimal.Zero}
	}

	for _, dc := range claims {
		t := summary.ByStatus[dc.status]
		t.Count++
		t.Estimated = t.Estimated.Add(dc.claim.EstimatedPayout)
		if dc.status == domain.StatusApproved || dc.status == domain.StatusPaid {
			t.Payout = t.Payout.Add(payoutOf(dc.claim))
		}
		summary.ByStatus[dc.status] = t

		if dc.status == domain.StatusApproved {
			summary.Outstanding = summary.Outstanding.Add(payoutOf(dc.claim))
		}
	}

	return summary, nil
}

// PaymentQueue groups every approved, unpaid claim by payee
func (s *ReportService) PaymentQueue(ctx context.Context) (*PaymentQueue, error) {
	ids, err := s.claimRepo.ListIDsWithEvent(ctx, domain.EventApprove)
	if err != nil {
		return nil, err
	}
	return s.queueFor(ctx, repositories.ClaimFilter{IDs: ids})
}

func (s *ReportService) queueFor(ctx context.Context, filter repositories.ClaimFilter) (*PaymentQueue, error) {
	queue := &PaymentQueue{
		Payees:      []*PayeeGroup{},
		GrandTotal:  decimal.Zero,
		GeneratedAt: time.Now().UTC(),
	}

	claims, err := s.derive(ctx, filter)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*PayeeGroup)
	for _, dc := range claims {
		if dc.status != domain.StatusApproved {
			continue
		}

		g, ok := groups[dc.claim.PayeeName]
		if !ok {
			g = &PayeeGroup{PayeeName: dc.claim.PayeeName, Total: decimal.Zero}
			groups[dc.claim.PayeeName] = g
			queue.Payees = append(queue.Payees, g)
		}

		amount := payoutOf(dc.claim)
		g.Claims = append(g.Claims, dc.claim.ToResponse(dc.status))
		g.ClaimCount++
		g.Total = g.Total.Add(amount)

		queue.ClaimCount++
		queue.GrandTotal = queue.GrandTotal.Add(amount)
	}

	sort.Slice(queue.Payees, func(i, j int) bool {
		return queue.Payees[i].PayeeName < queue.Payees[j].PayeeName
	})
	return queue, nil
}

// ReviewerStats counts review entries per actor written in [from, to)
func (s *ReportService) ReviewerStats(ctx context.Context, from, to time.Time) ([]*ReviewerStat, error) {
	if !to.After(from) {
		return nil, fmt.Errorf("%w: empty date range", domain.ErrInvalidInput)
	}

	entries, err := s.claimRepo.ListEntries(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byActor := make(map[string]*ReviewerStat)
	stats := []*ReviewerStat{}
	for _, e := range entries {
		kind := e.EventKind()
		if kind != domain.EventApprove && kind != domain.EventDeny && kind != domain.EventPay {
			continue
		}

		key := e.ActorName
		if e.ActorID != nil {
			key = fmt.Sprintf("id:%d", *e.ActorID)
		}
		st, ok := byActor[key]
		if !ok {
			st = &ReviewerStat{ActorID: e.ActorID, ActorName: e.ActorName}
			byActor[key] = st
			stats = append(stats, st)
		}

		switch kind {
		case domain.EventApprove:
			st.Approved++
		case domain.EventDeny:
			st.Denied++
		case domain.EventPay:
			st.Paid++
		}
		st.Total++
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Total != stats[j].Total {
			return stats[i].Total > stats[j].Total
		}
		return stats[i].ActorName < stats[j].ActorName
	})
	return stats, nil
}

// PayPayee pays every approved claim of one payee. Each claim is paid in its
// own transaction; failures are reported per claim and do not stop the batch.
func (s *ReportService) PayPayee(ctx context.Context, actor Actor, payee string, input *PayInput) (*PayPayeeResult, error) {
	queue, err := s.queueFor(ctx, repositories.ClaimFilter{PayeeName: payee})
	if err != nil {
		return nil, err
	}

	result := &PayPayeeResult{
		PayeeName: payee,
		Paid:      []string{},
		Failed:    map[string]string{},
		Total:     decimal.Zero,
	}
	if len(queue.Payees) == 0 {
		return nil, fmt.Errorf("%w: no approved claims for %q", domain.ErrNotFound, payee)
	}

	for _, c := range queue.Payees[0].Claims {
		paid, err := s.claimService.Pay(ctx, actor, c.ID, input)
		if err != nil {
			result.Failed[c.ID] = err.Error()
			continue
		}
		result.Paid = append(result.Paid, c.ID)
		if paid.PayoutAmount != nil {
			result.Total = result.Total.Add(*paid.PayoutAmount)
		} else {
			result.Total = result.Total.Add(paid.EstimatedPayout)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"payee":  payee,
		"paid":   len(result.Paid),
		"failed": len(result.Failed),
		"total":  result.Total.String(),
	}).Info("✅ Payee batch paid")

	return result, nil
}
