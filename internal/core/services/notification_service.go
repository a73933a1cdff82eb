package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"alliance-srp/internal/adapters/persistence/models"
	"alliance-srp/internal/config"
	"alliance-srp/internal/core/domain"

	"github.com/sirupsen/logrus"
)

// NotificationService posts claim events to a chat webhook
type NotificationService struct {
	webhookURL string
	enabled    bool
	client     *http.Client
	logger     *logrus.Logger
}

// NewNotificationService creates a new notification service.
// An empty webhook URL disables it.
func NewNotificationService(cfg config.NotifyConfig) *NotificationService {
	return &NotificationService{
		webhookURL: cfg.WebhookURL,
		enabled:    cfg.WebhookURL != "",
		client:     &http.Client{Timeout: 5 * time.Second},
		logger:     config.GetLogger(),
	}
}

// IsEnabled checks if notification is enabled
func (s *NotificationService) IsEnabled() bool {
	return s.enabled
}

type webhookMessage struct {
	Content string `json:"content"`
}

// send posts message synchronously
func (s *NotificationService) send(ctx context.Context, message string) error {
	if !s.enabled {
		return nil
	}

	body, err := json.Marshal(webhookMessage{Content: message})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	}
	return nil
}

// dispatch sends in the background; failures are only logged.
func (s *NotificationService) dispatch(message string) {
	if !s.enabled {
		return
	}
	go func() {
		if err := s.send(context.Background(), message); err != nil {
			config.LogError(s.logger, "notification_service", "dispatch", "webhook post failed", nil, err)
		}
	}()
}

func isk(c *models.Claim) string {
	if c.PayoutAmount.Valid {
		return c.PayoutAmount.Decimal.StringFixed(2)
	}
	return c.EstimatedPayout.StringFixed(2)
}

// ClaimSubmitted implements Notifier
func (s *NotificationService) ClaimSubmitted(c *models.Claim) {
	s.dispatch(fmt.Sprintf("🆕 SRP claim %s by %s: %s (%s) lost, estimate %s ISK",
		c.ID, c.CharacterName, c.ShipGroup, c.OperationContext, c.EstimatedPayout.StringFixed(2)))
}

// ClaimReviewed implements Notifier
func (s *NotificationService) ClaimReviewed(c *models.Claim, status domain.ClaimStatus, reviewer string) {
	icon := "✅"
	if status == domain.StatusDenied {
		icon = "❌"
	}
	msg := fmt.Sprintf("%s SRP claim %s for %s %s by %s", icon, c.ID, c.CharacterName, status, reviewer)
	if status == domain.StatusApproved {
		msg += fmt.Sprintf(", payout %s ISK", isk(c))
	}
	if c.ReviewerNote != "" {
		msg += "\n📝 " + c.ReviewerNote
	}
	s.dispatch(msg)
}

// ClaimPaid implements Notifier
func (s *NotificationService) ClaimPaid(c *models.Claim, payer string) {
	s.dispatch(fmt.Sprintf("💰 SRP claim %s paid to %s: %s ISK (by %s)", c.ID, c.PayeeName, isk(c), payer))
}

// PayoutSummary implements Notifier
func (s *NotificationService) PayoutSummary(sum *DashboardSummary) {
	paid := sum.ByStatus[domain.StatusPaid]
	pending := sum.ByStatus[domain.StatusPending]
	s.dispatch(fmt.Sprintf("📊 SRP %s: %d claims, %d pending, %d paid (%s ISK), outstanding %s ISK",
		sum.From.Format("2006-01-02"), sum.TotalClaims, pending.Count, paid.Count,
		paid.Payout.StringFixed(2), sum.Outstanding.StringFixed(2)))
}
