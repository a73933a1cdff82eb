package services

import (
	"context"
	"time"

	"alliance-srp/internal/config"
	"alliance-srp/internal/core/shipclass"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CronService runs the background jobs
type CronService struct {
	cron     *cron.Cron
	cfg      config.CronConfig
	registry *shipclass.Registry
	reports  *ReportService
	auth     *AuthService
	notifier Notifier
	logger   *logrus.Logger
	now      func() time.Time
}

// NewCronService creates a new cron service
func NewCronService(
	cfg config.CronConfig,
	registry *shipclass.Registry,
	reports *ReportService,
	auth *AuthService,
	notifier Notifier,
) *CronService {
	return &CronService{
		cron:     cron.New(cron.WithLocation(time.UTC), cron.WithChain(cron.Recover(cron.DefaultLogger))),
		cfg:      cfg,
		registry: registry,
		reports:  reports,
		auth:     auth,
		notifier: notifier,
		logger:   config.GetLogger(),
		now:      time.Now,
	}
}

// Start registers the jobs and starts the scheduler
func (s *CronService) Start() error {
	jobs := []struct {
		name string
		spec string
		fn   func()
	}{
		{"shipclass-refresh", s.cfg.ShipClassRefresh, s.RefreshShipClasses},
		{"payout-summary", s.cfg.PayoutSummary, s.SendPayoutSummary},
		{"token-cleanup", s.cfg.TokenCleanup, s.CleanupTokens},
	}

	for _, j := range jobs {
		if j.spec == "" || j.spec == "off" {
			s.logger.WithField("job", j.name).Info("cron job disabled")
			continue
		}
		if _, err := s.cron.AddFunc(j.spec, j.fn); err != nil {
			return err
		}
		s.logger.WithFields(logrus.Fields{"job": j.name, "spec": j.spec}).Info("⏰ Cron job scheduled")
	}

	s.cron.Start()
	return nil
}

// Stop waits for running jobs to finish
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
}

// RefreshShipClasses reloads the ship class table out of band
func (s *CronService) RefreshShipClasses() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := s.registry.Refresh(ctx); err != nil {
		config.LogError(s.logger, "cron_service", "RefreshShipClasses", "refresh failed", nil, err)
	}
}

// summaryWindow is yesterday in UTC: [00:00 yesterday, 00:00 today)
func summaryWindow(now time.Time) (from, to time.Time) {
	to = now.UTC().Truncate(24 * time.Hour)
	return to.Add(-24 * time.Hour), to
}

// SendPayoutSummary posts yesterday's dashboard
func (s *CronService) SendPayoutSummary() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	from, to := summaryWindow(s.now())

	summary, err := s.reports.Dashboard(ctx, from, to)
	if err != nil {
		config.LogError(s.logger, "cron_service", "SendPayoutSummary", "dashboard failed", nil, err)
		return
	}
	if s.notifier != nil {
		s.notifier.PayoutSummary(summary)
	}
}

// CleanupTokens deletes expired refresh tokens
func (s *CronService) CleanupTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.auth.CleanupExpiredTokens(ctx)
	if err != nil {
		config.LogError(s.logger, "cron_service", "CleanupTokens", "delete expired tokens", nil, err)
		return
	}
	s.logger.WithField("deleted", n).Info("🧹 Expired refresh tokens removed")
}
