package services

import (
	"testing"
	"time"

	"alliance-srp/internal/config"
	"alliance-srp/internal/core/domain"
)

func TestSummaryWindow(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		wantFrom time.Time
		wantTo   time.Time
	}{
		{
			name:     "morning",
			now:      time.Date(2026, 3, 15, 8, 30, 0, 0, time.UTC),
			wantFrom: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "exactly midnight",
			now:      time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
			wantFrom: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "local clock ahead of UTC",
			now:      time.Date(2026, 3, 15, 1, 0, 0, 0, time.FixedZone("UTC+3", 3*3600)),
			wantFrom: time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "new year",
			now:      time.Date(2027, 1, 1, 6, 0, 0, 0, time.UTC),
			wantFrom: time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := summaryWindow(tt.now)
			if !from.Equal(tt.wantFrom) {
				t.Errorf("expected from %s, got %s", tt.wantFrom, from)
			}
			if !to.Equal(tt.wantTo) {
				t.Errorf("expected to %s, got %s", tt.wantTo, to)
			}
		})
	}
}

func TestSendPayoutSummaryCoversYesterday(t *testing.T) {
	f := newClaimFixture(t)
	reports := NewReportService(f.claims, f.svc)
	notifier := &recordingNotifier{}
	cron := NewCronService(config.CronConfig{}, nil, reports, nil, notifier)
	cron.now = func() time.Time { return time.Date(2026, 3, 15, 8, 30, 0, 0, time.UTC) }

	created := []time.Time{
		time.Date(2026, 3, 13, 23, 59, 59, 0, time.UTC), // day before yesterday
		time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),    // first instant of yesterday
		time.Date(2026, 3, 14, 23, 59, 59, 0, time.UTC), // last second of yesterday
		time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),    // today
	}
	for i, at := range created {
		c := f.submit(t, 5000+i, "fleet", "10000000", "")
		f.claims.claims[c.ID].CreatedAt = at
	}

	cron.SendPayoutSummary()

	if len(notifier.summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(notifier.summaries))
	}
	sum := notifier.summaries[0]
	if want := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC); !sum.From.Equal(want) {
		t.Errorf("expected from %s, got %s", want, sum.From)
	}
	if want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC); !sum.To.Equal(want) {
		t.Errorf("expected to %s, got %s", want, sum.To)
	}
	if sum.TotalClaims != 2 {
		t.Errorf("expected 2 claims from yesterday, got %d", sum.TotalClaims)
	}
	if got := sum.ByStatus[domain.StatusPending].Count; got != 2 {
		t.Errorf("expected 2 pending, got %d", got)
	}
}
