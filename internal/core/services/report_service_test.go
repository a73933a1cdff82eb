package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"alliance-srp/internal/core/domain"
)

func TestDashboard(t *testing.T) {
	f := newClaimFixture(t)
	reports := NewReportService(f.claims, f.svc)
	ctx := context.Background()

	a := f.submit(t, 1, "fleet", "10000000", "")
	b := f.submit(t, 2, "fleet", "20000000", "")
	c := f.submit(t, 3, "solo", "10000000", "")
	f.submit(t, 4, "solo", "10000000", "")

	_, _ = f.svc.Approve(ctx, f.fc, a.ID, &ApproveInput{})
	_, _ = f.svc.Approve(ctx, f.fc, b.ID, &ApproveInput{})
	_, _ = f.svc.Pay(ctx, f.admin, b.ID, &PayInput{})
	_, _ = f.svc.Deny(ctx, f.fc, c.ID, &DenyInput{Note: "no"})

	from := time.Now().UTC().Add(-time.Hour)
	sum, err := reports.Dashboard(ctx, from, from.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sum.TotalClaims != 4 {
		t.Errorf("expected 4 claims, got %d", sum.TotalClaims)
	}
	for status, want := range map[domain.ClaimStatus]int{
		domain.StatusPending:  1,
		domain.StatusApproved: 1,
		domain.StatusDenied:   1,
		domain.StatusPaid:     1,
	} {
		if got := sum.ByStatus[status].Count; got != want {
			t.Errorf("%s: expected %d, got %d", status, want, got)
		}
	}
	if !sum.ByStatus[domain.StatusPaid].Payout.Equal(dec("10000000")) {
		t.Errorf("expected paid total 10000000, got %s", sum.ByStatus[domain.StatusPaid].Payout)
	}
	if !sum.Outstanding.Equal(dec("5000000")) {
		t.Errorf("expected outstanding 5000000, got %s", sum.Outstanding)
	}

	if _, err := reports.Dashboard(ctx, from, from); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty range, got %v", err)
	}
}

func TestPaymentQueueGroupsApprovedByPayee(t *testing.T) {
	f := newClaimFixture(t)
	reports := NewReportService(f.claims, f.svc)
	ctx := context.Background()

	a := f.submit(t, 1, "fleet", "10000000", "")
	b := f.submit(t, 2, "fleet", "30000000", "")
	c := f.submit(t, 3, "fleet", "10000000", "")
	f.submit(t, 4, "fleet", "10000000", "")

	other, err := f.svc.Submit(ctx, f.other, &SubmitClaimInput{
		KillmailURL: "https://zkillboard.com/kill/5/", ShipTypeID: 1,
		BaseValue: dec("8000000"), OperationContext: "fleet",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	for _, id := range []string{a.ID, b.ID, c.ID, other.ID} {
		if _, err := f.svc.Approve(ctx, f.fc, id, &ApproveInput{}); err != nil {
			t.Fatalf("approve: %v", err)
		}
	}
	_, _ = f.svc.Pay(ctx, f.admin, c.ID, &PayInput{})

	queue, err := reports.PaymentQueue(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(queue.Payees) != 2 {
		t.Fatalf("expected 2 payees, got %d", len(queue.Payees))
	}
	if queue.Payees[0].PayeeName != "Other Pilot" || queue.Payees[1].PayeeName != "Pilot One" {
		t.Errorf("expected payees sorted by name, got %s, %s", queue.Payees[0].PayeeName, queue.Payees[1].PayeeName)
	}
	if queue.Payees[1].ClaimCount != 2 || !queue.Payees[1].Total.Equal(dec("20000000")) {
		t.Errorf("expected Pilot One 2 claims / 20000000, got %d / %s", queue.Payees[1].ClaimCount, queue.Payees[1].Total)
	}
	if queue.ClaimCount != 3 || !queue.GrandTotal.Equal(dec("24000000")) {
		t.Errorf("expected 3 claims / 24000000, got %d / %s", queue.ClaimCount, queue.GrandTotal)
	}
}

func TestPaymentQueueIgnoresIllegalStoredSequence(t *testing.T) {
	f := newClaimFixture(t)
	reports := NewReportService(f.claims, f.svc)
	ctx := context.Background()

	c := f.submit(t, 1, "fleet", "10000000", "")
	at := time.Now().UTC()
	f.claims.append(c.ID, domain.EventApprove, "legacy", at)
	f.claims.append(c.ID, domain.EventDeny, "legacy", at.Add(time.Second))

	queue, err := reports.PaymentQueue(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if queue.ClaimCount != 0 {
		t.Errorf("expected claim derived denied to stay out of the queue, got %d", queue.ClaimCount)
	}
}

func TestReviewerStats(t *testing.T) {
	f := newClaimFixture(t)
	reports := NewReportService(f.claims, f.svc)
	ctx := context.Background()

	a := f.submit(t, 1, "fleet", "10000000", "")
	b := f.submit(t, 2, "fleet", "10000000", "")
	c := f.submit(t, 3, "fleet", "10000000", "")

	_, _ = f.svc.Approve(ctx, f.fc, a.ID, &ApproveInput{})
	_, _ = f.svc.Deny(ctx, f.fc, b.ID, &DenyInput{Note: "no"})
	_, _ = f.svc.Approve(ctx, f.admin, c.ID, &ApproveInput{})
	_, _ = f.svc.Pay(ctx, f.admin, c.ID, &PayInput{})
	_, _ = f.svc.AddNote(ctx, f.admin, a.ID, &NoteInput{Note: "ok"})

	from := time.Now().UTC().Add(-time.Hour)
	stats, err := reports.ReviewerStats(ctx, from, from.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 reviewers, got %d", len(stats))
	}
	for _, st := range stats {
		switch st.ActorName {
		case "Fleet Boss":
			if st.Approved != 1 || st.Denied != 1 || st.Total != 2 {
				t.Errorf("unexpected FC stats: %+v", st)
			}
		case "Wallet Keeper":
			if st.Approved != 1 || st.Paid != 1 || st.Total != 2 {
				t.Errorf("unexpected admin stats: %+v", st)
			}
		default:
			t.Errorf("unexpected reviewer %q", st.ActorName)
		}
	}
}

func TestPayPayee(t *testing.T) {
	f := newClaimFixture(t)
	reports := NewReportService(f.claims, f.svc)
	ctx := context.Background()

	a := f.submit(t, 1, "fleet", "10000000", "")
	b := f.submit(t, 2, "fleet", "20000000", "")
	f.submit(t, 3, "fleet", "20000000", "")
	_, _ = f.svc.Approve(ctx, f.fc, a.ID, &ApproveInput{})
	_, _ = f.svc.Approve(ctx, f.fc, b.ID, &ApproveInput{})

	res, err := reports.PayPayee(ctx, f.admin, "Pilot One", &PayInput{Note: "batch"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Paid) != 2 || len(res.Failed) != 0 {
		t.Errorf("expected 2 paid 0 failed, got %d/%d", len(res.Paid), len(res.Failed))
	}
	if !res.Total.Equal(dec("15000000")) {
		t.Errorf("expected total 15000000, got %s", res.Total)
	}
	if len(f.notifier.paid) != 2 {
		t.Errorf("expected 2 paid notifications, got %d", len(f.notifier.paid))
	}

	if _, err := reports.PayPayee(ctx, f.admin, "Pilot One", &PayInput{}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound once queue is empty, got %v", err)
	}
}
