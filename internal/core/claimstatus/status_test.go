package claimstatus

import (
	"errors"
	"testing"
	"time"

	"alliance-srp/internal/core/domain"
)

type entry struct {
	kind domain.EventKind
	at   time.Time
	seq  uint64
}

func (e entry) EventKind() domain.EventKind { return e.kind }
func (e entry) OccurredAt() time.Time       { return e.at }
func (e entry) Sequence() uint64            { return e.seq }

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// log builds entries one minute apart with increasing sequence numbers.
func log(kinds ...domain.EventKind) []entry {
	out := make([]entry, len(kinds))
	for i, k := range kinds {
		out[i] = entry{kind: k, at: t0.Add(time.Duration(i) * time.Minute), seq: uint64(i + 1)}
	}
	return out
}

func TestDerive(t *testing.T) {
	tests := []struct {
		name    string
		entries []entry
		want    domain.ClaimStatus
	}{
		{"empty log", nil, domain.StatusPending},
		{"created only", log(domain.EventCreated), domain.StatusPending},
		{"approved", log(domain.EventCreated, domain.EventApprove), domain.StatusApproved},
		{"denied", log(domain.EventCreated, domain.EventDeny), domain.StatusDenied},
		{"paid", log(domain.EventCreated, domain.EventApprove, domain.EventPay), domain.StatusPaid},
		{"illegal double transition picks latest", log(domain.EventCreated, domain.EventApprove, domain.EventDeny), domain.StatusDenied},
		{"comment after created", log(domain.EventCreated, domain.EventComment), domain.StatusPending},
		{"comment after approve", log(domain.EventCreated, domain.EventApprove, domain.EventComment, domain.EventComment), domain.StatusApproved},
		{"comment only", log(domain.EventComment), domain.StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Derive(tt.entries); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestDerive_DescendingOrderInput(t *testing.T) {
	entries := log(domain.EventCreated, domain.EventApprove, domain.EventPay)
	reversed := []entry{entries[2], entries[1], entries[0]}

	if got := Derive(reversed); got != domain.StatusPaid {
		t.Errorf("expected paid, got %s", got)
	}
}

func TestDerive_SameTimestampUsesSequence(t *testing.T) {
	created := entry{kind: domain.EventCreated, at: t0, seq: 1}
	approve := entry{kind: domain.EventApprove, at: t0, seq: 2}

	for _, order := range [][]entry{{created, approve}, {approve, created}} {
		if got := Derive(order); got != domain.StatusApproved {
			t.Errorf("expected approved, got %s", got)
		}
	}
}

func TestDerive_FullTieIsOrderIndependent(t *testing.T) {
	approve := entry{kind: domain.EventApprove, at: t0}
	deny := entry{kind: domain.EventDeny, at: t0}
	created := entry{kind: domain.EventCreated, at: t0}

	perms := [][]entry{
		{created, approve, deny},
		{deny, approve, created},
		{approve, created, deny},
		{approve, deny, created},
	}
	for i, p := range perms {
		if got := Derive(p); got != domain.StatusDenied {
			t.Errorf("permutation %d: expected denied, got %s", i, got)
		}
	}
}

func TestDerive_CommentNeverChangesStatus(t *testing.T) {
	for _, base := range [][]domain.EventKind{
		{domain.EventCreated},
		{domain.EventCreated, domain.EventApprove},
		{domain.EventCreated, domain.EventDeny},
		{domain.EventCreated, domain.EventApprove, domain.EventPay},
	} {
		entries := log(base...)
		before := Derive(entries)
		after := Derive(append(entries, entry{kind: domain.EventComment, at: t0.Add(time.Hour), seq: 99}))
		if before != after {
			t.Errorf("log %v: comment changed status from %s to %s", base, before, after)
		}
	}
}

func TestCheckTransition(t *testing.T) {
	tests := []struct {
		current domain.ClaimStatus
		kind    domain.EventKind
		wantErr error
	}{
		{domain.StatusPending, domain.EventApprove, nil},
		{domain.StatusPending, domain.EventDeny, nil},
		{domain.StatusPending, domain.EventPay, domain.ErrIllegalTransition},
		{domain.StatusApproved, domain.EventPay, nil},
		{domain.StatusApproved, domain.EventApprove, domain.ErrIllegalTransition},
		{domain.StatusApproved, domain.EventDeny, domain.ErrIllegalTransition},
		{domain.StatusDenied, domain.EventApprove, domain.ErrIllegalTransition},
		{domain.StatusDenied, domain.EventPay, domain.ErrIllegalTransition},
		{domain.StatusPaid, domain.EventPay, domain.ErrIllegalTransition},
		{domain.StatusPaid, domain.EventComment, nil},
		{domain.StatusPending, domain.EventCreated, domain.ErrIllegalTransition},
		{domain.StatusPending, "escalate", domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(string(tt.current)+"/"+string(tt.kind), func(t *testing.T) {
			err := CheckTransition(tt.current, tt.kind)
			if tt.wantErr == nil && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNext(t *testing.T) {
	got, err := Next(domain.StatusPending, domain.EventApprove)
	if err != nil || got != domain.StatusApproved {
		t.Errorf("expected approved, got %s (%v)", got, err)
	}

	got, err = Next(domain.StatusApproved, domain.EventComment)
	if err != nil || got != domain.StatusApproved {
		t.Errorf("expected approved, got %s (%v)", got, err)
	}

	got, err = Next(domain.StatusDenied, domain.EventPay)
	if !errors.Is(err, domain.ErrIllegalTransition) || got != domain.StatusDenied {
		t.Errorf("expected illegal transition keeping denied, got %s (%v)", got, err)
	}
}
