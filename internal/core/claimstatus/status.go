// Package claimstatus derives a claim's lifecycle status from its process log.
//
// Status is never stored. It is folded from the append-only log on every read,
// and the write path re-derives it inside the same transaction before appending.
package claimstatus

import (
	"fmt"
	"time"

	"alliance-srp/internal/core/domain"
)

// Entry is a single process log entry as seen by the status fold.
type Entry interface {
	EventKind() domain.EventKind
	OccurredAt() time.Time
	// Sequence is the insertion order; it breaks timestamp ties.
	Sequence() uint64
}

// statusFor maps status-changing kinds to the status they produce.
var statusFor = map[domain.EventKind]domain.ClaimStatus{
	domain.EventCreated: domain.StatusPending,
	domain.EventApprove: domain.StatusApproved,
	domain.EventDeny:    domain.StatusDenied,
	domain.EventPay:     domain.StatusPaid,
}

// rank orders kinds along the lifecycle. Only used when timestamp and
// sequence are both equal.
var rank = map[domain.EventKind]int{
	domain.EventCreated: 0,
	domain.EventApprove: 1,
	domain.EventDeny:    1,
	domain.EventPay:     2,
}

// ChangesStatus reports whether kind participates in status derivation
func ChangesStatus(kind domain.EventKind) bool {
	_, ok := statusFor[kind]
	return ok
}

// Derive returns the status produced by the most recent status-changing entry.
// An empty log derives pending. Illegal sequences that slipped past the write
// path still derive deterministically from their latest entry.
func Derive[E Entry](entries []E) domain.ClaimStatus {
	var latest E
	found := false

	for _, e := range entries {
		if !ChangesStatus(e.EventKind()) {
			continue
		}
		if !found || isAfter(e, latest) {
			latest = e
			found = true
		}
	}

	if !found {
		return domain.StatusPending
	}
	return statusFor[latest.EventKind()]
}

func isAfter(a, b Entry) bool {
	if !a.OccurredAt().Equal(b.OccurredAt()) {
		return a.OccurredAt().After(b.OccurredAt())
	}
	if a.Sequence() != b.Sequence() {
		return a.Sequence() > b.Sequence()
	}
	if rank[a.EventKind()] != rank[b.EventKind()] {
		return rank[a.EventKind()] > rank[b.EventKind()]
	}
	// approve vs deny at the same instant and sequence: deny wins.
	return a.EventKind() == domain.EventDeny && b.EventKind() != domain.EventDeny
}

// CheckTransition reports whether kind may be appended to a claim whose
// current derived status is current.
func CheckTransition(current domain.ClaimStatus, kind domain.EventKind) error {
	switch kind {
	case domain.EventComment:
		return nil
	case domain.EventApprove, domain.EventDeny:
		if current == domain.StatusPending {
			return nil
		}
	case domain.EventPay:
		if current == domain.StatusApproved {
			return nil
		}
	case domain.EventCreated:
		return fmt.Errorf("%w: created may only be the first entry", domain.ErrIllegalTransition)
	default:
		return fmt.Errorf("%w: unknown event kind %q", domain.ErrInvalidInput, kind)
	}
	return fmt.Errorf("%w: cannot %s a %s claim", domain.ErrIllegalTransition, kind, current)
}

// Next returns the status kind would produce after passing CheckTransition.
func Next(current domain.ClaimStatus, kind domain.EventKind) (domain.ClaimStatus, error) {
	if err := CheckTransition(current, kind); err != nil {
		return current, err
	}
	if s, ok := statusFor[kind]; ok {
		return s, nil
	}
	return current, nil
}
