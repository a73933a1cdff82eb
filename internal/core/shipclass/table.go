// Package shipclass holds the process-wide ship class lookup table.
package shipclass

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Entry is one ship group's reimbursement settings
type Entry struct {
	GroupName   string
	TierCeiling *decimal.Decimal
	Special     bool
}

// Table is a read-mostly lookup keyed by case-insensitive group name.
type Table struct {
	mu       sync.RWMutex
	entries  map[string]Entry
	loadedAt time.Time
}

// NewTable creates a table holding entries
func NewTable(entries []Entry) *Table {
	t := &Table{}
	t.Replace(entries)
	return t
}

func key(group string) string {
	return strings.ToLower(strings.TrimSpace(group))
}

// Replace swaps the whole table in one step
func (t *Table) Replace(entries []Entry) {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		if k := key(e.GroupName); k != "" {
			m[k] = e
		}
	}

	t.mu.Lock()
	t.entries = m
	t.loadedAt = time.Now()
	t.mu.Unlock()
}

// IsSpecialClass reports whether group is reimbursed at full rate when solo
func (t *Table) IsSpecialClass(group string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.entries[key(group)].Special
}

// TierCeiling returns the solo payout ceiling for group, if any
func (t *Table) TierCeiling(group string) (decimal.Decimal, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[key(group)]
	if !ok || e.TierCeiling == nil {
		return decimal.Zero, false
	}
	return *e.TierCeiling, true
}

// Entries returns a snapshot sorted by nothing in particular
func (t *Table) Entries() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	return out
}

// Len returns the number of groups in the table
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// LoadedAt returns when the table was last replaced
func (t *Table) LoadedAt() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.loadedAt
}

// Source supplies the static ship class dataset.
type Source interface {
	LoadShipClasses(ctx context.Context) ([]Entry, error)
}

// Registry owns the live table and refreshes it out-of-band.
type Registry struct {
	table  *Table
	source Source
	logger *logrus.Logger
}

// NewRegistry creates a registry with an empty table
func NewRegistry(source Source, logger *logrus.Logger) *Registry {
	return &Registry{
		table:  NewTable(nil),
		source: source,
		logger: logger,
	}
}

// Table returns the live table
func (r *Registry) Table() *Table {
	return r.table
}

// Refresh reloads the table from the source. On error the previous table stays.
func (r *Registry) Refresh(ctx context.Context) (int, error) {
	entries, err := r.source.LoadShipClasses(ctx)
	if err != nil {
		return 0, fmt.Errorf("load ship classes: %w", err)
	}
	r.table.Replace(entries)

	if r.logger != nil {
		r.logger.WithField("groups", len(entries)).Info("ship class table refreshed")
	}
	return len(entries), nil
}
