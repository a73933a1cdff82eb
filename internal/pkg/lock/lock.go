// Package lock provides the per-claim review lock.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alliance-srp/internal/core/domain"

	"github.com/bsm/redislock"
)

// DefaultTTL bounds how long a crashed reviewer can hold a claim
const DefaultTTL = 30 * time.Second

// Locker serializes reviewers of the same claim.
// The returned release func is always non-nil when err is nil.
type Locker interface {
	Acquire(ctx context.Context, claimID string) (release func(), err error)
}

// RedisLocker is a Locker backed by redislock
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
}

// NewRedisLocker returns a redis backed locker, or a no-op one when client is nil
func NewRedisLocker(client *redislock.Client, ttl time.Duration) Locker {
	if client == nil {
		return Noop{}
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisLocker{client: client, ttl: ttl}
}

// Acquire obtains the review lock for claimID
func (l *RedisLocker) Acquire(ctx context.Context, claimID string) (func(), error) {
	key := fmt.Sprintf("srp:claim-review:%s", claimID)

	lk, err := l.client.Obtain(ctx, key, l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, domain.ErrClaimLocked
	}
	if err != nil {
		return nil, err
	}

	return func() {
		_ = lk.Release(context.Background())
	}, nil
}

// Noop never blocks. The database transition guard still applies.
type Noop struct{}

// Acquire always succeeds
func (Noop) Acquire(context.Context, string) (func(), error) {
	return func() {}, nil
}
