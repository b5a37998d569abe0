package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"
)

// Ledger issues and consumes one-time codes keyed by email address.
//
// Semantics:
//   - Issue always overwrites any live entry for the address (idempotent
//     reissue, no "already pending" state).
//   - Consume deletes the entry on a successful match or when it finds the
//     entry expired; a mismatch against a live entry leaves it intact so the
//     caller may retry until expiry.
//   - Expired entries are purged lazily; there is no background sweep.
//
// The mutex makes an issue/consume pair atomic with respect to other ledger
// operations in this process; the store itself must be concurrency-safe.
type Ledger struct {
	mu    sync.Mutex
	store Store
	ttl   time.Duration
	now   func() time.Time
}

func NewLedger(store Store, ttl time.Duration) *Ledger {
	return &Ledger{
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Issue generates a fresh 6-digit code for the address and stores it with
// the configured lifetime, replacing any prior entry.
func (l *Ledger) Issue(ctx context.Context, email string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entry := Entry{
		Code:      code,
		ExpiresAt: l.now().Add(l.ttl),
	}
	if err := l.store.Put(ctx, email, entry); err != nil {
		return "", fmt.Errorf("failed to store code: %w", err)
	}

	return code, nil
}

// Consume validates a candidate code for the address. It reports true and
// removes the entry only on an exact match before expiry.
func (l *Ledger) Consume(ctx context.Context, email, candidate string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok, err := l.store.Get(ctx, email)
	if err != nil {
		return false, fmt.Errorf("failed to read code: %w", err)
	}
	if !ok {
		return false, nil
	}

	if l.now().After(entry.ExpiresAt) {
		if err := l.store.Delete(ctx, email); err != nil {
			return false, fmt.Errorf("failed to purge expired code: %w", err)
		}
		return false, nil
	}

	if entry.Code != candidate {
		return false, nil
	}

	if err := l.store.Delete(ctx, email); err != nil {
		return false, fmt.Errorf("failed to consume code: %w", err)
	}
	return true, nil
}

// generateCode returns a 6-digit code drawn uniformly from [100000, 999999]
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
