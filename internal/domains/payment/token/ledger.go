package token

import (
	"context"
	"sync"
	"time"
)

// Ledger records consumed tokens so a return marker is honoured once.
type Ledger interface {
	// Claim returns false when the id was already claimed within ttl.
	Claim(ctx context.Context, id string, ttl time.Duration) (bool, error)

	// Release forgets a claim whose side effect did not happen.
	Release(ctx context.Context, id string) error
}

// MemoryLedger is a process-local Ledger used by the CLI and tests.
type MemoryLedger struct {
	mu      sync.Mutex
	claimed map[string]time.Time
	now     func() time.Time
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		claimed: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (l *MemoryLedger) Claim(_ context.Context, id string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if expires, ok := l.claimed[id]; ok && now.Before(expires) {
		return false, nil
	}
	l.claimed[id] = now.Add(ttl)
	return true, nil
}

func (l *MemoryLedger) Release(_ context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.claimed, id)
	return nil
}
