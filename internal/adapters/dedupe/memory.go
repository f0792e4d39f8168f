package dedupe

import (
	"context"
	"sync"
	"time"
)

// MemoryGuard es el guard de un solo proceso (dev o sin Redis).
type MemoryGuard struct {
	mu   sync.Mutex
	ttl  time.Duration
	seen map[string]time.Time
	now  func() time.Time
}

func NewMemoryGuard(ttl time.Duration) *MemoryGuard {
	return &MemoryGuard{ttl: ttl, seen: make(map[string]time.Time), now: time.Now}
}

func (g *MemoryGuard) CheckAndMark(_ context.Context, id string) (bool, error) {
	if id == "" {
		return false, ErrEmptyID
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	g.sweep(now)
	if exp, ok := g.seen[id]; ok && (g.ttl <= 0 || now.Before(exp)) {
		return true, nil
	}
	g.seen[id] = now.Add(g.ttl)
	return false, nil
}

func (g *MemoryGuard) Delete(_ context.Context, id string) error {
	if id == "" {
		return ErrEmptyID
	}
	g.mu.Lock()
	delete(g.seen, id)
	g.mu.Unlock()
	return nil
}

// ttl <= 0: las marcas no expiran.
func (g *MemoryGuard) sweep(now time.Time) {
	if g.ttl <= 0 {
		return
	}
	for id, exp := range g.seen {
		if !now.Before(exp) {
			delete(g.seen, id)
		}
	}
}
