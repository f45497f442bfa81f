package catalog

import (
	"math/rand"
	"sync"
	"time"
)

// Rotation owns the "featured problem" state: a rotating, non-premium
// problem the community competes on. The rotating value is modeled as
// an explicitly owned, timestamped value with a defined refresh
// trigger instead of ambient process-wide state; queries receive it as
// an explicit input.
type Rotation struct {
	mu        sync.Mutex
	index     *Index
	interval  time.Duration
	rng       *rand.Rand
	current   Problem
	rotatedAt time.Time
	hasValue  bool
}

// Featured is a snapshot of the rotation state at query time.
type Featured struct {
	Problem   Problem
	RotatedAt time.Time

	// ExpiresAt is when the next refresh trigger fires.
	ExpiresAt time.Time
}

// NewRotation creates a rotation over the given index. The seed makes
// rotation deterministic in tests; pass time.Now().UnixNano() in
// production wiring.
func NewRotation(index *Index, interval time.Duration, seed int64) *Rotation {
	return &Rotation{
		index:    index,
		interval: interval,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Current returns the featured problem as of now, refreshing first if
// the rotation interval has elapsed. The boolean is false when the
// catalog has no non-premium problem to feature.
func (r *Rotation) Current(now time.Time) (Featured, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.hasValue || now.Sub(r.rotatedAt) >= r.interval {
		p, ok := r.index.RandomNonPremium(r.rng)
		if !ok {
			return Featured{}, false
		}
		r.current = p
		r.rotatedAt = now
		r.hasValue = true
	}

	return Featured{
		Problem:   r.current,
		RotatedAt: r.rotatedAt,
		ExpiresAt: r.rotatedAt.Add(r.interval),
	}, true
}

// Refresh forces a rotation regardless of the interval.
func (r *Rotation) Refresh(now time.Time) (Featured, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.index.RandomNonPremium(r.rng)
	if !ok {
		return Featured{}, false
	}
	r.current = p
	r.rotatedAt = now
	r.hasValue = true

	return Featured{
		Problem:   r.current,
		RotatedAt: r.rotatedAt,
		ExpiresAt: r.rotatedAt.Add(r.interval),
	}, true
}
