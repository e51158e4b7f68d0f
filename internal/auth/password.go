package auth

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// Hasher produces and checks bcrypt digests. At most `concurrency` bcrypt
// operations run at once; the rest wait for a slot, so a burst of logins
// cannot starve the CPU for requests that do not hash.
type Hasher struct {
	cost int
	sem  *semaphore.Weighted

	decoyOnce sync.Once
	decoy     []byte
}

// NewHasher returns a Hasher using the given bcrypt cost (clamped to the
// bcrypt bounds) and concurrency (defaults to GOMAXPROCS when <= 0).
func NewHasher(cost, concurrency int) *Hasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	return &Hasher{cost: cost, sem: semaphore.NewWeighted(int64(concurrency))}
}

// Cost returns the bcrypt work factor in use.
func (h *Hasher) Cost() int { return h.cost }

// Hash returns a salted bcrypt digest of plain. Two calls with the same
// input yield different digests.
func (h *Hasher) Hash(ctx context.Context, plain string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.sem.Release(1)

	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare reports whether plain matches digest. The comparison is constant
// time; a malformed or empty digest yields false. The error is non-nil
// only when no hashing slot could be obtained before ctx ended, in which
// case nothing was compared.
func (h *Hasher) Compare(ctx context.Context, plain, digest string) (bool, error) {
	if digest == "" {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer h.sem.Release(1)

	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil, nil
}

// Verify is Compare with the slot error folded into false.
func (h *Hasher) Verify(ctx context.Context, plain, digest string) bool {
	ok, err := h.Compare(ctx, plain, digest)
	return ok && err == nil
}

// Decoy runs one comparison against a throwaway digest so a lookup miss
// costs about as much as a wrong password. It fails like Compare.
func (h *Hasher) Decoy(ctx context.Context, plain string) error {
	h.decoyOnce.Do(func() {
		h.decoy, _ = bcrypt.GenerateFromPassword([]byte("decoy-password"), h.cost)
	})
	_, err := h.Compare(ctx, plain, string(h.decoy))
	return err
}
