package memoryhost

import (
	"context"
	"time"

	"github.com/ggoodman/flash-go/sessions"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMaxSessions bounds the number of records a Host keeps when
// WithMaxSessions is not supplied.
const DefaultMaxSessions = 10_000

// Option configures a Host.
type Option func(*Host)

// WithMaxSessions bounds the number of records kept. Values below 1 are
// ignored.
func WithMaxSessions(n int) Option {
	return func(h *Host) {
		if n > 0 {
			h.maxSessions = n
		}
	}
}

// withClock overrides time.Now for tests.
func withClock(now func() time.Time) Option {
	return func(h *Host) { h.now = now }
}

// Host is an in-memory implementation of sessions.Host.
type Host struct {
	maxSessions int
	now         func() time.Time
	cache       *lru.Cache[string, *record]
}

type record struct {
	data      []byte
	expiresAt time.Time // zero: never
}

func (r *record) expired(now time.Time) bool {
	return !r.expiresAt.IsZero() && now.After(r.expiresAt)
}

func New(opts ...Option) *Host {
	h := &Host{maxSessions: DefaultMaxSessions, now: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	cache, err := lru.New[string, *record](h.maxSessions)
	if err != nil {
		// Only reachable with a non-positive size, which WithMaxSessions rejects.
		panic(err)
	}
	h.cache = cache
	return h
}

func (h *Host) Load(ctx context.Context, sessionID string) ([]byte, error) {
	rec, ok := h.cache.Get(sessionID)
	if !ok {
		return nil, nil
	}
	if rec.expired(h.now()) {
		h.cache.Remove(sessionID)
		return nil, nil
	}
	// Non-nil even for an empty record: nil means absent.
	out := make([]byte, len(rec.data))
	copy(out, rec.data)
	return out, nil
}

func (h *Host) Save(ctx context.Context, sessionID string, data []byte, ttl time.Duration) error {
	rec := &record{data: append([]byte(nil), data...)}
	if ttl > 0 {
		rec.expiresAt = h.now().Add(ttl)
	}
	h.cache.Add(sessionID, rec)
	return nil
}

func (h *Host) Destroy(ctx context.Context, sessionID string) error {
	h.cache.Remove(sessionID)
	return nil
}

// Len reports the number of records currently held, expired or not.
func (h *Host) Len() int { return h.cache.Len() }

// Ensure interface compliance
var _ sessions.Host = (*Host)(nil)
