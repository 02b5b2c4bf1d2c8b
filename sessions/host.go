package sessions

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrHostRequired is returned by NewManager when no Host is supplied.
	ErrHostRequired = errors.New("session host is required")
	// ErrCorruptRecord indicates a host returned bytes that do not decode as a
	// session record.
	ErrCorruptRecord = errors.New("corrupt session record")
)

// Host is the persistence contract the session Manager needs. It stores one
// opaque record per session ID and works across in-memory and distributed
// implementations. Implementations MUST be safe for concurrent use and MUST
// NOT retain the byte slices passed to Save or returned from Load.
type Host interface {
	// Load returns the record stored for sessionID. A missing or expired
	// record is reported as (nil, nil); errors are reserved for backend
	// failures.
	Load(ctx context.Context, sessionID string) ([]byte, error)
	// Save replaces the record for sessionID. A ttl <= 0 means the record
	// does not expire.
	Save(ctx context.Context, sessionID string, data []byte, ttl time.Duration) error
	// Destroy removes the record for sessionID. Destroying an unknown
	// session is not an error.
	Destroy(ctx context.Context, sessionID string) error
}

// Signer protects session identifiers carried in cookies. Verify returns the
// original payload together with the key id that produced the signature.
type Signer interface {
	Sign(payload []byte) (string, error)
	Verify(token string) (payload []byte, kid string, err error)
}
