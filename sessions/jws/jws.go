// Package jws signs session cookie values as compact JWS tokens using
// Ed25519 keys. Several keys may be registered under distinct key ids; one is
// active for signing while the rest stay valid for verification, which allows
// rotating keys without logging users out.
//
// Each token carries the name of the cookie it was issued for and its issue
// time in protected headers. Verify rejects a token presented under another
// cookie name, and optionally one older than a maximum age.
package jws

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ggoodman/flash-go/sessions"
	jose "github.com/go-jose/go-jose/v4"
)

const tokenType = "flash-session+jws"

const (
	headerCookie   jose.HeaderKey = "cookie"
	headerIssuedAt jose.HeaderKey = "iat"
)

var (
	ErrUnknownKey   = errors.New("jws: unknown key id")
	ErrWrongCookie  = errors.New("jws: token issued for another cookie")
	ErrTokenExpired = errors.New("jws: token expired")
)

// Option configures a Signer.
type Option func(*Signer)

// ForCookie binds tokens to the named cookie. Default: sessions.DefaultCookieName.
func ForCookie(name string) Option {
	return func(s *Signer) { s.cookie = name }
}

// WithMaxAge rejects tokens issued more than d ago. The Manager re-signs the
// cookie on every response, so this bounds idle time. Zero disables the check.
func WithMaxAge(d time.Duration) Option {
	return func(s *Signer) { s.maxAge = d }
}

func withClock(now func() time.Time) Option {
	return func(s *Signer) { s.now = now }
}

// Signer implements sessions.Signer using an in-memory set of Ed25519 keys
// with a designated active key for signing.
type Signer struct {
	cookie string
	maxAge time.Duration
	now    func() time.Time

	mu     sync.RWMutex
	active string
	keys   map[string]ed25519.PrivateKey
}

var _ sessions.Signer = (*Signer)(nil)

// New returns a Signer with no keys. Register one with AddEd25519Key and
// select it with SetActive before signing.
func New(opts ...Option) *Signer {
	s := &Signer{
		cookie: sessions.DefaultCookieName,
		now:    time.Now,
		keys:   make(map[string]ed25519.PrivateKey),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewWithGeneratedKey returns a Signer holding a freshly generated key that
// is already active. Tokens it signs do not survive a process restart.
func NewWithGeneratedKey(kid string, opts ...Option) (*Signer, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate ed25519 key: %w", err)
	}
	s := New(opts...)
	s.AddEd25519Key(kid, priv)
	if err := s.SetActive(kid); err != nil {
		return nil, err
	}
	return s, nil
}

// AddEd25519Key registers a key under kid. The active key is unchanged.
func (s *Signer) AddEd25519Key(kid string, priv ed25519.PrivateKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[kid] = priv
}

// SetActive selects the key used for signing.
func (s *Signer) SetActive(kid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.keys[kid]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, kid)
	}
	s.active = kid
	return nil
}

func (s *Signer) ActiveKID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Sign wraps a session id in a compact JWS bound to the signer's cookie.
func (s *Signer) Sign(sessionID []byte) (string, error) {
	s.mu.RLock()
	kid, priv := s.active, s.keys[s.active]
	s.mu.RUnlock()
	if priv == nil {
		return "", fmt.Errorf("sign session cookie: no active key")
	}

	opts := (&jose.SignerOptions{}).
		WithType(tokenType).
		WithHeader(jose.HeaderKey("kid"), kid).
		WithHeader(headerCookie, s.cookie).
		WithHeader(headerIssuedAt, s.now().Unix())
	js, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.EdDSA, Key: priv}, opts)
	if err != nil {
		return "", fmt.Errorf("sign session cookie: %w", err)
	}
	obj, err := js.Sign(sessionID)
	if err != nil {
		return "", fmt.Errorf("sign session cookie: %w", err)
	}
	return obj.CompactSerialize()
}

// Verify checks the token's signature, then that it was issued for this
// signer's cookie and, with WithMaxAge, that it is recent enough. The key id
// is returned whenever it could be read, for logging.
func (s *Signer) Verify(token string) ([]byte, string, error) {
	obj, err := jose.ParseSigned(token, []jose.SignatureAlgorithm{jose.EdDSA})
	if err != nil {
		return nil, "", fmt.Errorf("parse session cookie: %w", err)
	}
	if len(obj.Signatures) != 1 {
		return nil, "", fmt.Errorf("parse session cookie: %d signatures", len(obj.Signatures))
	}
	h := obj.Signatures[0].Protected

	s.mu.RLock()
	priv, ok := s.keys[h.KeyID]
	s.mu.RUnlock()
	if !ok {
		return nil, h.KeyID, fmt.Errorf("%w: %s", ErrUnknownKey, h.KeyID)
	}
	sessionID, err := obj.Verify(priv.Public())
	if err != nil {
		return nil, h.KeyID, fmt.Errorf("verify session cookie: %w", err)
	}

	// Headers are only trusted once the signature over them checks out.
	if err := s.checkHeaders(h); err != nil {
		return nil, h.KeyID, err
	}
	return sessionID, h.KeyID, nil
}

func (s *Signer) checkHeaders(h jose.Header) error {
	if typ, _ := h.ExtraHeaders[jose.HeaderType].(string); typ != tokenType {
		return fmt.Errorf("verify session cookie: unexpected typ %q", typ)
	}
	if cookie, _ := h.ExtraHeaders[headerCookie].(string); cookie != s.cookie {
		return fmt.Errorf("%w: %q", ErrWrongCookie, cookie)
	}
	if s.maxAge <= 0 {
		return nil
	}
	iat, ok := h.ExtraHeaders[headerIssuedAt].(float64)
	if !ok {
		return fmt.Errorf("%w: missing iat", ErrTokenExpired)
	}
	if issued := time.Unix(int64(iat), 0); s.now().Sub(issued) > s.maxAge {
		return fmt.Errorf("%w: issued %s", ErrTokenExpired, issued.UTC().Format(time.RFC3339))
	}
	return nil
}
