package jws

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"strings"
	"testing"
	"time"

	jose "github.com/go-jose/go-jose/v4"
)

func mustKey(t *testing.T) ed25519.PrivateKey {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return priv
}

func TestSignVerifyRoundTrip(t *testing.T) {
	s, err := NewWithGeneratedKey("k1")
	if err != nil {
		t.Fatalf("NewWithGeneratedKey: %v", err)
	}

	token, err := s.Sign([]byte("session-id"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	payload, kid, err := s.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if string(payload) != "session-id" {
		t.Fatalf("expected payload session-id, got %q", payload)
	}
	if kid != "k1" {
		t.Fatalf("expected kid k1, got %q", kid)
	}
}

func TestSignWithoutActiveKey(t *testing.T) {
	s := New()
	if _, err := s.Sign([]byte("x")); err == nil {
		t.Fatal("expected error without active key")
	}
	if err := s.SetActive("missing"); !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
}

func TestRotationKeepsOldTokensValid(t *testing.T) {
	s := New()
	s.AddEd25519Key("old", mustKey(t))
	s.AddEd25519Key("new", mustKey(t))
	if err := s.SetActive("old"); err != nil {
		t.Fatalf("activate old: %v", err)
	}
	oldToken, err := s.Sign([]byte("a"))
	if err != nil {
		t.Fatalf("sign old: %v", err)
	}

	if err := s.SetActive("new"); err != nil {
		t.Fatalf("activate new: %v", err)
	}
	if s.ActiveKID() != "new" {
		t.Fatalf("expected active kid new, got %q", s.ActiveKID())
	}
	newToken, err := s.Sign([]byte("b"))
	if err != nil {
		t.Fatalf("sign new: %v", err)
	}

	if _, kid, err := s.Verify(oldToken); err != nil || kid != "old" {
		t.Fatalf("old token: kid=%q err=%v", kid, err)
	}
	if _, kid, err := s.Verify(newToken); err != nil || kid != "new" {
		t.Fatalf("new token: kid=%q err=%v", kid, err)
	}
}

func TestVerifyRejectsForeignAndTamperedTokens(t *testing.T) {
	a, err := NewWithGeneratedKey("k1")
	if err != nil {
		t.Fatalf("signer a: %v", err)
	}
	b, err := NewWithGeneratedKey("k1")
	if err != nil {
		t.Fatalf("signer b: %v", err)
	}

	token, err := a.Sign([]byte("session-id"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, _, err := b.Verify(token); err == nil {
		t.Fatal("expected verification failure for token signed by another key")
	}

	parts := strings.Split(token, ".")
	parts[1] = "c2Vzc2lvbi1pZDI" // base64url("session-id2")
	if _, _, err := a.Verify(strings.Join(parts, ".")); err == nil {
		t.Fatal("expected verification failure for tampered payload")
	}

	if _, _, err := a.Verify("not-a-jws"); err == nil {
		t.Fatal("expected parse failure")
	}
}

func TestVerifyRejectsTokenForAnotherCookie(t *testing.T) {
	priv := mustKey(t)
	admin := New(ForCookie("admin_session"))
	admin.AddEd25519Key("k1", priv)
	if err := admin.SetActive("k1"); err != nil {
		t.Fatalf("activate: %v", err)
	}
	app := New()
	app.AddEd25519Key("k1", priv)

	token, err := admin.Sign([]byte("session-id"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, _, err := admin.Verify(token); err != nil {
		t.Fatalf("verify under issuing cookie: %v", err)
	}
	_, kid, err := app.Verify(token)
	if !errors.Is(err, ErrWrongCookie) {
		t.Fatalf("expected ErrWrongCookie, got %v", err)
	}
	if kid != "k1" {
		t.Fatalf("expected kid reported for logging, got %q", kid)
	}
}

func TestVerifyRejectsUntypedToken(t *testing.T) {
	priv := mustKey(t)
	s := New()
	s.AddEd25519Key("k1", priv)

	js, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.EdDSA, Key: priv},
		(&jose.SignerOptions{}).WithHeader(jose.HeaderKey("kid"), "k1"))
	if err != nil {
		t.Fatalf("signer: %v", err)
	}
	obj, err := js.Sign([]byte("session-id"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	token, err := obj.CompactSerialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if _, _, err := s.Verify(token); err == nil {
		t.Fatal("expected rejection of a token without the session typ and cookie headers")
	}
}

func TestMaxAge(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	s, err := NewWithGeneratedKey("k1", WithMaxAge(time.Hour), withClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("NewWithGeneratedKey: %v", err)
	}
	token, err := s.Sign([]byte("session-id"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	now = now.Add(59 * time.Minute)
	if _, _, err := s.Verify(token); err != nil {
		t.Fatalf("expected token within max age to verify: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, _, err := s.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}
