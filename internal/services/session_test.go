package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemorySessionStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemorySessionStore()
	store.Now = func() time.Time { return now }

	s := Session{ID: "s1", UserID: 7, Role: "user", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Get(ctx, "s1")
	if err != nil || got.UserID != 7 {
		t.Fatalf("get: %+v %v", got, err)
	}

	now = now.Add(2 * time.Hour)
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expired session still returned: %v", err)
	}

	_ = store.Save(ctx, Session{ID: "s2", ExpiresAt: now.Add(time.Hour)})
	_ = store.Delete(ctx, "s2")
	if _, err := store.Get(ctx, "s2"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("deleted session still returned: %v", err)
	}
}

func TestTokenIssuerRoundTrip(t *testing.T) {
	issuer := TokenIssuer{Secret: []byte("test-secret")}
	now := time.Now()
	tok, err := issuer.Issue(Session{ID: "abc", UserID: 1, Role: "admin", CreatedAt: now, ExpiresAt: now.Add(time.Hour)})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	sid, err := issuer.Parse(tok)
	if err != nil || sid != "abc" {
		t.Fatalf("parse: sid=%q err=%v", sid, err)
	}

	other := TokenIssuer{Secret: []byte("other")}
	if _, err := other.Parse(tok); err == nil {
		t.Fatalf("token accepted with wrong secret")
	}

	expired, _ := issuer.Issue(Session{ID: "old", CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)})
	if _, err := issuer.Parse(expired); err == nil {
		t.Fatalf("expired token accepted")
	}
}

func TestSessionIsAdmin(t *testing.T) {
	if !(Session{Role: "admin"}).IsAdmin() || (Session{Role: "user"}).IsAdmin() {
		t.Fatalf("IsAdmin mismatch")
	}
}
