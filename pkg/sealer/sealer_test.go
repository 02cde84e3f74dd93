package sealer

import (
	"crypto/rand"
	"encoding/base64"
	"testing"
	"time"
)

func newTestSealer(t *testing.T) *Sealer {
	t.Helper()
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatal(err)
	}
	s, err := New(base64.StdEncoding.EncodeToString(key))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSealOpenRoundTrip(t *testing.T) {
	s := newTestSealer(t)
	expiry := time.Now().Add(time.Hour).Truncate(time.Second)

	token, err := s.SealSession("665f1a2b3c4d5e6f70818283", expiry)
	if err != nil {
		t.Fatal(err)
	}

	userID, expiresAt, err := s.OpenSession(token)
	if err != nil {
		t.Fatal(err)
	}
	if userID != "665f1a2b3c4d5e6f70818283" {
		t.Errorf("user ID = %q", userID)
	}
	if !expiresAt.Equal(expiry) {
		t.Errorf("expiry = %v, want %v", expiresAt, expiry)
	}
}

func TestOpenRejectsGarbage(t *testing.T) {
	s := newTestSealer(t)

	for _, token := range []string{"", "notatoken", "YWJjZGVm"} {
		if _, _, err := s.OpenSession(token); err == nil {
			t.Errorf("expected error for token %q", token)
		}
	}
}

func TestOpenRejectsForeignKey(t *testing.T) {
	a := newTestSealer(t)
	b := newTestSealer(t)

	token, err := a.SealSession("665f1a2b3c4d5e6f70818283", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := b.OpenSession(token); err == nil {
		t.Error("token sealed with one key must not open with another")
	}
}

func TestNewRejectsBadKeys(t *testing.T) {
	if _, err := New("not-base64!!"); err == nil {
		t.Error("expected error for non-base64 key")
	}
	if _, err := New(base64.StdEncoding.EncodeToString([]byte("short"))); err == nil {
		t.Error("expected error for short key")
	}
}
