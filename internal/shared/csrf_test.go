package shared

import (
	"context"
	"errors"
	"testing"
)

func TestEnsureTokenIsStable(t *testing.T) {
	m := NewCSRFManager("csrfsecret")
	sess := &Session{ID: "abc", values: map[string]string{}}

	first, err := m.EnsureToken(context.Background(), sess)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	second, err := m.EnsureToken(context.Background(), sess)
	if err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	if first == "" || first != second {
		t.Fatalf("token must be stable per session: %q vs %q", first, second)
	}
}

func TestVerifyToken(t *testing.T) {
	m := NewCSRFManager("csrfsecret")
	sess := &Session{ID: "abc", values: map[string]string{}}
	token, err := m.EnsureToken(context.Background(), sess)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}

	if err := m.VerifyToken(context.Background(), sess, token); err != nil {
		t.Fatalf("valid token rejected: %v", err)
	}
	if err := m.VerifyToken(context.Background(), sess, "forged"); !errors.Is(err, ErrCSRFTokenMismatch) {
		t.Fatalf("expected mismatch, got %v", err)
	}
	if err := m.VerifyToken(context.Background(), sess, ""); !errors.Is(err, ErrCSRFTokenMissing) {
		t.Fatalf("expected missing, got %v", err)
	}
	if err := m.VerifyToken(context.Background(), nil, token); !errors.Is(err, ErrCSRFTokenMissing) {
		t.Fatalf("expected missing for nil session, got %v", err)
	}
}
