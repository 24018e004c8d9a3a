package shopauth

import (
	"context"
	"errors"
	"testing"
)

func TestVerifyEmailSuccess(t *testing.T) {
	dir := newMockDirectory()
	engine, _ := newEngineWithRedis(t, engineTestConfig(), dir, nil)

	ctx := context.Background()
	uid := registerTestUser(t, engine, "Alice", "alice@example.com", "Horse#429x")

	token := dir.get(uid).VerificationToken
	if err := engine.VerifyEmail(ctx, token); err != nil {
		t.Fatalf("VerifyEmail failed: %v", err)
	}

	stored := dir.get(uid)
	if !stored.Verified {
		t.Fatal("expected account verified")
	}
	if stored.VerificationToken != "" {
		t.Fatal("expected verification token cleared")
	}
}

func TestVerifyEmailReplayRejected(t *testing.T) {
	dir := newMockDirectory()
	engine, _ := newEngineWithRedis(t, engineTestConfig(), dir, nil)

	ctx := context.Background()
	uid := registerTestUser(t, engine, "Alice", "alice@example.com", "Horse#429x")

	token := dir.get(uid).VerificationToken
	if err := engine.VerifyEmail(ctx, token); err != nil {
		t.Fatalf("VerifyEmail failed: %v", err)
	}

	if err := engine.VerifyEmail(ctx, token); !errors.Is(err, ErrVerificationInvalid) {
		t.Fatalf("expected ErrVerificationInvalid on replay, got %v", err)
	}
}

func TestVerifyEmailUnknownToken(t *testing.T) {
	dir := newMockDirectory()
	engine, _ := newEngineWithRedis(t, engineTestConfig(), dir, nil)

	for _, token := range []string{"", "deadbeef", "0000000000000000000000000000000000000000"} {
		if err := engine.VerifyEmail(context.Background(), token); !errors.Is(err, ErrVerificationInvalid) {
			t.Fatalf("token %q: expected ErrVerificationInvalid, got %v", token, err)
		}
	}
}
