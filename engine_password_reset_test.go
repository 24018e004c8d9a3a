package shopauth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestPasswordResetRoundTrip(t *testing.T) {
	dir := newMockDirectory()
	mail := &captureMailer{}
	engine, _ := newEngineWithRedis(t, engineTestConfig(), dir, mail)

	ctx := context.Background()
	registerTestUser(t, engine, "Alice", "alice@example.com", "Horse#429x")

	resetToken, err := engine.RequestPasswordReset(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}
	if resetToken == "" {
		t.Fatal("expected reset token")
	}
	if sent := mail.last(t); !strings.Contains(sent.TextBody, resetToken) {
		t.Fatalf("expected reset token in mail body:\n%s", sent.TextBody)
	}

	if err := engine.ConfirmPasswordReset(ctx, resetToken, "Other#531y"); err != nil {
		t.Fatalf("ConfirmPasswordReset failed: %v", err)
	}

	if _, err := engine.Login(ctx, "alice@example.com", "Horse#429x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := engine.Login(ctx, "alice@example.com", "Other#531y"); err != nil {
		t.Fatalf("new password login failed: %v", err)
	}
}

func TestPasswordResetUnknownEmail(t *testing.T) {
	dir := newMockDirectory()
	engine, _ := newEngineWithRedis(t, engineTestConfig(), dir, nil)

	_, err := engine.RequestPasswordReset(context.Background(), "nobody@example.com")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestPasswordResetTokenSingleUse(t *testing.T) {
	dir := newMockDirectory()
	engine, _ := newEngineWithRedis(t, engineTestConfig(), dir, nil)

	ctx := context.Background()
	registerTestUser(t, engine, "Alice", "alice@example.com", "Horse#429x")

	resetToken, err := engine.RequestPasswordReset(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}

	if err := engine.ConfirmPasswordReset(ctx, resetToken, "Other#531y"); err != nil {
		t.Fatalf("first confirm failed: %v", err)
	}

	err = engine.ConfirmPasswordReset(ctx, resetToken, "Third#642z")
	if !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid on replay, got %v", err)
	}

	// The replay must not have changed the password.
	if _, err := engine.Login(ctx, "alice@example.com", "Other#531y"); err != nil {
		t.Fatalf("login after replay attempt failed: %v", err)
	}
}

func TestPasswordResetRejectedPasswordKeepsTokenAlive(t *testing.T) {
	dir := newMockDirectory()
	engine, _ := newEngineWithRedis(t, engineTestConfig(), dir, nil)

	ctx := context.Background()
	registerTestUser(t, engine, "Alice", "alice@example.com", "Horse#429x")

	resetToken, err := engine.RequestPasswordReset(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}

	if err := engine.ConfirmPasswordReset(ctx, resetToken, "weak"); !errors.Is(err, ErrPasswordPolicy) {
		t.Fatalf("expected ErrPasswordPolicy, got %v", err)
	}
	if err := engine.ConfirmPasswordReset(ctx, resetToken, "Horse#429x"); !errors.Is(err, ErrPasswordReuse) {
		t.Fatalf("expected ErrPasswordReuse, got %v", err)
	}

	// A rejected replacement does not redeem the token.
	if err := engine.ConfirmPasswordReset(ctx, resetToken, "Other#531y"); err != nil {
		t.Fatalf("confirm after rejections failed: %v", err)
	}
}

func TestPasswordResetExpiredTokenRejected(t *testing.T) {
	cfg := engineTestConfig()
	cfg.Token.ResetTTL = time.Millisecond

	dir := newMockDirectory()
	engine, _ := newEngineWithRedis(t, cfg, dir, nil)

	ctx := context.Background()
	registerTestUser(t, engine, "Alice", "alice@example.com", "Horse#429x")

	resetToken, err := engine.RequestPasswordReset(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	if err := engine.ConfirmPasswordReset(ctx, resetToken, "Other#531y"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid for expired token, got %v", err)
	}
}

func TestPasswordResetGarbageTokenRejected(t *testing.T) {
	dir := newMockDirectory()
	engine, _ := newEngineWithRedis(t, engineTestConfig(), dir, nil)

	err := engine.ConfirmPasswordReset(context.Background(), "not-a-token", "Other#531y")
	if !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid, got %v", err)
	}
}

func TestSessionTokenNotAcceptedForReset(t *testing.T) {
	dir := newMockDirectory()
	engine, _ := newEngineWithRedis(t, engineTestConfig(), dir, nil)

	ctx := context.Background()
	registerTestUser(t, engine, "Alice", "alice@example.com", "Horse#429x")

	login, err := engine.Login(ctx, "alice@example.com", "Horse#429x")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	err = engine.ConfirmPasswordReset(ctx, login.SessionToken, "Other#531y")
	if !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid for session token, got %v", err)
	}
}
