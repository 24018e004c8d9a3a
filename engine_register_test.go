package shopauth

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRegisterSuccess(t *testing.T) {
	dir := newMockDirectory()
	mail := &captureMailer{}
	engine, _ := newEngineWithRedis(t, engineTestConfig(), dir, mail)

	res, err := engine.Register(context.Background(), RegisterInput{
		Name:     "Alice Smith",
		Email:    "alice@example.com",
		Password: "Horse#429x",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if res.UserID == "" {
		t.Fatal("expected created user id")
	}
	if res.Email != "alice@example.com" {
		t.Fatalf("unexpected email %q", res.Email)
	}

	stored := dir.get(res.UserID)
	if stored == nil {
		t.Fatal("expected user persisted")
	}
	if stored.PasswordHash == "" || stored.PasswordHash == "Horse#429x" {
		t.Fatal("expected stored password to be hashed")
	}
	ok, err := engine.hasher.Verify("Horse#429x", stored.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("expected stored hash to verify, ok=%v err=%v", ok, err)
	}
	if len(stored.PasswordHistory) != 1 || stored.PasswordHistory[0] != stored.PasswordHash {
		t.Fatalf("expected history seeded with current hash, got %v", stored.PasswordHistory)
	}
	if stored.Verified {
		t.Fatal("expected new account to start unverified")
	}
	if len(stored.VerificationToken) != 40 {
		t.Fatalf("expected 40-char verification token, got %q", stored.VerificationToken)
	}
}

func TestRegisterStoresEncryptedName(t *testing.T) {
	dir := newMockDirectory()
	engine, _ := newEngineWithRedis(t, engineTestConfig(), dir, nil)

	res, err := engine.Register(context.Background(), RegisterInput{
		Name:     "Alice Smith",
		Email:    "alice@example.com",
		Password: "Horse#429x",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	stored := dir.get(res.UserID)
	if stored.Name == "Alice Smith" || stored.Name == "" {
		t.Fatalf("expected ciphertext name, got %q", stored.Name)
	}
	if stored.NameIV == "" {
		t.Fatal("expected per-record IV")
	}

	plain, err := engine.decryptedName(stored)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if plain != "Alice Smith" {
		t.Fatalf("decrypted name = %q, want Alice Smith", plain)
	}
}

func TestRegisterFreshIVPerRecord(t *testing.T) {
	dir := newMockDirectory()
	engine, _ := newEngineWithRedis(t, engineTestConfig(), dir, nil)

	ctx := context.Background()
	a, err := engine.Register(ctx, RegisterInput{Name: "Same Name", Email: "a@example.com", Password: "Horse#429x"})
	if err != nil {
		t.Fatalf("Register a: %v", err)
	}
	b, err := engine.Register(ctx, RegisterInput{Name: "Same Name", Email: "b@example.com", Password: "Horse#429x"})
	if err != nil {
		t.Fatalf("Register b: %v", err)
	}

	ua, ub := dir.get(a.UserID), dir.get(b.UserID)
	if ua.NameIV == ub.NameIV {
		t.Fatal("expected distinct IVs for identical plaintext names")
	}
	if ua.Name == ub.Name {
		t.Fatal("expected distinct ciphertexts for identical plaintext names")
	}
}

func TestRegisterSendsVerificationMail(t *testing.T) {
	dir := newMockDirectory()
	mail := &captureMailer{}
	engine, _ := newEngineWithRedis(t, engineTestConfig(), dir, mail)

	res, err := engine.Register(context.Background(), RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "Horse#429x",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	sent := mail.last(t)
	if sent.To != "alice@example.com" {
		t.Fatalf("mail sent to %q", sent.To)
	}
	token := dir.get(res.UserID).VerificationToken
	if !strings.Contains(sent.TextBody, token) {
		t.Fatalf("expected verification token in mail body:\n%s", sent.TextBody)
	}
}

func TestRegisterDuplicateEmailRejected(t *testing.T) {
	dir := newMockDirectory()
	engine, _ := newEngineWithRedis(t, engineTestConfig(), dir, nil)

	ctx := context.Background()
	registerTestUser(t, engine, "Alice", "alice@example.com", "Horse#429x")

	_, err := engine.Register(ctx, RegisterInput{
		Name:     "Mallory",
		Email:    "alice@example.com",
		Password: "Other#429x",
	})
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestRegisterPolicyRejected(t *testing.T) {
	dir := newMockDirectory()
	engine, _ := newEngineWithRedis(t, engineTestConfig(), dir, nil)

	for _, weak := range []string{
		"short1!",        // too short
		"nouppercase1!x", // too long anyway, no upper
		"NoDigits!!",
		"NoSymbol11",
		"Has space1!",
	} {
		_, err := engine.Register(context.Background(), RegisterInput{
			Name:     "Alice",
			Email:    "alice@example.com",
			Password: weak,
		})
		if !errors.Is(err, ErrPasswordPolicy) {
			t.Fatalf("password %q: expected ErrPasswordPolicy, got %v", weak, err)
		}
	}

	if dir.saveCalls != 0 {
		t.Fatalf("expected no save on policy rejection, got %d", dir.saveCalls)
	}
}

func TestRegisterMailerFailureKeepsAccount(t *testing.T) {
	dir := newMockDirectory()
	mail := &captureMailer{err: errBackendDown}
	engine, _ := newEngineWithRedis(t, engineTestConfig(), dir, mail)

	_, err := engine.Register(context.Background(), RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "Horse#429x",
	})
	if !errors.Is(err, ErrMailerUnavailable) {
		t.Fatalf("expected ErrMailerUnavailable, got %v", err)
	}

	// The record is persisted before mail delivery.
	if _, err := dir.FindByEmail(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("expected account persisted despite mail failure: %v", err)
	}
}
