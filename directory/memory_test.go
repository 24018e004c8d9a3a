package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/mercato/shopauth"
)

func TestMemorySaveAndLookups(t *testing.T) {
	ctx := context.Background()
	dir := NewMemory()

	user := &shopauth.User{
		ID:                "u-1",
		Email:             "alice@example.com",
		PasswordHash:      "hash",
		VerificationToken: "tok-1",
	}
	if err := dir.Save(ctx, user); err != nil {
		t.Fatalf("Save: %v", err)
	}

	byEmail, err := dir.FindByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if byEmail.ID != "u-1" {
		t.Fatalf("unexpected user: %+v", byEmail)
	}

	byID, err := dir.FindByID(ctx, "u-1")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if byID.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", byID)
	}

	byToken, err := dir.FindByVerificationToken(ctx, "tok-1")
	if err != nil {
		t.Fatalf("FindByVerificationToken: %v", err)
	}
	if byToken.ID != "u-1" {
		t.Fatalf("unexpected user: %+v", byToken)
	}
}

func TestMemoryUnknownLookups(t *testing.T) {
	ctx := context.Background()
	dir := NewMemory()

	if _, err := dir.FindByEmail(ctx, "nobody@example.com"); !errors.Is(err, shopauth.ErrUserNotFound) {
		t.Fatalf("FindByEmail err = %v, want ErrUserNotFound", err)
	}
	if _, err := dir.FindByID(ctx, "missing"); !errors.Is(err, shopauth.ErrUserNotFound) {
		t.Fatalf("FindByID err = %v, want ErrUserNotFound", err)
	}
	if _, err := dir.FindByVerificationToken(ctx, ""); !errors.Is(err, shopauth.ErrUserNotFound) {
		t.Fatalf("empty token err = %v, want ErrUserNotFound", err)
	}
	if err := dir.Delete(ctx, "missing"); !errors.Is(err, shopauth.ErrUserNotFound) {
		t.Fatalf("Delete err = %v, want ErrUserNotFound", err)
	}
}

func TestMemoryDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	dir := NewMemory()

	if err := dir.Save(ctx, &shopauth.User{ID: "u-1", Email: "dup@example.com"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	err := dir.Save(ctx, &shopauth.User{ID: "u-2", Email: "dup@example.com"})
	if !errors.Is(err, shopauth.ErrEmailExists) {
		t.Fatalf("Save err = %v, want ErrEmailExists", err)
	}

	// Re-saving the same record keeps its own email.
	if err := dir.Save(ctx, &shopauth.User{ID: "u-1", Email: "dup@example.com"}); err != nil {
		t.Fatalf("re-Save: %v", err)
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	dir := NewMemory()

	if err := dir.Save(ctx, &shopauth.User{ID: "u-1", Email: "a@example.com", PasswordHistory: []string{"h1"}}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := dir.FindByID(ctx, "u-1")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	got.Email = "mutated@example.com"
	got.PasswordHistory[0] = "mutated"

	again, err := dir.FindByID(ctx, "u-1")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if again.Email != "a@example.com" || again.PasswordHistory[0] != "h1" {
		t.Fatalf("stored record was mutated through a returned copy: %+v", again)
	}
}

func TestMemoryListFilters(t *testing.T) {
	ctx := context.Background()
	dir := NewMemory()

	seed := []*shopauth.User{
		{ID: "u-1", Email: "a@example.com", Admin: true},
		{ID: "u-2", Email: "b@example.com"},
		{ID: "u-3", Email: "c@example.com"},
	}
	for _, u := range seed {
		if err := dir.Save(ctx, u); err != nil {
			t.Fatalf("Save %s: %v", u.ID, err)
		}
	}

	all, err := dir.List(ctx, shopauth.ListAll)
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List all returned %d users, want 3", len(all))
	}

	admins, err := dir.List(ctx, shopauth.ListAdmins)
	if err != nil {
		t.Fatalf("List admins: %v", err)
	}
	if len(admins) != 1 || admins[0].ID != "u-1" {
		t.Fatalf("List admins = %+v, want only u-1", admins)
	}

	customers, err := dir.List(ctx, shopauth.ListCustomers)
	if err != nil {
		t.Fatalf("List customers: %v", err)
	}
	if len(customers) != 2 {
		t.Fatalf("List customers returned %d users, want 2", len(customers))
	}
}
