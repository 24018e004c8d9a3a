package directory

import (
	"context"
	"sync"

	"github.com/mercato/shopauth"
)

// Memory defines a public type used by shopauth APIs.
//
// Memory instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Memory struct {
	mu    sync.RWMutex
	users map[string]*shopauth.User
}

// NewMemory describes the newmemory operation and its observable behavior.
//
// NewMemory may return an error when input validation, dependency calls, or security checks fail.
// NewMemory does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMemory() *Memory {
	return &Memory{
		users: make(map[string]*shopauth.User),
	}
}

// FindByEmail describes the findbyemail operation and its observable behavior.
//
// FindByEmail may return an error when input validation, dependency calls, or security checks fail.
// FindByEmail does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Memory) FindByEmail(_ context.Context, email string) (*shopauth.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.Email == email {
			return copyUser(user), nil
		}
	}
	return nil, shopauth.ErrUserNotFound
}

// FindByID describes the findbyid operation and its observable behavior.
//
// FindByID may return an error when input validation, dependency calls, or security checks fail.
// FindByID does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Memory) FindByID(_ context.Context, id string) (*shopauth.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, shopauth.ErrUserNotFound
	}
	return copyUser(user), nil
}

// FindByVerificationToken describes the findbyverificationtoken operation and its observable behavior.
//
// FindByVerificationToken may return an error when input validation, dependency calls, or security checks fail.
// FindByVerificationToken does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Memory) FindByVerificationToken(_ context.Context, verificationToken string) (*shopauth.User, error) {
	if verificationToken == "" {
		return nil, shopauth.ErrUserNotFound
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.VerificationToken == verificationToken {
			return copyUser(user), nil
		}
	}
	return nil, shopauth.ErrUserNotFound
}

// Save describes the save operation and its observable behavior.
//
// Save may return an error when input validation, dependency calls, or security checks fail.
// Save does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Memory) Save(_ context.Context, user *shopauth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, existing := range m.users {
		if id != user.ID && existing.Email == user.Email {
			return shopauth.ErrEmailExists
		}
	}

	m.users[user.ID] = copyUser(user)
	return nil
}

// Delete describes the delete operation and its observable behavior.
//
// Delete may return an error when input validation, dependency calls, or security checks fail.
// Delete does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return shopauth.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

// List describes the list operation and its observable behavior.
//
// List may return an error when input validation, dependency calls, or security checks fail.
// List does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Memory) List(_ context.Context, filter shopauth.ListFilter) ([]*shopauth.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*shopauth.User, 0, len(m.users))
	for _, user := range m.users {
		switch filter {
		case shopauth.ListAdmins:
			if !user.Admin {
				continue
			}
		case shopauth.ListCustomers:
			if user.Admin {
				continue
			}
		}
		out = append(out, copyUser(user))
	}
	return out, nil
}

func copyUser(user *shopauth.User) *shopauth.User {
	dup := *user
	dup.PasswordHistory = append([]string(nil), user.PasswordHistory...)
	return &dup
}
