package shopauth

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type mockDirectory struct {
	mu    sync.Mutex
	users map[string]*User

	saveErr error

	saveCalls   int
	deleteCalls int
}

func newMockDirectory() *mockDirectory {
	return &mockDirectory{users: map[string]*User{}}
}

func (m *mockDirectory) FindByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			return cloneTestUser(u), nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *mockDirectory) FindByID(_ context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return cloneTestUser(u), nil
}

func (m *mockDirectory) FindByVerificationToken(_ context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrUserNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.VerificationToken == token {
			return cloneTestUser(u), nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *mockDirectory) Save(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}

	for id, existing := range m.users {
		if id != user.ID && existing.Email == user.Email {
			return ErrEmailExists
		}
	}
	m.users[user.ID] = cloneTestUser(user)
	return nil
}

func (m *mockDirectory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.deleteCalls++
	if _, ok := m.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockDirectory) List(_ context.Context, filter ListFilter) ([]*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*User, 0, len(m.users))
	for _, u := range m.users {
		switch filter {
		case ListAdmins:
			if !u.Admin {
				continue
			}
		case ListCustomers:
			if u.Admin {
				continue
			}
		}
		out = append(out, cloneTestUser(u))
	}
	return out, nil
}

func (m *mockDirectory) get(id string) *User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneTestUser(m.users[id])
}

func cloneTestUser(u *User) *User {
	if u == nil {
		return nil
	}
	dup := *u
	dup.PasswordHistory = append([]string(nil), u.PasswordHistory...)
	return &dup
}

type sentMail struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

type captureMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (c *captureMailer) Send(_ context.Context, to, subject, textBody, htmlBody string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, sentMail{To: to, Subject: subject, TextBody: textBody, HTMLBody: htmlBody})
	return nil
}

func (c *captureMailer) last(t *testing.T) sentMail {
	t.Helper()

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.sent) == 0 {
		t.Fatal("expected at least one sent mail")
	}
	return c.sent[len(c.sent)-1]
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client
}

func engineTestConfig() Config {
	cfg := defaultConfig()
	cfg.Token.SigningMethod = "hs256"
	cfg.Token.PrivateKey = []byte("0123456789abcdef0123456789abcdef")
	cfg.NameCipher.Key = []byte("0123456789abcdef0123456789abcdef")
	// Minimum bcrypt cost keeps the suite fast.
	cfg.Password.Cost = 4
	return cfg
}

func newEngineWithRedis(t *testing.T, cfg Config, dir UserDirectory, mail Mailer) (*Engine, *miniredis.Miniredis) {
	t.Helper()

	mr, rdb := newTestRedis(t)
	t.Cleanup(mr.Close)

	builder := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithDirectory(dir)
	if mail != nil {
		builder = builder.WithMailer(mail)
	}

	engine, err := builder.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine, mr
}

func registerTestUser(t *testing.T, engine *Engine, name, email, plainPassword string) string {
	t.Helper()

	res, err := engine.Register(context.Background(), RegisterInput{
		Name:     name,
		Email:    email,
		Password: plainPassword,
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return res.UserID
}

var errBackendDown = errors.New("backend down")
