package shopauth

import (
	"context"
	"time"
)

// ListFilter selects which accounts [Engine.AdminListUsers] returns.
type ListFilter int

const (
	// ListAll is an exported constant or variable used by the account engine.
	ListAll ListFilter = iota
	// ListAdmins is an exported constant or variable used by the account engine.
	ListAdmins
	// ListCustomers is an exported constant or variable used by the account engine.
	ListCustomers
)

// User is the full account record exchanged with [UserDirectory].
// Name and NameIV hold the hex-encoded AES-CTR ciphertext of the display
// name and the IV that produced it; Email is stored in the clear.
type User struct {
	ID                  string
	Name                string
	NameIV              string
	Email               string
	PasswordHash        string
	PasswordHistory     []string
	FailedLoginAttempts int
	Locked              bool
	LastPasswordChange  time.Time
	Admin               bool
	Verified            bool
	VerificationToken   string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// UserDirectory is the persistence interface callers must implement to
// integrate shopauth with their user database. Implementations must
// enforce email uniqueness at the storage layer and surface violations
// from Save as [ErrEmailExists]. Lookups that match no record return
// [ErrUserNotFound].
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	FindByVerificationToken(ctx context.Context, token string) (*User, error)
	Save(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]*User, error)
}

// Mailer delivers outbound account email. Implementations should return
// an error when delivery to the transport fails; the engine maps it to
// [ErrMailerUnavailable].
type Mailer interface {
	Send(ctx context.Context, to, subject, textBody, htmlBody string) error
}

// RegisterInput is the input for [Engine.Register].
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// RegisterResult is returned by [Engine.Register].
type RegisterResult struct {
	UserID string
	Email  string
}

// LoginResult is returned by [Engine.Login]. SessionToken is intended to
// be delivered as an HTTP-only cookie by the HTTP layer.
type LoginResult struct {
	SessionToken string
	UserID       string
	Name         string
	Email        string
	Admin        bool
}

// AuthResult identifies the authenticated caller of a request, as
// resolved by [Engine.Authenticate] from a session token.
type AuthResult struct {
	UserID string
	Email  string
	Admin  bool
}

// Profile is the decrypted view of an account returned by
// [Engine.Profile] and [Engine.UpdateProfile].
type Profile struct {
	UserID    string
	Name      string
	Email     string
	Admin     bool
	Verified  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UpdateProfileInput is the input for [Engine.UpdateProfile]. Empty
// fields keep their current value; a non-empty Password rotates the
// credential through policy and history checks.
type UpdateProfileInput struct {
	Name     string
	Email    string
	Password string
}

// AdminUpdateInput is the input for [Engine.AdminUpdateUser]. Empty Name
// and Email keep their current values; Admin is always applied.
type AdminUpdateInput struct {
	Name  string
	Email string
	Admin bool
}
