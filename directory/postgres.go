package directory

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/mercato/shopauth"
)

// Schema is an exported constant or variable used by the account engine.
//
// Apply it once before the first use of Postgres, through whatever
// migration tooling the embedding application runs.
const Schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id                    TEXT PRIMARY KEY,
	name                  TEXT NOT NULL DEFAULT '',
	name_iv               TEXT NOT NULL DEFAULT '',
	email                 TEXT NOT NULL UNIQUE,
	password_hash         TEXT NOT NULL,
	password_history      TEXT[] NOT NULL DEFAULT '{}',
	failed_login_attempts INTEGER NOT NULL DEFAULT 0,
	locked                BOOLEAN NOT NULL DEFAULT FALSE,
	last_password_change  TIMESTAMPTZ NOT NULL,
	is_admin              BOOLEAN NOT NULL DEFAULT FALSE,
	verified              BOOLEAN NOT NULL DEFAULT FALSE,
	verification_token    TEXT NOT NULL DEFAULT '',
	created_at            TIMESTAMPTZ NOT NULL,
	updated_at            TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS accounts_verification_token_idx
	ON accounts (verification_token) WHERE verification_token <> '';
`

const uniqueViolation = "23505"

type accountRow struct {
	ID                  string         `db:"id"`
	Name                string         `db:"name"`
	NameIV              string         `db:"name_iv"`
	Email               string         `db:"email"`
	PasswordHash        string         `db:"password_hash"`
	PasswordHistory     pq.StringArray `db:"password_history"`
	FailedLoginAttempts int            `db:"failed_login_attempts"`
	Locked              bool           `db:"locked"`
	LastPasswordChange  time.Time      `db:"last_password_change"`
	Admin               bool           `db:"is_admin"`
	Verified            bool           `db:"verified"`
	VerificationToken   string         `db:"verification_token"`
	CreatedAt           time.Time      `db:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at"`
}

// Postgres defines a public type used by shopauth APIs.
//
// Postgres instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Postgres struct {
	db *sqlx.DB
}

// NewPostgres describes the newpostgres operation and its observable behavior.
//
// NewPostgres may return an error when input validation, dependency calls, or security checks fail.
// NewPostgres does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

// FindByEmail describes the findbyemail operation and its observable behavior.
//
// FindByEmail may return an error when input validation, dependency calls, or security checks fail.
// FindByEmail does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p *Postgres) FindByEmail(ctx context.Context, email string) (*shopauth.User, error) {
	return p.findOne(ctx, `SELECT * FROM accounts WHERE email = $1`, email)
}

// FindByID describes the findbyid operation and its observable behavior.
//
// FindByID may return an error when input validation, dependency calls, or security checks fail.
// FindByID does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p *Postgres) FindByID(ctx context.Context, id string) (*shopauth.User, error) {
	return p.findOne(ctx, `SELECT * FROM accounts WHERE id = $1`, id)
}

// FindByVerificationToken describes the findbyverificationtoken operation and its observable behavior.
//
// FindByVerificationToken may return an error when input validation, dependency calls, or security checks fail.
// FindByVerificationToken does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p *Postgres) FindByVerificationToken(ctx context.Context, verificationToken string) (*shopauth.User, error) {
	if verificationToken == "" {
		return nil, shopauth.ErrUserNotFound
	}
	return p.findOne(ctx, `SELECT * FROM accounts WHERE verification_token = $1`, verificationToken)
}

// Save describes the save operation and its observable behavior.
//
// Save may return an error when input validation, dependency calls, or security checks fail.
// Save does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p *Postgres) Save(ctx context.Context, user *shopauth.User) error {
	row := toRow(user)

	_, err := p.db.NamedExecContext(ctx, `
		INSERT INTO accounts (
			id, name, name_iv, email, password_hash, password_history,
			failed_login_attempts, locked, last_password_change,
			is_admin, verified, verification_token, created_at, updated_at
		) VALUES (
			:id, :name, :name_iv, :email, :password_hash, :password_history,
			:failed_login_attempts, :locked, :last_password_change,
			:is_admin, :verified, :verification_token, :created_at, :updated_at
		)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			name_iv = EXCLUDED.name_iv,
			email = EXCLUDED.email,
			password_hash = EXCLUDED.password_hash,
			password_history = EXCLUDED.password_history,
			failed_login_attempts = EXCLUDED.failed_login_attempts,
			locked = EXCLUDED.locked,
			last_password_change = EXCLUDED.last_password_change,
			is_admin = EXCLUDED.is_admin,
			verified = EXCLUDED.verified,
			verification_token = EXCLUDED.verification_token,
			updated_at = EXCLUDED.updated_at
	`, row)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return shopauth.ErrEmailExists
		}
		return err
	}
	return nil
}

// Delete describes the delete operation and its observable behavior.
//
// Delete may return an error when input validation, dependency calls, or security checks fail.
// Delete does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p *Postgres) Delete(ctx context.Context, id string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return shopauth.ErrUserNotFound
	}
	return nil
}

// List describes the list operation and its observable behavior.
//
// List may return an error when input validation, dependency calls, or security checks fail.
// List does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p *Postgres) List(ctx context.Context, filter shopauth.ListFilter) ([]*shopauth.User, error) {
	query := `SELECT * FROM accounts ORDER BY created_at`
	switch filter {
	case shopauth.ListAdmins:
		query = `SELECT * FROM accounts WHERE is_admin ORDER BY created_at`
	case shopauth.ListCustomers:
		query = `SELECT * FROM accounts WHERE NOT is_admin ORDER BY created_at`
	}

	var rows []accountRow
	if err := p.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	users := make([]*shopauth.User, 0, len(rows))
	for i := range rows {
		users = append(users, fromRow(&rows[i]))
	}
	return users, nil
}

func (p *Postgres) findOne(ctx context.Context, query string, arg interface{}) (*shopauth.User, error) {
	var row accountRow
	if err := p.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shopauth.ErrUserNotFound
		}
		return nil, err
	}
	return fromRow(&row), nil
}

func toRow(user *shopauth.User) *accountRow {
	return &accountRow{
		ID:                  user.ID,
		Name:                user.Name,
		NameIV:              user.NameIV,
		Email:               user.Email,
		PasswordHash:        user.PasswordHash,
		PasswordHistory:     pq.StringArray(append([]string(nil), user.PasswordHistory...)),
		FailedLoginAttempts: user.FailedLoginAttempts,
		Locked:              user.Locked,
		LastPasswordChange:  user.LastPasswordChange,
		Admin:               user.Admin,
		Verified:            user.Verified,
		VerificationToken:   user.VerificationToken,
		CreatedAt:           user.CreatedAt,
		UpdatedAt:           user.UpdatedAt,
	}
}

func fromRow(row *accountRow) *shopauth.User {
	return &shopauth.User{
		ID:                  row.ID,
		Name:                row.Name,
		NameIV:              row.NameIV,
		Email:               row.Email,
		PasswordHash:        row.PasswordHash,
		PasswordHistory:     append([]string(nil), row.PasswordHistory...),
		FailedLoginAttempts: row.FailedLoginAttempts,
		Locked:              row.Locked,
		LastPasswordChange:  row.LastPasswordChange,
		Admin:               row.Admin,
		Verified:            row.Verified,
		VerificationToken:   row.VerificationToken,
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
	}
}
