package shopauth

import "errors"

var (
	// ErrUnauthorized is an exported constant or variable used by the account engine.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials is an exported constant or variable used by the account engine.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is an exported constant or variable used by the account engine.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailExists is an exported constant or variable used by the account engine.
	ErrEmailExists = errors.New("email already registered")
	// ErrAccountLocked is an exported constant or variable used by the account engine.
	ErrAccountLocked = errors.New("account locked")
	// ErrPasswordPolicy is an exported constant or variable used by the account engine.
	ErrPasswordPolicy = errors.New("password policy violation")
	// ErrPasswordReuse is an exported constant or variable used by the account engine.
	ErrPasswordReuse = errors.New("new password matches a recently used password")
	// ErrVerificationInvalid is an exported constant or variable used by the account engine.
	ErrVerificationInvalid = errors.New("email verification token invalid")
	// ErrResetTokenInvalid is an exported constant or variable used by the account engine.
	ErrResetTokenInvalid = errors.New("password reset token invalid or expired")
	// ErrSessionInvalid is an exported constant or variable used by the account engine.
	ErrSessionInvalid = errors.New("session token invalid or expired")
	// ErrDirectoryUnavailable is an exported constant or variable used by the account engine.
	ErrDirectoryUnavailable = errors.New("user directory unavailable")
	// ErrMailerUnavailable is an exported constant or variable used by the account engine.
	ErrMailerUnavailable = errors.New("mail delivery unavailable")
	// ErrLockoutUnavailable is an exported constant or variable used by the account engine.
	ErrLockoutUnavailable = errors.New("lockout backend unavailable")
	// ErrResetMarkerUnavailable is an exported constant or variable used by the account engine.
	ErrResetMarkerUnavailable = errors.New("reset redemption backend unavailable")
	// ErrEngineNotReady is an exported constant or variable used by the account engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
