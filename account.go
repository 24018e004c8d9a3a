package shopauth

import "time"

// The account state machine lives on the User record itself: a one-way
// Unverified -> Verified transition keyed by the stored verification
// token, and an Unlocked <-> Locked pair driven by consecutive login
// failures. Deciding when to call Lock belongs to the login use case;
// clearing a lock is an administrative action only.

// RecordFailedAttempt increments the consecutive failure counter and
// returns the new count.
func (u *User) RecordFailedAttempt() int {
	u.FailedLoginAttempts++
	return u.FailedLoginAttempts
}

// RecordSuccess resets the consecutive failure counter.
func (u *User) RecordSuccess() {
	u.FailedLoginAttempts = 0
}

// Lock marks the account locked. A locked account accepts no login
// regardless of credential correctness.
func (u *User) Lock() {
	u.Locked = true
}

// Unlock clears the lock and the failure counter.
func (u *User) Unlock() {
	u.Locked = false
	u.FailedLoginAttempts = 0
}

// IsLocked reports whether the account is locked.
func (u *User) IsLocked() bool {
	return u.Locked
}

// MarkVerified performs the one-way Unverified -> Verified transition
// and clears the stored verification token so it cannot be replayed.
func (u *User) MarkVerified() {
	u.Verified = true
	u.VerificationToken = ""
}

// SetPassword installs a new credential hash, pushes it onto the bounded
// password history (oldest evicted first), and stamps the change time.
func (u *User) SetPassword(hash string, historyDepth int, now time.Time) {
	u.PasswordHash = hash
	u.PasswordHistory = append(u.PasswordHistory, hash)
	if historyDepth > 0 && len(u.PasswordHistory) > historyDepth {
		u.PasswordHistory = u.PasswordHistory[len(u.PasswordHistory)-historyDepth:]
	}
	u.LastPasswordChange = now
}
