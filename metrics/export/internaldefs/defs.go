package internaldefs

import (
	shopauth "github.com/mercato/shopauth"
)

// CounterDef defines a public type used by shopauth APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   shopauth.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by shopauth APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   shopauth.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the account engine.
var CounterDefs = []CounterDef{
	{ID: shopauth.MetricLoginSuccess, Name: "shopauth_login_success_total", Help: "Successful login attempts."},
	{ID: shopauth.MetricLoginFailure, Name: "shopauth_login_failure_total", Help: "Failed login attempts."},
	{ID: shopauth.MetricLoginLocked, Name: "shopauth_login_locked_total", Help: "Login attempts rejected on locked accounts."},
	{ID: shopauth.MetricRegistrationSuccess, Name: "shopauth_registration_success_total", Help: "Successful registrations."},
	{ID: shopauth.MetricRegistrationDuplicate, Name: "shopauth_registration_duplicate_total", Help: "Registrations rejected as duplicate."},
	{ID: shopauth.MetricRegistrationPolicyRejected, Name: "shopauth_registration_policy_rejected_total", Help: "Registrations rejected by the password policy."},
	{ID: shopauth.MetricEmailVerificationSuccess, Name: "shopauth_email_verification_success_total", Help: "Successful email verifications."},
	{ID: shopauth.MetricEmailVerificationFailure, Name: "shopauth_email_verification_failure_total", Help: "Failed email verifications."},
	{ID: shopauth.MetricProfileUpdate, Name: "shopauth_profile_update_total", Help: "Profile update operations."},
	{ID: shopauth.MetricPasswordChangeSuccess, Name: "shopauth_password_change_success_total", Help: "Successful password changes."},
	{ID: shopauth.MetricPasswordChangeReuseRejected, Name: "shopauth_password_change_reuse_rejected_total", Help: "Password changes rejected for reuse."},
	{ID: shopauth.MetricPasswordResetRequest, Name: "shopauth_password_reset_request_total", Help: "Password reset requests."},
	{ID: shopauth.MetricPasswordResetConfirmSuccess, Name: "shopauth_password_reset_confirm_success_total", Help: "Successful password reset confirmations."},
	{ID: shopauth.MetricPasswordResetConfirmFailure, Name: "shopauth_password_reset_confirm_failure_total", Help: "Failed password reset confirmations."},
	{ID: shopauth.MetricPasswordResetReplay, Name: "shopauth_password_reset_replay_total", Help: "Password reset tokens rejected as already redeemed."},
	{ID: shopauth.MetricAccountLocked, Name: "shopauth_account_locked_total", Help: "Account lock operations."},
	{ID: shopauth.MetricAccountUnlocked, Name: "shopauth_account_unlocked_total", Help: "Account unlock operations."},
	{ID: shopauth.MetricAccountDeleted, Name: "shopauth_account_deleted_total", Help: "Account delete operations."},
	{ID: shopauth.MetricLogout, Name: "shopauth_logout_total", Help: "Logout operations."},
}

// HistogramDefs is an exported constant or variable used by the account engine.
var HistogramDefs = []HistogramDef{
	{ID: shopauth.MetricAuthenticateLatency, Name: "shopauth_authenticate_latency_seconds", Help: "Authenticate latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the account engine.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the account engine.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets may return an error when input validation, dependency calls, or security checks fail.
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets may return an error when input validation, dependency calls, or security checks fail.
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
