package password

import "unicode"

const (
	// PolicyMinLength is an exported constant or variable used by the account engine.
	PolicyMinLength = 8
	// PolicyMaxLength is an exported constant or variable used by the account engine.
	PolicyMaxLength = 12
)

// ValidatePolicy describes the validatepolicy operation and its observable behavior.
//
// ValidatePolicy may return an error when input validation, dependency calls, or security checks fail.
// ValidatePolicy does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func ValidatePolicy(candidate string) bool {
	var upper, lower, digit, symbol bool
	length := 0

	for _, r := range candidate {
		length++
		switch {
		case unicode.IsSpace(r):
			return false
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}

	if length < PolicyMinLength || length > PolicyMaxLength {
		return false
	}

	return upper && lower && digit && symbol
}
