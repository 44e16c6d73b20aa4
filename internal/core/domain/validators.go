package domain

import "regexp"

var identifierRegexp = regexp.MustCompile(`^[A-Za-z0-9._:\-]{1,128}$`)

func isValidIdentifier(s string) bool {
	return identifierRegexp.MatchString(s)
}

// ValidateAccount returns ErrInvalidAccount if the given address can't be
// used as an account identifier.
func ValidateAccount(address string) error {
	if !isValidIdentifier(address) {
		return ErrInvalidAccount
	}
	return nil
}

func validateAmount(amount uint64) error {
	if amount == 0 {
		return ErrInvalidAmount
	}
	return nil
}
