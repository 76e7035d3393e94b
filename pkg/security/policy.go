package security

import (
	"errors"
	"unicode"
	"unicode/utf8"
)

const (
	PasswordMinLength = 8
	PasswordMaxLength = 16
)

var (
	ErrPasswordLength    = errors.New("password must be 8-16 characters long")
	ErrPasswordUppercase = errors.New("password must contain at least one uppercase letter")
	ErrPasswordSpecial   = errors.New("password must contain at least one special character")
)

// ValidatePasswordPolicy enforces the account password rules and returns
// every violated rule joined into one error.
func ValidatePasswordPolicy(password string) error {
	var errs []error

	if n := utf8.RuneCountInString(password); n < PasswordMinLength || n > PasswordMaxLength {
		errs = append(errs, ErrPasswordLength)
	}

	var hasUpper, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			hasSpecial = true
		}
	}
	if !hasUpper {
		errs = append(errs, ErrPasswordUppercase)
	}
	if !hasSpecial {
		errs = append(errs, ErrPasswordSpecial)
	}

	return errors.Join(errs...)
}
