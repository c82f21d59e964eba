package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidEmail         = errors.New("invalid email")
	ErrInvalidUsername      = errors.New("invalid username")
	ErrInvalidPassword      = errors.New("invalid password")
	ErrInvalidName          = errors.New("invalid name")
	ErrInvalidCode          = errors.New("invalid code")
	ErrInvalidDecimalPlaces = errors.New("decimal places must be between 0 and 6")
)

var (
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)
	codeRegex     = regexp.MustCompile(`^[A-Z][A-Z0-9]{1,11}$`)
)

func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrInvalidPassword
	}
	return nil
}

// ValidateName covers customer, box, and display names: non-blank after
// trimming, at most 120 characters.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || len(trimmed) > 120 {
		return ErrInvalidName
	}
	return nil
}

// ValidateCode covers currency and account type codes: upper-case
// alphanumeric starting with a letter, 2 to 12 characters.
func ValidateCode(code string) error {
	if !codeRegex.MatchString(code) {
		return ErrInvalidCode
	}
	return nil
}

func ValidateDecimalPlaces(places int) error {
	if places < 0 || places > 6 {
		return ErrInvalidDecimalPlaces
	}
	return nil
}
