package user

import (
	"errors"
	"unicode"
)

var ErrWeakPassword = errors.New("password must be at least 6 characters and contain a digit")

// ValidatePassword checks a plaintext password before hashing. bcrypt
// ignores everything past 72 bytes.
func ValidatePassword(plain string) error {
	if len(plain) < 6 || len(plain) > 72 {
		return ErrWeakPassword
	}
	for _, r := range plain {
		if unicode.IsDigit(r) {
			return nil
		}
	}
	return ErrWeakPassword
}
