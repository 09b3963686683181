package helpers

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 6

var (
	emailRe  = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	letterRe = regexp.MustCompile(`[A-Za-z]`)
	digitRe  = regexp.MustCompile(`[0-9]`)
)

// Validasi Email (regex simple)
func IsValidEmail(email string) bool {
	return emailRe.MatchString(strings.TrimSpace(email))
}

// NormalizeEmail: trim + lowercase, email unik case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidatePassword: minimal 6 karakter, ada huruf dan angka.
func ValidatePassword(pw string) error {
	if len(pw) < MinPasswordLength {
		return errors.New("password must be at least 6 characters")
	}
	if !letterRe.MatchString(pw) || !digitRe.MatchString(pw) {
		return errors.New("password must contain letters and numbers")
	}
	return nil
}

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPasswordHash(hash, pw string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw))
}
