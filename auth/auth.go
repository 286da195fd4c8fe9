// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	ErrInvalidAdminKey = errors.New("invalid admin key")
	ErrInvalidEmail    = errors.New("invalid email address")
)

// GenerateVoterToken creates a random secure one-time voting token
func GenerateVoterToken() (string, error) {
	b := make([]byte, 24) // 24 bytes = 192 bits of entropy
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate voter token: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// HashToken returns the SHA-256 hex digest of a token.
// Only this digest is ever persisted or compared.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// HashUserID derives the stable user identifier from a normalized email address.
// Includes salt to prevent rainbow table attacks
func HashUserID(email, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(email))
	return hex.EncodeToString(h.Sum(nil))
}

// ValidateAdminKey checks the provided admin key against the configured one
func ValidateAdminKey(adminKey, expected string) error {
	if expected == "" || !hmac.Equal([]byte(adminKey), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// NormalizeEmail lower-cases and validates a pupil address of the form
// first.last@<domain>. The domain itself contains at least one dot, so a
// valid address splits into four or more dot separated parts.
func NormalizeEmail(email, domain string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	domain = strings.ToLower(domain)

	if domain == "" || !strings.HasSuffix(email, "@"+domain) {
		return "", ErrInvalidEmail
	}
	if strings.IndexFunc(email, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}) >= 0 {
		return "", ErrInvalidEmail
	}
	// Only a bare addr-spec is accepted, no display names or quoting
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}

	parts := strings.Split(email, ".")
	if len(parts) < 4 {
		return "", ErrInvalidEmail
	}
	if strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return "", ErrInvalidEmail
	}

	return email, nil
}

// FirstName extracts a capitalized first name from first.last@domain
func FirstName(email string) string {
	first, _, _ := strings.Cut(strings.ToLower(email), ".")
	first, _, _ = strings.Cut(first, "@")
	r, size := utf8.DecodeRuneInString(first)
	if r == utf8.RuneError {
		return first
	}
	return string(unicode.ToUpper(r)) + first[size:]
}
