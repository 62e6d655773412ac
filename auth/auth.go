// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	sessionIssuer = "expert-qa"

	// MaxPasswordBytes is the longest password bcrypt accepts
	MaxPasswordBytes = 72

	fingerprintLabel = "expert-qa client fingerprint v1"
)

var (
	ErrInvalidToken    = errors.New("invalid session token")
	ErrWrongPassword   = errors.New("password is incorrect")
	ErrPasswordTooLong = errors.New("password is longer than 72 bytes")
)

// HashPassword returns a salted bcrypt hash of the plaintext password
func HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password with a stored hash.
// A mismatch yields ErrWrongPassword; a malformed hash is reported as is.
// A password too long to have been hashed can never match.
func CheckPassword(hash, password string) error {
	if len(password) > MaxPasswordBytes {
		return ErrWrongPassword
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrWrongPassword
	}
	return err
}

// IssueSession signs a session token whose subject is the user name
func IssueSession(name, secret string, ttl time.Duration) (string, error) {
	if name == "" {
		return "", errors.New("session subject is empty")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   name,
		Issuer:    sessionIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, nil
}

// ParseSession verifies a session token and returns the user name it carries
func ParseSession(token, secret string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", ErrInvalidToken
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

// FingerprintKey derives the key for Fingerprint from the session secret,
// so the token signing key never doubles as the log correlation key.
func FingerprintKey(secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(fingerprintLabel))
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint creates a one-way hash of a client address for logs.
// Includes salt to prevent rainbow table attacks.
func Fingerprint(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// first 16 hex chars (64 bits) - enough to correlate log lines
	return hex.EncodeToString(sum[:8])
}
