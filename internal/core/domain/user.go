package domain

import (
	"errors"
	"strings"
	"time"
)

const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")

// User models an account in the system. PasswordDigest holds the encoded
// salt:hash string produced by the credential hasher, never the plaintext.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	PasswordDigest string    `json:"-"`
	Role           string    `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Identity is the authenticated-user view attached to a request after a
// successful session validation. It carries no credential material.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// NormalizeEmail canonicalises an email address for lookups. Emails are
// unique case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidRole reports whether role is one of the known account roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleClient
}
