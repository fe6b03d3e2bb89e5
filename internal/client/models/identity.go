// Package models defines the client-side data model of the operator console:
// directory identities, the operator session and console views.
package models

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a directory account.
type Status string

const (
	StatusUnverified Status = "UNVERIFIED"
	StatusActive     Status = "ACTIVE"
	StatusBlocked    Status = "BLOCKED"
)

// ParseStatus accepts any letter case.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusUnverified, StatusActive, StatusBlocked:
		return st, nil
	default:
		return "", fmt.Errorf("unknown status %q", s)
	}
}

// Identity is a user record as returned by the directory service. The client
// never edits one in place; it is replaced wholesale on every roster fetch.
type Identity struct {
	// ID is unique and server-assigned.
	ID int64 `json:"id"`
	// Name is the display name given at registration.
	Name string `json:"name"`
	// Email is unique across the directory.
	Email string `json:"email"`
	// Status is UNVERIFIED until the email link is followed.
	Status Status `json:"status"`
	// LastLogin is nil for accounts that never logged in.
	LastLogin *time.Time `json:"lastLogin"`
	// CreatedAt is the registration time.
	CreatedAt time.Time `json:"createdAt"`
}

// IsBlocked reports whether the account is blocked.
func (i Identity) IsBlocked() bool {
	return i.Status == StatusBlocked
}
