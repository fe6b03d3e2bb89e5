package users

import "time"

// Status is the lifecycle state of an account.
type Status string

const (
	StatusActive     Status = "ACTIVE"
	StatusBlocked    Status = "BLOCKED"
	StatusUnverified Status = "UNVERIFIED"
)

// User is a stored account. PasswordHash never leaves the server; the JSON
// shape is the public identity record.
type User struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Status       Status     `json:"status"`
	LastLogin    *time.Time `json:"lastLogin"`
	CreatedAt    time.Time  `json:"createdAt"`
}
