package users

import (
	"context"
	"time"
)

// Repository persists accounts. Lookups of a missing account return
// common.ErrorNotFound; creating an account with a taken email returns
// common.ErrorAlreadyExists. Bulk operations report how many rows changed.
type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	// List orders by last login, most recent first, never-logged-in last,
	// then by id.
	List(ctx context.Context) ([]User, error)
	// Verify moves an UNVERIFIED account to ACTIVE. Other states are kept.
	Verify(ctx context.Context, id int64) error
	TouchLogin(ctx context.Context, id int64, at time.Time) error
	// SetStatus sets status on every listed account currently in one of from
	// (any state when from is empty).
	SetStatus(ctx context.Context, ids []int64, status Status, from ...Status) (int, error)
	Delete(ctx context.Context, ids []int64) (int, error)
	DeleteUnverified(ctx context.Context) (int, error)
}
