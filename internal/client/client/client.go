package client

import (
	"context"

	"github.com/dmitrijs2005/rosterctl/internal/client/models"
)

// Client is the directory service contract used by the console.
type Client interface {
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	VerifyEmail(ctx context.Context, id string) (*AuthResult, error)
	FetchAllUsers(ctx context.Context) ([]models.Identity, error)
	BlockUsers(ctx context.Context, ids []int64) (*BulkResult, error)
	UnblockUsers(ctx context.Context, ids []int64) (*BulkResult, error)
	DeleteUsers(ctx context.Context, ids []int64) (*BulkResult, error)
	DeleteUnverifiedUsers(ctx context.Context) (*BulkResult, error)
	Ping(ctx context.Context) error
}

// Credentials is the part of the session store the gateway needs.
type Credentials interface {
	Token() string
	Clear(ctx context.Context) error
}

// Navigator moves the console between views.
type Navigator interface {
	Current() models.View
	Navigate(v models.View)
}

// AuthResult is the normalized body of the /auth endpoints.
type AuthResult struct {
	Success bool             `json:"success"`
	Token   string           `json:"token,omitempty"`
	User    *models.Identity `json:"user,omitempty"`
	Message string           `json:"message,omitempty"`
}

// BulkResult reports how many accounts a bulk endpoint affected.
type BulkResult struct {
	Count int `json:"count"`
}
