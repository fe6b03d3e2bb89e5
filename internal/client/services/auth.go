// Package services contains the operator-facing flows of the console that
// span the gateway, the session store and navigation.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/rosterctl/internal/client/client"
	"github.com/dmitrijs2005/rosterctl/internal/client/models"
	"github.com/dmitrijs2005/rosterctl/internal/logging"
)

var ErrMissingFields = errors.New("all fields are required")

// Failure is a flow error with a message ready to be shown to the operator.
type Failure struct {
	Msg string
	Err error
}

func (f *Failure) Error() string { return f.Msg }

func (f *Failure) Unwrap() error { return f.Err }

// SessionWriter is the part of the session store the auth flows mutate.
type SessionWriter interface {
	Set(ctx context.Context, user models.Identity, token string) error
	Clear(ctx context.Context) error
}

// AuthService defines the authentication flows of the console.
//
// Contract:
//   - Login: authenticate, store the session and open the dashboard.
//   - Register: create an account and move to the login view.
//   - VerifyEmail: activate an account by id.
//   - Logout: drop the session and move to the login view.
//   - Ping: check server liveness.
type AuthService interface {
	Login(ctx context.Context, email, password string) (models.Identity, error)
	Register(ctx context.Context, name, email, password string) (string, error)
	VerifyEmail(ctx context.Context, id string) (string, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
}

type authService struct {
	client  client.Client
	session SessionWriter
	nav     client.Navigator
	logger  logging.Logger
}

func NewAuthService(c client.Client, s SessionWriter, nav client.Navigator, logger logging.Logger) AuthService {
	return &authService{client: c, session: s, nav: nav, logger: logger.With("module", "auth")}
}

func blank(fields ...string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return true
		}
	}
	return false
}

func (a *authService) Login(ctx context.Context, email, password string) (models.Identity, error) {
	if blank(email, password) {
		return models.Identity{}, ErrMissingFields
	}

	res, err := a.client.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return models.Identity{}, &Failure{Msg: client.Message(err, "Login failed"), Err: err}
	}
	if !res.Success || res.Token == "" || res.User == nil {
		return models.Identity{}, &Failure{Msg: orDefault(res.Message, "Login failed")}
	}

	if err := a.session.Set(ctx, *res.User, res.Token); err != nil {
		return models.Identity{}, fmt.Errorf("save session: %w", err)
	}
	a.logger.Info(ctx, "operator logged in", "user_id", res.User.ID)
	a.nav.Navigate(models.ViewDashboard)
	return *res.User, nil
}

func (a *authService) Register(ctx context.Context, name, email, password string) (string, error) {
	if blank(name, email, password) {
		return "", ErrMissingFields
	}

	res, err := a.client.Register(ctx, strings.TrimSpace(name), strings.TrimSpace(email), password)
	if err != nil {
		return "", &Failure{Msg: client.Message(err, "Registration failed"), Err: err}
	}
	if !res.Success {
		return "", &Failure{Msg: orDefault(res.Message, "Registration failed")}
	}

	a.nav.Navigate(models.ViewLogin)
	return orDefault(res.Message, "Registration successful. Check your email to verify the account."), nil
}

func (a *authService) VerifyEmail(ctx context.Context, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrMissingFields
	}

	a.nav.Navigate(models.View(string(models.ViewVerify) + "/" + id))
	res, err := a.client.VerifyEmail(ctx, id)
	if err != nil {
		return "", &Failure{Msg: client.Message(err, "Verification failed"), Err: err}
	}
	if !res.Success {
		return "", &Failure{Msg: "Verification failed. The link may be invalid or expired."}
	}
	return orDefault(res.Message, "Email verified successfully"), nil
}

func (a *authService) Logout(ctx context.Context) error {
	if err := a.session.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	a.nav.Navigate(models.ViewLogin)
	return nil
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
