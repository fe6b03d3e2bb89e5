package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/rosterctl/internal/client/models"
	"github.com/dmitrijs2005/rosterctl/internal/client/services"
	"github.com/dmitrijs2005/rosterctl/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func flowMessage(err error) string {
	var f *services.Failure
	switch {
	case errors.Is(err, services.ErrMissingFields):
		return "Please fill in all fields"
	case errors.As(err, &f):
		return f.Msg
	default:
		return err.Error()
	}
}

// Register prompts for name, email and password and creates an account.
// On success the console moves to the login view.
func (a *App) Register(ctx context.Context) error {
	a.open(ctx, models.ViewRegister)
	if a.router.Current() != models.ViewRegister {
		return nil
	}

	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	msg, err := a.auth.Register(ctx, name, email, string(password))
	if err != nil {
		a.notifier.Error(flowMessage(err))
		return err
	}
	a.notifier.Success(msg)
	return nil
}

// Login prompts for credentials, stores the session and opens the dashboard.
func (a *App) Login(ctx context.Context) error {
	a.open(ctx, models.ViewLogin)
	if a.router.Current() != models.ViewLogin {
		return nil
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.auth.Login(ctx, email, string(password))
	if err != nil {
		a.notifier.Error(flowMessage(err))
		return err
	}

	a.notifier.Success(fmt.Sprintf("Welcome, %s", u.Name))
	a.open(ctx, models.ViewDashboard)
	return nil
}

// Verify activates the account with the given id.
func (a *App) Verify(ctx context.Context, id string) error {
	msg, err := a.auth.VerifyEmail(ctx, id)
	if err != nil {
		a.notifier.Error(flowMessage(err))
		return err
	}
	a.notifier.Success(msg)
	return nil
}

// Logout drops the session and the loaded roster.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		a.notifier.Error("Logout failed")
		return err
	}
	a.directory.ReplaceUsers(nil)
	a.notifier.Success("Logged out")
	return nil
}

// Whoami prints the operator identity and, when the token carries one, its
// expiry.
func (a *App) Whoami(context.Context) error {
	u, ok := a.session.User()
	if !ok {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}

	fmt.Fprintf(a.out, "%s <%s> (id %d, %s)\n", u.Name, u.Email, u.ID, u.Status)
	if exp, ok := a.session.TokenExpiry(); ok {
		fmt.Fprintf(a.out, "Session expires %s (in %s)\n",
			exp.Local().Format(createdLayout), exp.Sub(a.now()).Round(time.Minute))
	} else {
		fmt.Fprintln(a.out, "Session expiry unknown")
	}
	return nil
}
