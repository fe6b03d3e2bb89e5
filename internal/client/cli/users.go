package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/rosterctl/internal/client/bulk"
	"github.com/dmitrijs2005/rosterctl/internal/client/client"
	"github.com/dmitrijs2005/rosterctl/internal/client/models"
)

var errNotLoggedIn = errors.New("not logged in")

// onDashboard moves the console to the dashboard when a session exists and
// reports whether dashboard commands may run.
func (a *App) onDashboard() bool {
	if !a.session.IsAuthenticated() {
		fmt.Fprintln(a.out, "Please log in first")
		a.router.Navigate(models.ViewLogin)
		return false
	}
	a.router.Navigate(models.ViewDashboard)
	return true
}

func (a *App) refresh(ctx context.Context) error {
	if err := a.directory.Sync(ctx, a.gateway); err != nil {
		if !client.Redirected(err) {
			a.notifier.Error(client.Message(err, "Failed to load users"))
		}
		a.logger.Warn(ctx, "roster refresh failed", "error", err)
		return err
	}
	return a.render()
}

func (a *App) render() error {
	if err := renderUsers(a.out, a.directory.Users(), a.directory.IsSelected, a.now()); err != nil {
		return err
	}
	if line := selectionLine(a.directory.SelectedCount()); line != "" {
		fmt.Fprintln(a.out, line)
	}
	return nil
}

// List prints the loaded roster without fetching it.
func (a *App) List(context.Context) error {
	if !a.onDashboard() {
		return errNotLoggedIn
	}
	return a.render()
}

// Refresh reloads the roster from the directory service.
func (a *App) Refresh(ctx context.Context) error {
	if !a.onDashboard() {
		return errNotLoggedIn
	}
	return a.refresh(ctx)
}

func (a *App) parseIDs(args []string) ([]int64, bool) {
	ids := make([]int64, 0, len(args))
	for _, s := range args {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			fmt.Fprintf(a.out, "Invalid id: %s\n", s)
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

// Toggle flips each listed id in the selection.
func (a *App) Toggle(_ context.Context, args []string) error {
	if !a.onDashboard() {
		return errNotLoggedIn
	}
	ids, ok := a.parseIDs(args)
	if !ok {
		return nil
	}
	for _, id := range ids {
		if _, found := a.directory.Lookup(id); !found {
			fmt.Fprintf(a.out, "No user with id %d\n", id)
			continue
		}
		a.directory.ToggleSelection(id)
	}
	fmt.Fprintf(a.out, "%d user(s) selected\n", a.directory.SelectedCount())
	return nil
}

// Select replaces the selection with the listed ids.
func (a *App) Select(_ context.Context, args []string) error {
	if !a.onDashboard() {
		return errNotLoggedIn
	}
	ids, ok := a.parseIDs(args)
	if !ok {
		return nil
	}
	a.directory.SetSelection(ids)
	fmt.Fprintf(a.out, "%d user(s) selected\n", a.directory.SelectedCount())
	return nil
}

func (a *App) SelectAll(context.Context) error {
	if !a.onDashboard() {
		return errNotLoggedIn
	}
	a.directory.SelectAll()
	fmt.Fprintf(a.out, "%d user(s) selected\n", a.directory.SelectedCount())
	return nil
}

func (a *App) ClearSelection(context.Context) error {
	if !a.onDashboard() {
		return errNotLoggedIn
	}
	a.directory.ClearSelection()
	fmt.Fprintln(a.out, "Selection cleared")
	return nil
}

// Bulk runs a moderation action over the current selection.
func (a *App) Bulk(ctx context.Context, k bulk.Kind) error {
	if !a.onDashboard() {
		return errNotLoggedIn
	}

	res, err := a.bulk.Run(ctx, k)
	if errors.Is(err, bulk.ErrBusy) {
		fmt.Fprintln(a.out, "Another action is still running")
		return err
	}
	if res.Outcome == bulk.OutcomeCancelled && err == nil {
		fmt.Fprintln(a.out, "Cancelled")
	}
	if res.Outcome == bulk.OutcomeSucceeded {
		return a.render()
	}
	return err
}
