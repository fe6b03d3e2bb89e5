package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/rosterctl/internal/client/bulk"
	"github.com/dmitrijs2005/rosterctl/internal/client/client"
	"github.com/dmitrijs2005/rosterctl/internal/client/config"
	"github.com/dmitrijs2005/rosterctl/internal/client/models"
	"github.com/dmitrijs2005/rosterctl/internal/client/session"
	"github.com/dmitrijs2005/rosterctl/internal/client/storage"
	"github.com/dmitrijs2005/rosterctl/internal/common"
	"github.com/dmitrijs2005/rosterctl/internal/logging"
)

// ---- fake gateway ----

type fakeGateway struct {
	users    []models.Identity
	fetchErr error
	onFetch  func()
	loginRet *client.AuthResult
	count    int
	bulkErr  error
	pingErr  error

	calls []string
	ids   [][]int64
}

func (f *fakeGateway) Register(context.Context, string, string, string) (*client.AuthResult, error) {
	f.calls = append(f.calls, "register")
	return &client.AuthResult{Success: true}, nil
}

func (f *fakeGateway) Login(context.Context, string, string) (*client.AuthResult, error) {
	f.calls = append(f.calls, "login")
	return f.loginRet, nil
}

func (f *fakeGateway) VerifyEmail(context.Context, string) (*client.AuthResult, error) {
	f.calls = append(f.calls, "verify")
	return &client.AuthResult{Success: true}, nil
}

func (f *fakeGateway) FetchAllUsers(context.Context) ([]models.Identity, error) {
	f.calls = append(f.calls, "fetch")
	if f.onFetch != nil {
		f.onFetch()
	}
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.users, nil
}

func (f *fakeGateway) bulk(op string, ids []int64) (*client.BulkResult, error) {
	f.calls = append(f.calls, op)
	f.ids = append(f.ids, ids)
	if f.bulkErr != nil {
		return nil, f.bulkErr
	}
	return &client.BulkResult{Count: f.count}, nil
}

func (f *fakeGateway) BlockUsers(_ context.Context, ids []int64) (*client.BulkResult, error) {
	return f.bulk("block", ids)
}

func (f *fakeGateway) UnblockUsers(_ context.Context, ids []int64) (*client.BulkResult, error) {
	return f.bulk("unblock", ids)
}

func (f *fakeGateway) DeleteUsers(_ context.Context, ids []int64) (*client.BulkResult, error) {
	return f.bulk("delete", ids)
}

func (f *fakeGateway) DeleteUnverifiedUsers(context.Context) (*client.BulkResult, error) {
	return f.bulk("purge", nil)
}

func (f *fakeGateway) Ping(context.Context) error { return f.pingErr }

// ---- helpers ----

var operator = models.Identity{ID: 1, Name: "Op", Email: "op@example.com", Status: models.StatusActive}

type harness struct {
	app  *App
	gw   *fakeGateway
	sess *session.Store
	out  *bytes.Buffer
}

func newHarness(t *testing.T, input string) *harness {
	t.Helper()
	ctx := context.Background()

	db, err := storage.Open(ctx, filepath.Join(t.TempDir(), "console.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sess := session.NewStore(storage.NewSessionRepository(storage.NewSQLiteKV(db), common.SessionNamespace), logging.Nop())
	require.NoError(t, sess.Hydrate(ctx))

	gw := &fakeGateway{users: []models.Identity{
		operator,
		{ID: 2, Name: "Ann", Email: "ann@example.com", Status: models.StatusActive},
		{ID: 3, Name: "Bob", Email: "bob@example.com", Status: models.StatusBlocked},
	}}

	cfg := &config.Config{}
	cfg.LoadDefaults()

	out := &bytes.Buffer{}
	app := newApp(cfg, logging.Nop(), sess, gw, NewRouter(), bufio.NewReader(strings.NewReader(input)), out)
	return &harness{app: app, gw: gw, sess: sess, out: out}
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	require.NoError(t, h.sess.Set(context.Background(), operator, "opaque-token"))
	h.app.open(context.Background(), models.ViewHome)
}

func stubInputs(t *testing.T, answers []string, password string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}
	getPassword = func(io.Writer) ([]byte, error) { return []byte(password), nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

// ---- tests ----

func TestOpen_AnonymousLandsOnLogin(t *testing.T) {
	h := newHarness(t, "")

	h.app.open(context.Background(), models.ViewHome)

	assert.Equal(t, models.ViewLogin, h.app.router.Current())
	assert.Empty(t, h.gw.calls)
	assert.Contains(t, h.out.String(), "→ /login")
}

func TestOpen_BeforeHydrationRendersNothing(t *testing.T) {
	sess := session.NewStore(nil, logging.Nop())
	cfg := &config.Config{}
	var out bytes.Buffer
	app := newApp(cfg, logging.Nop(), sess, &fakeGateway{}, NewRouter(), rdr(""), &out)

	app.open(context.Background(), models.ViewDashboard)

	assert.Equal(t, models.ViewHome, app.router.Current())
	assert.Equal(t, "Loading...\n", out.String())
}

func TestLogin_OpensDashboardAndLoadsRoster(t *testing.T) {
	h := newHarness(t, "")
	h.gw.loginRet = &client.AuthResult{Success: true, Token: "tok", User: &operator}
	stubInputs(t, []string{"op@example.com"}, "pw")

	require.NoError(t, h.app.Login(context.Background()))

	assert.True(t, h.sess.IsAuthenticated())
	assert.Equal(t, models.ViewDashboard, h.app.router.Current())
	assert.Equal(t, []string{"login", "fetch"}, h.gw.calls)
	s := h.out.String()
	assert.Contains(t, s, "✔ Welcome, Op")
	assert.Contains(t, s, "ann@example.com")
}

func TestLogin_WhenAlreadyLoggedInGoesToDashboard(t *testing.T) {
	h := newHarness(t, "")
	h.login(t)
	h.gw.calls = nil

	require.NoError(t, h.app.Login(context.Background()))
	assert.NotContains(t, h.gw.calls, "login")
	assert.Equal(t, models.ViewDashboard, h.app.router.Current())
}

func TestLogin_MissingFields(t *testing.T) {
	h := newHarness(t, "")
	stubInputs(t, []string{""}, "pw")

	require.Error(t, h.app.Login(context.Background()))
	assert.Contains(t, h.out.String(), "✖ Please fill in all fields")
	assert.Empty(t, h.gw.calls)
}

func TestRegister_MovesToLogin(t *testing.T) {
	h := newHarness(t, "")
	stubInputs(t, []string{"Ann", "ann@example.com"}, "pw")

	require.NoError(t, h.app.Register(context.Background()))
	assert.Equal(t, models.ViewLogin, h.app.router.Current())
	assert.Contains(t, h.out.String(), "✔ Registration successful")
}

func TestVerify(t *testing.T) {
	h := newHarness(t, "")

	require.NoError(t, h.app.Verify(context.Background(), "2"))
	assert.Equal(t, models.View("/verify/2"), h.app.router.Current())
	assert.Contains(t, h.out.String(), "✔ Email verified successfully")
}

func TestDashboardCommandsRequireSession(t *testing.T) {
	h := newHarness(t, "")

	require.ErrorIs(t, h.app.List(context.Background()), errNotLoggedIn)
	require.ErrorIs(t, h.app.SelectAll(context.Background()), errNotLoggedIn)
	assert.Contains(t, h.out.String(), "Please log in first")
	assert.Equal(t, models.ViewLogin, h.app.router.Current())
}

func TestSelectionCommands(t *testing.T) {
	h := newHarness(t, "")
	h.login(t)
	ctx := context.Background()

	require.NoError(t, h.app.Toggle(ctx, []string{"2", "99"}))
	assert.Equal(t, []int64{2}, h.app.directory.Selected())
	assert.Contains(t, h.out.String(), "No user with id 99")

	require.NoError(t, h.app.Select(ctx, []string{"1", "3"}))
	assert.Equal(t, []int64{1, 3}, h.app.directory.Selected())

	require.NoError(t, h.app.Select(ctx, []string{"x"}))
	assert.Contains(t, h.out.String(), "Invalid id: x")
	assert.Equal(t, []int64{1, 3}, h.app.directory.Selected())

	require.NoError(t, h.app.SelectAll(ctx))
	assert.Equal(t, 3, h.app.directory.SelectedCount())

	require.NoError(t, h.app.List(ctx))
	assert.Contains(t, h.out.String(), "3 user(s) selected")

	require.NoError(t, h.app.ClearSelection(ctx))
	assert.Zero(t, h.app.directory.SelectedCount())
}

func TestBulk_BlockConfirmed(t *testing.T) {
	h := newHarness(t, "y\n")
	h.login(t)
	ctx := context.Background()
	h.gw.count = 1

	require.NoError(t, h.app.Select(ctx, []string{"2"}))
	require.NoError(t, h.app.Bulk(ctx, bulk.KindBlock))

	assert.Equal(t, [][]int64{{2}}, h.gw.ids)
	assert.Zero(t, h.app.directory.SelectedCount())
	s := h.out.String()
	assert.Contains(t, s, "[!] Block Users")
	assert.Contains(t, s, "✔ 1 user(s) blocked successfully")
	assert.Equal(t, "fetch", h.gw.calls[len(h.gw.calls)-1])
}

func TestBulk_RejectedAndCancelled(t *testing.T) {
	h := newHarness(t, "n\n")
	h.login(t)
	ctx := context.Background()

	require.NoError(t, h.app.Select(ctx, []string{"2", "3"}))
	require.Error(t, h.app.Bulk(ctx, bulk.KindBlock))
	assert.Contains(t, h.out.String(), "✖ 1 of the selected users are already blocked")

	require.NoError(t, h.app.Select(ctx, []string{"2"}))
	require.NoError(t, h.app.Bulk(ctx, bulk.KindDelete))
	assert.Contains(t, h.out.String(), "Cancelled")
	assert.Empty(t, h.gw.ids)
	assert.Equal(t, []int64{2}, h.app.directory.Selected())
}

func TestRefresh_SessionRevokedRedirectsToLogin(t *testing.T) {
	h := newHarness(t, "")
	h.login(t)
	ctx := context.Background()

	h.gw.onFetch = func() {
		_ = h.sess.Clear(ctx)
		h.app.router.Navigate(models.ViewLogin)
	}
	h.gw.fetchErr = &client.APIError{Op: "list users", Status: http.StatusUnauthorized, Redirected: true}
	h.out.Reset()

	require.Error(t, h.app.Refresh(ctx))

	assert.False(t, h.sess.IsAuthenticated())
	assert.Equal(t, models.ViewLogin, h.app.router.Current())
	assert.NotContains(t, h.out.String(), "✖")
}

func TestRefresh_SessionRevokedResetsSelection(t *testing.T) {
	h := newHarness(t, "y\n")
	h.login(t)
	ctx := context.Background()

	require.NoError(t, h.app.Select(ctx, []string{"2"}))

	h.gw.onFetch = func() {
		_ = h.sess.Clear(ctx)
		h.app.router.Navigate(models.ViewLogin)
	}
	h.gw.fetchErr = &client.APIError{Op: "list users", Status: http.StatusUnauthorized, Redirected: true}
	require.Error(t, h.app.Refresh(ctx))

	assert.Empty(t, h.app.directory.Selected())
	assert.Empty(t, h.app.directory.Users())

	// next operator signs in and acts without picking anyone
	h.gw.onFetch, h.gw.fetchErr = nil, nil
	h.login(t)
	require.Error(t, h.app.Bulk(ctx, bulk.KindBlock))
	assert.Empty(t, h.gw.ids)
}

func TestRefresh_ServerError(t *testing.T) {
	h := newHarness(t, "")
	h.login(t)
	h.gw.fetchErr = client.ErrUnavailable

	require.Error(t, h.app.Refresh(context.Background()))
	assert.Contains(t, h.out.String(), "✖ Failed to load users")
}

func TestLogoutAndWhoami(t *testing.T) {
	h := newHarness(t, "")
	ctx := context.Background()

	exp := time.Now().Add(2 * time.Hour)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	require.NoError(t, h.sess.Set(ctx, operator, token))

	require.NoError(t, h.app.Whoami(ctx))
	assert.Contains(t, h.out.String(), "Op <op@example.com>")
	assert.Contains(t, h.out.String(), "Session expires")

	require.NoError(t, h.app.Logout(ctx))
	assert.False(t, h.sess.IsAuthenticated())
	assert.Empty(t, h.app.directory.Users())
	assert.Equal(t, models.ViewLogin, h.app.router.Current())

	h.out.Reset()
	require.NoError(t, h.app.Whoami(ctx))
	assert.Equal(t, "Not logged in\n", h.out.String())
}

func TestProbe_TracksMode(t *testing.T) {
	h := newHarness(t, "")
	ctx := context.Background()

	h.app.probe(ctx)
	assert.Equal(t, ModeOnline, h.app.Mode())

	h.gw.pingErr = client.ErrUnavailable
	h.app.probe(ctx)
	assert.Equal(t, ModeOffline, h.app.Mode())
	assert.Contains(t, h.app.status(), "offline")
}

func TestRun_EndsOnExit(t *testing.T) {
	h := newHarness(t, "help\nexit\n")
	h.app.config.HealthCheckInterval = 0

	require.NoError(t, h.app.Run(context.Background()))
	s := h.out.String()
	assert.Contains(t, s, "→ /login")
	assert.Contains(t, s, helpAnonymous)
	assert.Contains(t, s, "Bye!")
}
