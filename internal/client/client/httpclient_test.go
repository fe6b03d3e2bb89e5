package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/rosterctl/internal/client/models"
	"github.com/dmitrijs2005/rosterctl/internal/logging"
)

type fakeCreds struct {
	token    string
	clears   int
	clearErr error
}

func (f *fakeCreds) Token() string { return f.token }
func (f *fakeCreds) Clear(context.Context) error {
	f.clears++
	f.token = ""
	return f.clearErr
}

type fakeNav struct {
	current models.View
	visits  []models.View
}

func (f *fakeNav) Current() models.View { return f.current }
func (f *fakeNav) Navigate(v models.View) {
	if v == f.current {
		return
	}
	f.current = v
	f.visits = append(f.visits, v)
}

type recorded struct {
	method string
	path   string
	auth   string
	reqID  string
	body   string
}

func newTestServer(t *testing.T, status int, resp string) (*httptest.Server, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		calls = append(calls, recorded{
			method: r.Method,
			path:   r.URL.Path,
			auth:   r.Header.Get("Authorization"),
			reqID:  r.Header.Get("X-Request-ID"),
			body:   string(b),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, resp)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestClient(t *testing.T, baseURL string, creds *fakeCreds, nav *fakeNav) *HTTPClient {
	t.Helper()
	c, err := NewHTTPClient(baseURL+"/api", http.DefaultClient, creds, nav, logging.Nop())
	require.NoError(t, err)
	return c
}

func TestNewHTTPClient_RejectsBadURL(t *testing.T) {
	_, err := NewHTTPClient("localhost:3001", http.DefaultClient, &fakeCreds{}, &fakeNav{}, logging.Nop())
	require.Error(t, err)
}

func TestRequests_AttachBearerWhenTokenPresent(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusOK, `{"data":[]}`)
	c := newTestClient(t, srv.URL, &fakeCreds{token: "abc"}, &fakeNav{current: models.ViewDashboard})

	_, err := c.FetchAllUsers(context.Background())
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	got := (*calls)[0]
	assert.Equal(t, "Bearer abc", got.auth)
	assert.Equal(t, "/api/users", got.path)
	assert.NotEmpty(t, got.reqID)
}

func TestRequests_NoTokenNoHeader(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusOK, `{"success":true}`)
	c := newTestClient(t, srv.URL, &fakeCreds{}, &fakeNav{current: models.ViewRegister})

	_, err := c.Register(context.Background(), "Ann", "ann@example.com", "pw")
	require.NoError(t, err)

	got := (*calls)[0]
	assert.Empty(t, got.auth)
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/api/auth/register", got.path)
	assert.JSONEq(t, `{"name":"Ann","email":"ann@example.com","password":"pw"}`, got.body)
}

func TestLogin_NormalizesResult(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK,
		`{"success":true,"token":"jwt","user":{"id":1,"name":"Op","email":"op@example.com","status":"ACTIVE","lastLogin":null,"createdAt":"2026-01-01T00:00:00Z"}}`)
	c := newTestClient(t, srv.URL, &fakeCreds{}, &fakeNav{current: models.ViewLogin})

	res, err := c.Login(context.Background(), "op@example.com", "pw")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "jwt", res.Token)
	require.NotNil(t, res.User)
	assert.Equal(t, models.StatusActive, res.User.Status)
}

func TestVerifyEmail_Path(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusOK, `{"success":true}`)
	c := newTestClient(t, srv.URL, &fakeCreds{}, &fakeNav{current: "/verify/42"})

	res, err := c.VerifyEmail(context.Background(), "42")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, http.MethodGet, (*calls)[0].method)
	assert.Equal(t, "/api/auth/verify/42", (*calls)[0].path)
}

func TestBulkOperations(t *testing.T) {
	tests := []struct {
		name string
		call func(*HTTPClient) (*BulkResult, error)
		path string
		body string
	}{
		{"block", func(c *HTTPClient) (*BulkResult, error) { return c.BlockUsers(context.Background(), []int64{1, 2}) }, "/api/users/block", `{"userIds":[1,2]}`},
		{"unblock", func(c *HTTPClient) (*BulkResult, error) { return c.UnblockUsers(context.Background(), []int64{3}) }, "/api/users/unblock", `{"userIds":[3]}`},
		{"delete", func(c *HTTPClient) (*BulkResult, error) { return c.DeleteUsers(context.Background(), nil) }, "/api/users/delete", `{"userIds":[]}`},
		{"delete unverified", func(c *HTTPClient) (*BulkResult, error) { return c.DeleteUnverifiedUsers(context.Background()) }, "/api/users/delete-unverified", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, calls := newTestServer(t, http.StatusOK, `{"count":2}`)
			c := newTestClient(t, srv.URL, &fakeCreds{token: "t"}, &fakeNav{current: models.ViewDashboard})

			res, err := tt.call(c)
			require.NoError(t, err)
			assert.Equal(t, 2, res.Count)

			got := (*calls)[0]
			assert.Equal(t, http.MethodPost, got.method)
			assert.Equal(t, tt.path, got.path)
			if tt.body == "" {
				assert.Empty(t, got.body)
			} else {
				assert.JSONEq(t, tt.body, got.body)
			}
		})
	}
}

func TestUnauthorizedOnProtectedView_ClearsAndRedirects(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusUnauthorized, `{"error":"Token expired"}`)
	creds := &fakeCreds{token: "stale"}
	nav := &fakeNav{current: models.ViewDashboard}
	c := newTestClient(t, srv.URL, creds, nav)

	_, err := c.FetchAllUsers(context.Background())
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.True(t, Redirected(err))
	assert.Equal(t, 1, creds.clears)
	assert.Equal(t, []models.View{models.ViewLogin}, nav.visits)
}

func TestForbiddenOnProtectedView_AlsoRedirects(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusForbidden, `{"error":"Your account has been blocked"}`)
	creds := &fakeCreds{token: "t"}
	nav := &fakeNav{current: models.ViewDashboard}
	c := newTestClient(t, srv.URL, creds, nav)

	_, err := c.BlockUsers(context.Background(), []int64{1})
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, creds.clears)
	assert.Equal(t, models.ViewLogin, nav.current)
}

func TestUnauthorizedOnLoginView_IsInlineError(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusUnauthorized, `{"error":"Invalid email or password"}`)
	creds := &fakeCreds{}
	nav := &fakeNav{current: models.ViewLogin}
	c := newTestClient(t, srv.URL, creds, nav)

	_, err := c.Login(context.Background(), "op@example.com", "bad")
	require.Error(t, err)

	assert.False(t, Redirected(err))
	assert.Equal(t, 0, creds.clears)
	assert.Empty(t, nav.visits)
	assert.Equal(t, "Invalid email or password", Message(err, "Login failed"))
}

func TestRepeatedAuthFailures_Converge(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusUnauthorized, `{}`)
	creds := &fakeCreds{token: "t"}
	nav := &fakeNav{current: models.ViewDashboard}
	c := newTestClient(t, srv.URL, creds, nav)

	_, err1 := c.FetchAllUsers(context.Background())
	_, err2 := c.FetchAllUsers(context.Background())

	assert.True(t, Redirected(err1))
	assert.False(t, Redirected(err2), "second failure happens on the login view")
	assert.Equal(t, []models.View{models.ViewLogin}, nav.visits)
}

func TestServerError_MessageAndFallback(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusInternalServerError, `oops`)
	c := newTestClient(t, srv.URL, &fakeCreds{token: "t"}, &fakeNav{current: models.ViewDashboard})

	_, err := c.DeleteUsers(context.Background(), []int64{1})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Failed to delete users", Message(err, "Failed to delete users"))
	assert.Contains(t, err.Error(), "Internal Server Error")
}

func TestErrorBody_MessageFieldFallback(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusConflict, `{"message":"Email already exists"}`)
	c := newTestClient(t, srv.URL, &fakeCreds{}, &fakeNav{current: models.ViewRegister})

	_, err := c.Register(context.Background(), "a", "b", "c")
	assert.Equal(t, "Email already exists", Message(err, "x"))
}

func TestTransportFailure_IsUnavailable(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{}`)
	srv.Close()
	c := newTestClient(t, srv.URL, &fakeCreds{}, &fakeNav{current: models.ViewDashboard})

	_, err := c.FetchAllUsers(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, "Failed to load users", Message(err, "Failed to load users"))
}

func TestCanceledContext(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{}`)
	c := newTestClient(t, srv.URL, &fakeCreds{}, &fakeNav{current: models.ViewDashboard})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchAllUsers(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestFetchAllUsers_MissingDataIsEmpty(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{}`)
	c := newTestClient(t, srv.URL, &fakeCreds{}, &fakeNav{current: models.ViewDashboard})

	users, err := c.FetchAllUsers(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestDecodeError(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"count":"many"}`)
	c := newTestClient(t, srv.URL, &fakeCreds{}, &fakeNav{current: models.ViewDashboard})

	_, err := c.BlockUsers(context.Background(), []int64{1})
	require.ErrorContains(t, err, "decode response")
}

func TestPing(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"status":"ok"}`)
	c := newTestClient(t, srv.URL, &fakeCreds{}, &fakeNav{})
	require.NoError(t, c.Ping(context.Background()))

	srv2, _ := newTestServer(t, http.StatusOK, `{"status":"degraded"}`)
	c2 := newTestClient(t, srv2.URL, &fakeCreds{}, &fakeNav{})
	require.ErrorIs(t, c2.Ping(context.Background()), ErrUnavailable)
}

func TestAPIError_ErrorString(t *testing.T) {
	e := &APIError{Op: "block", Status: 400, Message: "userIds required"}
	assert.Equal(t, "block: 400 userIds required", e.Error())

	e = &APIError{Op: "list users", Status: 502}
	assert.Equal(t, "list users: 502 Bad Gateway", e.Error())
}
