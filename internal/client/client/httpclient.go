package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/rosterctl/internal/client/models"
	"github.com/dmitrijs2005/rosterctl/internal/common"
	"github.com/dmitrijs2005/rosterctl/internal/logging"
)

const maxResponseBytes = 8 << 20

// Doer sends an HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type HTTPClient struct {
	baseURL   *url.URL
	doer      Doer
	creds     Credentials
	navigator Navigator
	logger    logging.Logger
	requestID func() string
}

func NewHTTPClient(baseURL string, doer Doer, creds Credentials, nav Navigator, logger logging.Logger) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api url %q: scheme and host required", baseURL)
	}

	return &HTTPClient{
		baseURL:   u,
		doer:      doer,
		creds:     creds,
		navigator: nav,
		logger:    logger.With("module", "gateway"),
		requestID: uuid.NewString,
	}, nil
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type bulkRequest struct {
	UserIDs []int64 `json:"userIds"`
}

type usersResponse struct {
	Data []models.Identity `json:"data"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	var out AuthResult
	err := c.do(ctx, "register", http.MethodPost, "auth/register",
		registerRequest{Name: name, Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var out AuthResult
	err := c.do(ctx, "login", http.MethodPost, "auth/login",
		loginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) VerifyEmail(ctx context.Context, id string) (*AuthResult, error) {
	var out AuthResult
	if err := c.do(ctx, "verify", http.MethodGet, "auth/verify/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) FetchAllUsers(ctx context.Context) ([]models.Identity, error) {
	var out usersResponse
	if err := c.do(ctx, "list users", http.MethodGet, "users", nil, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return []models.Identity{}, nil
	}
	return out.Data, nil
}

func (c *HTTPClient) BlockUsers(ctx context.Context, ids []int64) (*BulkResult, error) {
	return c.bulk(ctx, "block", "users/block", ids)
}

func (c *HTTPClient) UnblockUsers(ctx context.Context, ids []int64) (*BulkResult, error) {
	return c.bulk(ctx, "unblock", "users/unblock", ids)
}

func (c *HTTPClient) DeleteUsers(ctx context.Context, ids []int64) (*BulkResult, error) {
	return c.bulk(ctx, "delete", "users/delete", ids)
}

func (c *HTTPClient) DeleteUnverifiedUsers(ctx context.Context) (*BulkResult, error) {
	var out BulkResult
	if err := c.do(ctx, "delete unverified", http.MethodPost, "users/delete-unverified", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) bulk(ctx context.Context, op, path string, ids []int64) (*BulkResult, error) {
	if ids == nil {
		ids = []int64{}
	}
	var out BulkResult
	if err := c.do(ctx, op, http.MethodPost, path, bulkRequest{UserIDs: ids}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, "ping", http.MethodGet, "health", nil, &out); err != nil {
		return err
	}
	if out.Status != "ok" {
		return ErrUnavailable
	}
	return nil
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(path).String(), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(common.RequestIDHeaderName, c.requestID())
	if token := c.creds.Token(); token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}
	return req, nil
}

func (c *HTTPClient) do(ctx context.Context, op, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	started := time.Now()
	resp, err := c.doer.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s: %w", op, ctxErr)
		}
		c.logger.Warn(ctx, "request failed", "op", op, "error", err)
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}

	c.logger.Debug(ctx, "request done",
		"op", op,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", req.Header.Get(common.RequestIDHeaderName),
		"took", time.Since(started))

	if resp.StatusCode >= http.StatusBadRequest {
		return c.mapError(ctx, op, resp.StatusCode, raw)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func (c *HTTPClient) mapError(ctx context.Context, op string, status int, raw []byte) error {
	apiErr := &APIError{Op: op, Status: status}

	var body errorResponse
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.Message = body.Error
		if apiErr.Message == "" {
			apiErr.Message = body.Message
		}
	}

	if isAuthFailure(status) {
		apiErr.Redirected = c.teardown(ctx)
	}
	return apiErr
}

// teardown clears the session and goes to the login view unless the console
// is on a view that works without a session.
func (c *HTTPClient) teardown(ctx context.Context) bool {
	if c.navigator.Current().Public() {
		return false
	}

	if err := c.creds.Clear(ctx); err != nil && !errors.Is(err, context.Canceled) {
		c.logger.Error(ctx, "session clear after auth failure", "error", err)
	}
	c.navigator.Navigate(models.ViewLogin)
	c.logger.Info(ctx, "session expired or revoked, redirected to login")
	return true
}
