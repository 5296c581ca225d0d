package roadauth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/roadinfra/roadauth/internal/metrics"
)

// Login exchanges credentials for a token grant and signs the session
// in. A 401 from the platform maps to [ErrInvalidCredentials].
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	res, err := postJSON[LoginResult](ctx, c.rawClient, c.authURL("/login"), req)
	if err != nil {
		c.metrics.Inc(metrics.MetricLoginFailure)
		c.emitEvent(EventTypeLogin, req.Username, false, err, nil)
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, apiErr.Message)
		}
		return nil, err
	}

	if res.User != nil && res.RequiresPasswordChange {
		res.User.MustChangePassword = true
	}
	c.sessions.SetAuth(res.User, res.AccessToken, res.RefreshToken)
	c.metrics.Inc(metrics.MetricLoginSuccess)
	c.emitEvent(EventTypeLogin, userID(res.User), true, nil, nil)
	return res, nil
}

// Refresh exchanges the stored refresh token for a new grant. On a
// rejected exchange the session is cleared and [ErrRefreshInvalid]
// returned. A logout racing the exchange wins: the result is discarded
// and [ErrSessionSuperseded] returned.
func (c *Client) Refresh(ctx context.Context) (*LoginResult, error) {
	snap, epoch := c.sessions.GetWithEpoch()
	if snap.RefreshToken == "" {
		return nil, ErrNoRefreshToken
	}

	res, err := c.postRefresh(ctx, snap.RefreshToken)
	if err != nil {
		c.failRefresh(snap.Authenticated, err)
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: %s", ErrRefreshInvalid, apiErr.Message)
		}
		return nil, err
	}

	if err := c.commitRefresh(epoch, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Logout revokes the refresh token server-side on a best-effort basis
// and unconditionally clears the local session.
func (c *Client) Logout(ctx context.Context) {
	snap := c.sessions.Get()
	if snap.RefreshToken != "" {
		if _, err := postJSON[struct{}](ctx, c.rawClient, c.authURL("/logout"), logoutRequest{RefreshToken: snap.RefreshToken}); err != nil {
			log.Print("roadauth: logout revocation failed: ", err)
		}
	}
	c.sessions.Clear()
	c.emitEvent(EventTypeLogout, userID(snap.User), true, nil, nil)
}

// Me fetches the current principal from the platform and folds it into
// the session.
func (c *Client) Me(ctx context.Context) (*User, error) {
	if !c.sessions.Get().Authenticated {
		return nil, ErrNotAuthenticated
	}
	user, err := getJSON[User](ctx, c.httpClient, c.authURL("/me"))
	if err != nil {
		return nil, err
	}
	c.sessions.UpdateUser(user)
	return user, nil
}

// ChangePassword rotates the current user's password and clears the
// forced-change flag on success.
func (c *Client) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	if err := c.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if !c.sessions.Get().Authenticated {
		return ErrNotAuthenticated
	}
	if _, err := postJSON[struct{}](ctx, c.httpClient, c.authURL("/change-password"), req); err != nil {
		return err
	}
	c.sessions.SetMustChangePassword(false)
	c.emitEvent(EventTypePasswordChanged, userID(c.sessions.Get().User), true, nil, nil)
	return nil
}

// ValidateToken asks the platform whether the current access token is
// still accepted.
func (c *Client) ValidateToken(ctx context.Context) bool {
	_, err := getJSON[struct{}](ctx, c.httpClient, c.authURL("/validate"))
	return err == nil
}

// refreshForRetry is the refresh exchange run under the single-flight
// coordinator by the intercepting transport. A rejected exchange
// clears the session (when one was signed in) and fires the
// session-expired hook.
func (c *Client) refreshForRetry(ctx context.Context) (string, error) {
	snap, epoch := c.sessions.GetWithEpoch()
	if snap.RefreshToken == "" {
		return "", ErrNoRefreshToken
	}

	res, err := c.postRefresh(ctx, snap.RefreshToken)
	if err != nil {
		c.failRefresh(snap.Authenticated, err)
		return "", err
	}
	if err := c.commitRefresh(epoch, res); err != nil {
		return "", err
	}
	return res.AccessToken, nil
}

func (c *Client) postRefresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	return postJSON[LoginResult](ctx, c.rawClient, c.authURL("/refresh"), refreshRequest{RefreshToken: refreshToken})
}

func (c *Client) commitRefresh(epoch uint64, res *LoginResult) error {
	if res.User != nil && res.RequiresPasswordChange {
		res.User.MustChangePassword = true
	}
	if err := c.sessions.ApplyRefresh(epoch, res.User, res.AccessToken, res.RefreshToken); err != nil {
		c.metrics.Inc(metrics.MetricRefreshSuperseded)
		return err
	}
	c.metrics.Inc(metrics.MetricRefreshSuccess)
	c.emitEvent(EventTypeRefresh, userID(res.User), true, nil, nil)
	return nil
}

func (c *Client) failRefresh(wasAuthenticated bool, cause error) {
	c.metrics.Inc(metrics.MetricRefreshFailure)
	c.emitEvent(EventTypeRefresh, "", false, cause, nil)
	if !wasAuthenticated {
		return
	}
	c.sessions.Clear()
	c.metrics.Inc(metrics.MetricSessionExpired)
	c.emitEvent(EventTypeSessionExpired, "", false, cause, nil)
	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
}

func (c *Client) authURL(p string) string {
	return strings.TrimRight(c.config.API.BaseURL, "/") + c.config.API.AuthBasePath + p
}

func userID(u *User) string {
	if u == nil {
		return ""
	}
	return u.ID
}

func postJSON[T any](ctx context.Context, client *http.Client, url string, body any) (*T, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return doJSON[T](client, req)
}

func getJSON[T any](ctx context.Context, client *http.Client, url string) (*T, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return doJSON[T](client, req)
}

func doJSON[T any](client *http.Client, req *http.Request) (*T, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var env apiEnvelope[json.RawMessage]
		if json.Unmarshal(raw, &env) == nil && env.Message != "" {
			apiErr.Message = env.Message
		}
		return nil, apiErr
	}

	var env apiEnvelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("roadauth: decode response: %w", err)
	}
	return &env.Data, nil
}
