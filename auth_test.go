package roadauth

import (
	"context"
	"errors"
	"testing"

	"github.com/roadinfra/roadauth/permission"
	"github.com/roadinfra/roadauth/session"
)

func TestLoginStoresSession(t *testing.T) {
	p := newFakePlatform(t)
	c := newTestClient(t, p)

	res := login(t, c)
	if res.AccessToken != "T1" || res.RefreshToken != "R1" {
		t.Fatalf("grant = %q/%q, want T1/R1", res.AccessToken, res.RefreshToken)
	}

	snap := c.Sessions().Get()
	if !snap.Authenticated {
		t.Fatal("session should be authenticated")
	}
	if snap.User == nil || snap.User.Username != "admin" {
		t.Fatalf("user = %+v, want admin", snap.User)
	}
	if !c.IsAdmin() || !c.CanManageUsers() {
		t.Fatal("admin predicates should hold after login")
	}

	if got := c.MetricsSnapshot().Counters[MetricLoginSuccess]; got != 1 {
		t.Fatalf("login success counter = %d, want 1", got)
	}
}

func TestLoginValidation(t *testing.T) {
	p := newFakePlatform(t)
	c := newTestClient(t, p)

	_, err := c.Login(context.Background(), LoginRequest{Username: "", Password: "x"})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}
	if got := c.MetricsSnapshot().Counters[MetricLoginFailure]; got != 0 {
		t.Fatalf("login failure counter = %d: validation rejects must not count as exchanges", got)
	}
}

func TestManualRefresh(t *testing.T) {
	p := newFakePlatform(t)
	c := newTestClient(t, p)
	login(t, c)
	p.rotate()

	res, err := c.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if res.AccessToken != "T2" {
		t.Fatalf("access token = %q, want T2", res.AccessToken)
	}
	if snap := c.Sessions().Get(); snap.RefreshToken != "R2" {
		t.Fatalf("stored refresh token = %q, want R2", snap.RefreshToken)
	}
}

func TestManualRefreshWithoutToken(t *testing.T) {
	p := newFakePlatform(t)
	c := newTestClient(t, p)

	_, err := c.Refresh(context.Background())
	if !errors.Is(err, ErrNoRefreshToken) {
		t.Fatalf("err = %v, want ErrNoRefreshToken", err)
	}
}

func TestRejectedManualRefreshClearsSession(t *testing.T) {
	p := newFakePlatform(t)
	c := newTestClient(t, p)
	login(t, c)

	p.mu.Lock()
	p.failRefresh = true
	p.mu.Unlock()

	_, err := c.Refresh(context.Background())
	if !errors.Is(err, ErrRefreshInvalid) {
		t.Fatalf("err = %v, want ErrRefreshInvalid", err)
	}
	if c.Sessions().Get().Authenticated {
		t.Fatal("session should be cleared after a rejected refresh")
	}
}

func TestLogoutRevokesAndClears(t *testing.T) {
	p := newFakePlatform(t)
	c := newTestClient(t, p)
	login(t, c)

	c.Logout(context.Background())

	snap := c.Sessions().Get()
	if snap.Authenticated || snap.User != nil || snap.AccessToken != "" || snap.RefreshToken != "" {
		t.Fatalf("session not fully cleared: %+v", snap)
	}

	p.mu.Lock()
	calls, tok := p.logoutCalls, p.lastLogoutToken
	p.mu.Unlock()
	if calls != 1 || tok != "R1" {
		t.Fatalf("logout revocation: calls=%d token=%q, want 1/R1", calls, tok)
	}

	// Logout without a session is a no-op, not an error.
	c.Logout(context.Background())
}

func TestMeUpdatesSessionUser(t *testing.T) {
	p := newFakePlatform(t)
	c := newTestClient(t, p)
	login(t, c)

	user, err := c.Me(context.Background())
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if user.Username != "admin" {
		t.Fatalf("user = %+v", user)
	}

	c.Logout(context.Background())
	if _, err := c.Me(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("err = %v, want ErrNotAuthenticated after logout", err)
	}
}

func TestChangePasswordValidation(t *testing.T) {
	p := newFakePlatform(t)
	c := newTestClient(t, p)
	login(t, c)

	cases := []struct {
		name string
		req  ChangePasswordRequest
	}{
		{"mismatched confirmation", ChangePasswordRequest{
			CurrentPassword: "admin123", NewPassword: "longenough", ConfirmPassword: "different",
		}},
		{"same as current", ChangePasswordRequest{
			CurrentPassword: "admin123", NewPassword: "admin123", ConfirmPassword: "admin123",
		}},
		{"too short", ChangePasswordRequest{
			CurrentPassword: "admin123", NewPassword: "short", ConfirmPassword: "short",
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := c.ChangePassword(context.Background(), tc.req); !errors.Is(err, ErrInvalidRequest) {
				t.Fatalf("err = %v, want ErrInvalidRequest", err)
			}
		})
	}
}

func TestChangePasswordClearsForcedFlag(t *testing.T) {
	p := newFakePlatform(t)
	p.passwordChange = true
	c := newTestClient(t, p)
	login(t, c)

	if !c.Sessions().Get().MustChangePassword {
		t.Fatal("forced-change flag should be set from the grant")
	}

	err := c.ChangePassword(context.Background(), ChangePasswordRequest{
		CurrentPassword: "admin123",
		NewPassword:     "longenough",
		ConfirmPassword: "longenough",
	})
	if err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if c.Sessions().Get().MustChangePassword {
		t.Fatal("forced-change flag should be cleared after rotation")
	}
}

func TestValidateToken(t *testing.T) {
	p := newFakePlatform(t)
	c := newTestClient(t, p)

	// /validate is not served by the fake, so any response is a 404 and
	// validation reports false without touching the session.
	if c.ValidateToken(context.Background()) {
		t.Fatal("validation should fail against a missing endpoint")
	}
}

func TestSessionSurvivesClientRestart(t *testing.T) {
	p := newFakePlatform(t)
	backend := session.NewMemoryBackend()

	c1 := newTestClient(t, p, func(b *Builder) { b.WithSessionBackend(backend) })
	login(t, c1)
	c1.Close()

	c2 := newTestClient(t, p, func(b *Builder) { b.WithSessionBackend(backend) })
	snap := c2.Sessions().Get()
	if !snap.Authenticated || snap.AccessToken != "T1" {
		t.Fatalf("restored session = %+v, want authenticated with T1", snap)
	}
	if !c2.HasPermission(permission.SystemAdmin) {
		t.Fatal("restored admin session should keep its permissions")
	}
}

func TestEventSinkObservesLifecycle(t *testing.T) {
	p := newFakePlatform(t)
	sink := NewChannelSink(16)
	c := newTestClient(t, p, func(b *Builder) { b.WithEventSink(sink) })

	login(t, c)
	e := waitEvent(t, sink, EventTypeLogin)
	if !e.Success || e.UserID != "u-1" {
		t.Fatalf("login event = %+v", e)
	}

	c.Logout(context.Background())
	waitEvent(t, sink, EventTypeLogout)
}
