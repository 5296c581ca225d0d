package roadauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/roadinfra/roadauth/permission"
)

// fakePlatform is an in-process stand-in for the monitoring backend.
// It accepts admin/admin123, hands out rotating token pairs, and
// serves one bearer-guarded resource at /api/protected.
type fakePlatform struct {
	srv *httptest.Server

	mu              sync.Mutex
	accessToken     string
	refreshToken    string
	generation      int
	refreshCalls    int
	protectedHits   int
	logoutCalls     int
	lastLogoutToken string
	failRefresh     bool
	rejectProtected bool
	passwordChange  bool

	// refreshGate, when set, blocks the refresh handler until closed.
	// refreshStarted fires once the handler has been entered.
	refreshGate    chan struct{}
	refreshStarted chan struct{}
}

func newFakePlatform(t *testing.T) *fakePlatform {
	t.Helper()
	p := &fakePlatform{
		accessToken:  "T1",
		refreshToken: "R1",
		generation:   1,
	}
	// Method-qualified ServeMux patterns ("POST /path") need Go 1.22;
	// requireMethod replicates their 405-on-mismatch behavior on Go 1.21.
	requireMethod := func(method string, h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Method != method {
				http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
				return
			}
			h(w, r)
		}
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/auth/login", requireMethod(http.MethodPost, p.handleLogin))
	mux.HandleFunc("/v1/auth/refresh", requireMethod(http.MethodPost, p.handleRefresh))
	mux.HandleFunc("/v1/auth/logout", requireMethod(http.MethodPost, p.handleLogout))
	mux.HandleFunc("/v1/auth/change-password", requireMethod(http.MethodPost, p.handleChangePassword))
	mux.HandleFunc("/v1/auth/me", requireMethod(http.MethodGet, p.handleMe))
	mux.HandleFunc("/api/protected", requireMethod(http.MethodGet, p.handleProtected))
	p.srv = httptest.NewServer(mux)
	t.Cleanup(p.srv.Close)
	return p
}

func (p *fakePlatform) user() *User {
	return &User{
		ID:       "u-1",
		Username: "admin",
		Role:     permission.RoleAdmin,
	}
}

func (p *fakePlatform) grant() LoginResult {
	return LoginResult{
		AccessToken:            p.accessToken,
		RefreshToken:           p.refreshToken,
		TokenType:              "Bearer",
		ExpiresIn:              900,
		User:                   p.user(),
		RequiresPasswordChange: p.passwordChange,
	}
}

// rotate invalidates the current access token and arms the next token
// pair, which the refresh endpoint will hand out.
func (p *fakePlatform) rotate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generation++
	p.accessToken = fmt.Sprintf("T%d", p.generation)
}

func (p *fakePlatform) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	json.NewDecoder(r.Body).Decode(&req)
	if req.Username != "admin" || req.Password != "admin123" {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	writeData(w, p.grant())
}

func (p *fakePlatform) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	json.NewDecoder(r.Body).Decode(&req)

	p.mu.Lock()
	p.refreshCalls++
	gate := p.refreshGate
	started := p.refreshStarted
	fail := p.failRefresh
	current := p.refreshToken
	p.mu.Unlock()

	if started != nil {
		select {
		case started <- struct{}{}:
		default:
		}
	}
	if gate != nil {
		<-gate
	}

	if fail || req.RefreshToken != current {
		writeError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.refreshToken = fmt.Sprintf("R%d", p.generation)
	writeData(w, p.grant())
}

func (p *fakePlatform) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	json.NewDecoder(r.Body).Decode(&req)
	p.mu.Lock()
	p.logoutCalls++
	p.lastLogoutToken = req.RefreshToken
	p.mu.Unlock()
	writeData(w, struct{}{})
}

func (p *fakePlatform) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	if !p.bearerOK(r) {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeData(w, struct{}{})
}

func (p *fakePlatform) handleMe(w http.ResponseWriter, r *http.Request) {
	if !p.bearerOK(r) {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeData(w, p.user())
}

func (p *fakePlatform) handleProtected(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	p.protectedHits++
	reject := p.rejectProtected
	p.mu.Unlock()
	if reject || !p.bearerOK(r) {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeData(w, map[string]int{"value": 42})
}

func (p *fakePlatform) bearerOK(r *http.Request) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return r.Header.Get("Authorization") == "Bearer "+p.accessToken
}

func (p *fakePlatform) stats() (refreshCalls, protectedHits int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.refreshCalls, p.protectedHits
}

func writeData(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "success",
		"message": "ok",
		"data":    data,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "error",
		"message": message,
	})
}

func newTestClient(t *testing.T, p *fakePlatform, opts ...func(*Builder)) *Client {
	t.Helper()
	b := New().WithBaseURL(p.srv.URL)
	for _, opt := range opts {
		opt(b)
	}
	c, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func login(t *testing.T, c *Client) *LoginResult {
	t.Helper()
	res, err := c.Login(context.Background(), LoginRequest{Username: "admin", Password: "admin123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	return res
}

func getProtected(t *testing.T, c *Client, p *fakePlatform) *http.Response {
	t.Helper()
	resp, err := c.HTTPClient().Get(p.srv.URL + "/api/protected")
	if err != nil {
		t.Fatalf("GET protected: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func waitEvent(t *testing.T, sink *ChannelSink, eventType string) Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case e := <-sink.Events():
			if e.EventType == eventType {
				return e
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q event", eventType)
		}
	}
}

func signIn(c *Client, u *User) {
	c.Sessions().SetAuth(u, "access", "refresh")
}

func roleUser(role permission.Role) *User {
	return &User{
		ID:       "u-" + strings.ToLower(string(role)),
		Username: strings.ToLower(string(role)),
		Role:     role,
	}
}
