package roadauth

import (
	"io"
	"net/http"
	"strings"

	"github.com/roadinfra/roadauth/internal/metrics"
	"github.com/roadinfra/roadauth/session"
)

// authTransport attaches the session's bearer token to outgoing
// requests and transparently retries a request once after refreshing
// an expired session.
//
// On a 401 the transport funnels through the shared refreshFlight, so
// any number of concurrent rejections trigger exactly one refresh
// exchange. The retry goes straight to the base RoundTripper: a second
// 401 surfaces to the caller untouched. Requests to the auth endpoints
// themselves are never intercepted, and neither are requests whose
// body cannot be replayed.
type authTransport struct {
	base     http.RoundTripper
	sessions *session.Store
	flight   *refreshFlight
	metrics  *metrics.Metrics

	// authPrefix is the URL path under which the auth endpoints live.
	authPrefix string
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	attempt := req.Clone(req.Context())
	if token := t.sessions.Get().AccessToken; token != "" {
		attempt.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := t.base.RoundTrip(attempt)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	if t.isAuthPath(req.URL.Path) {
		return resp, nil
	}
	if req.Body != nil && req.GetBody == nil {
		return resp, nil
	}

	token, ferr := t.flight.await(req.Context())
	if ferr != nil {
		// Refresh was impossible or rejected. The original 401 is the
		// caller's answer; session cleanup already happened inside the
		// refresh path when it applied.
		return resp, nil
	}

	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, berr := req.GetBody()
		if berr != nil {
			return resp, nil
		}
		retry.Body = body
	}

	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	retry.Header.Set("Authorization", "Bearer "+token)
	t.metrics.Inc(metrics.MetricRequestRetried)
	return t.base.RoundTrip(retry)
}

func (t *authTransport) isAuthPath(path string) bool {
	return strings.HasPrefix(path, t.authPrefix)
}
