// Package roadauth is the authenticated client for the road
// infrastructure monitoring platform.
//
// It manages the session token lifecycle (login, refresh, logout),
// answers role and permission questions for dashboard gating, and
// exposes an HTTP client whose transport attaches the bearer token and
// transparently retries a request once after refreshing an expired
// session. Concurrent 401s collapse into a single refresh exchange.
//
// The realtime subpackage carries live sensor, health, and alert
// updates over a websocket channel with bounded reconnection.
//
// Build a client through the fluent builder:
//
//	client, err := roadauth.New().
//		WithBaseURL("https://monitor.example.com/api").
//		WithRealtimeURL("wss://monitor.example.com/ws").
//		Build()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	if _, err := client.Login(ctx, roadauth.LoginRequest{
//		Username: "admin",
//		Password: "secret",
//	}); err != nil {
//		log.Fatal(err)
//	}
//
//	resp, err := client.HTTPClient().Get(apiURL + "/v1/sensors")
package roadauth
