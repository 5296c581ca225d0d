package roadauth

import (
	"context"
	"sync"
)

type flightState int

const (
	flightIdle flightState = iota
	flightRefreshing
)

type flightResult struct {
	token string
	err   error
}

// refreshFlight collapses concurrent refresh demands into a single
// exchange. The first caller runs the refresh; everyone arriving while
// it is in flight parks on a channel and receives the winner's result.
type refreshFlight struct {
	mu      sync.Mutex
	state   flightState
	waiters []chan flightResult

	run    func(ctx context.Context) (string, error)
	onJoin func()
}

func newRefreshFlight(run func(ctx context.Context) (string, error)) *refreshFlight {
	return &refreshFlight{run: run}
}

// await returns the access token produced by the current or a freshly
// started refresh. Joined callers can bail out via ctx; the winner's
// refresh itself runs under the winner's ctx.
func (f *refreshFlight) await(ctx context.Context) (string, error) {
	f.mu.Lock()
	if f.state == flightRefreshing {
		ch := make(chan flightResult, 1)
		f.waiters = append(f.waiters, ch)
		f.mu.Unlock()
		if f.onJoin != nil {
			f.onJoin()
		}
		select {
		case r := <-ch:
			return r.token, r.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	f.state = flightRefreshing
	f.mu.Unlock()

	token, err := f.run(ctx)

	f.mu.Lock()
	f.state = flightIdle
	waiters := f.waiters
	f.waiters = nil
	f.mu.Unlock()

	for _, ch := range waiters {
		ch <- flightResult{token: token, err: err}
	}
	return token, err
}
