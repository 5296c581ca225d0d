package roadauth

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRefreshFlightWinnerRunsOnce(t *testing.T) {
	var calls atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})

	f := newRefreshFlight(func(context.Context) (string, error) {
		calls.Add(1)
		close(entered)
		<-release
		return "fresh-token", nil
	})
	var joined atomic.Int32
	f.onJoin = func() { joined.Add(1) }

	winnerDone := make(chan string, 1)
	go func() {
		tok, _ := f.await(context.Background())
		winnerDone <- tok
	}()
	<-entered

	const joiners = 4
	var wg sync.WaitGroup
	results := make(chan string, joiners)
	for i := 0; i < joiners; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok, err := f.await(context.Background())
			if err != nil {
				t.Errorf("joiner: %v", err)
				return
			}
			results <- tok
		}()
	}

	// Let the joiners park before releasing the winner.
	deadline := time.After(2 * time.Second)
	for joined.Load() < joiners {
		select {
		case <-deadline:
			t.Fatalf("only %d joiners parked", joined.Load())
		default:
			time.Sleep(time.Millisecond)
		}
	}
	close(release)
	wg.Wait()
	close(results)

	if tok := <-winnerDone; tok != "fresh-token" {
		t.Fatalf("winner token = %q", tok)
	}
	for tok := range results {
		if tok != "fresh-token" {
			t.Fatalf("joiner token = %q, want the winner's result", tok)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("refresh ran %d times, want 1", calls.Load())
	}
}

func TestRefreshFlightPropagatesFailure(t *testing.T) {
	boom := errors.New("exchange rejected")
	f := newRefreshFlight(func(context.Context) (string, error) {
		return "", boom
	})

	if _, err := f.await(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want the refresh error", err)
	}

	// The flight resets to idle: a later call runs a fresh exchange.
	f.run = func(context.Context) (string, error) { return "ok", nil }
	tok, err := f.await(context.Background())
	if err != nil || tok != "ok" {
		t.Fatalf("second flight = %q/%v", tok, err)
	}
}

func TestRefreshFlightJoinerHonorsContext(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	f := newRefreshFlight(func(context.Context) (string, error) {
		close(entered)
		<-release
		return "tok", nil
	})

	go f.await(context.Background())
	<-entered

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.await(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	close(release)
}
