package session

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
)

// StorageKey is the namespaced key under which the session document is
// persisted by every backend.
const StorageKey = "road-infra-auth"

// ErrSuperseded is returned by [Store.ApplyRefresh] when the session was
// cleared after the refresh began. The refresh result must be discarded.
var ErrSuperseded = errors.New("session superseded by logout")

// Store holds the session and guards every read and write. Mutations are
// atomic: a reader never observes a half-updated session, and each mutation
// is persisted synchronously before change subscribers run.
type Store struct {
	backend Backend

	mu    sync.RWMutex
	snap  Snapshot
	epoch uint64

	subMu   sync.Mutex
	subs    map[uint64]func(Snapshot)
	nextSub uint64
}

// NewStore creates a store backed by the given backend and restores any
// previously persisted session. A corrupt persisted document is treated as
// absent: the client starts signed out rather than failing to construct.
func NewStore(backend Backend) (*Store, error) {
	if backend == nil {
		backend = NewMemoryBackend()
	}
	s := &Store{
		backend: backend,
		subs:    make(map[uint64]func(Snapshot)),
	}

	data, err := backend.Load(context.Background())
	if err != nil {
		return nil, err
	}
	if len(data) > 0 {
		var doc document
		if err := json.Unmarshal(data, &doc); err != nil {
			log.Print("roadauth: discarding corrupt persisted session")
		} else {
			s.snap = Snapshot{
				User:               doc.User,
				AccessToken:        doc.AccessToken,
				RefreshToken:       doc.RefreshToken,
				Authenticated:      doc.Authenticated,
				MustChangePassword: doc.MustChangePassword,
			}
		}
	}
	return s, nil
}

// Get returns a copy of the current session.
func (s *Store) Get() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.clone()
}

// Epoch returns the current session epoch. Capture it before starting a
// refresh and pass it to [Store.ApplyRefresh].
func (s *Store) Epoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// GetWithEpoch returns the snapshot together with the epoch it was read
// under. A refresh that will commit through [Store.ApplyRefresh] must
// capture both this way: reading them separately leaves a window where a
// Clear lands between the two reads and the stale token is exchanged
// under a fresh epoch.
func (s *Store) GetWithEpoch() (Snapshot, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.clone(), s.epoch
}

// SetAuth replaces the session with the result of a login or refresh
// exchange and marks it authenticated.
func (s *Store) SetAuth(user *User, accessToken, refreshToken string) {
	mustChange := user != nil && user.MustChangePassword
	s.mu.Lock()
	s.snap = Snapshot{
		User:               user.clone(),
		AccessToken:        accessToken,
		RefreshToken:       refreshToken,
		Authenticated:      true,
		MustChangePassword: mustChange,
	}
	snap := s.snap.clone()
	s.persistLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// ApplyRefresh commits a refresh result, but only when no Clear happened
// since epoch was captured. Identity is replaced when the refresh response
// carried a user, otherwise retained; tokens are always replaced.
func (s *Store) ApplyRefresh(epoch uint64, user *User, accessToken, refreshToken string) error {
	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return ErrSuperseded
	}
	if user != nil {
		s.snap.User = user.clone()
		s.snap.MustChangePassword = user.MustChangePassword
	}
	s.snap.AccessToken = accessToken
	s.snap.RefreshToken = refreshToken
	s.snap.Authenticated = true
	snap := s.snap.clone()
	s.persistLocked()
	s.mu.Unlock()
	s.notify(snap)
	return nil
}

// SetTokens replaces only the token pair, retaining identity and flags.
func (s *Store) SetTokens(accessToken, refreshToken string) {
	s.mu.Lock()
	s.snap.AccessToken = accessToken
	s.snap.RefreshToken = refreshToken
	snap := s.snap.clone()
	s.persistLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// UpdateUser replaces the identity, retaining tokens and flags.
func (s *Store) UpdateUser(user *User) {
	s.mu.Lock()
	s.snap.User = user.clone()
	snap := s.snap.clone()
	s.persistLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// SetMustChangePassword updates the forced-password-change flag.
func (s *Store) SetMustChangePassword(v bool) {
	s.mu.Lock()
	s.snap.MustChangePassword = v
	snap := s.snap.clone()
	s.persistLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// Clear signs the session out: every field is reset, the persisted document
// is deleted, and the epoch advances so an in-flight refresh cannot
// resurrect the cleared session. Idempotent.
func (s *Store) Clear() {
	s.mu.Lock()
	s.snap = Snapshot{}
	s.epoch++
	if err := s.backend.Delete(context.Background()); err != nil {
		log.Print("roadauth: session delete failed")
	}
	s.mu.Unlock()
	s.notify(Snapshot{})
}

// Subscribe registers a change callback and returns its cancel function.
// Callbacks receive a snapshot copy after every committed mutation. Each
// snapshot is self-consistent, but callbacks run outside the store lock:
// when two mutations race, their snapshots may be delivered in either
// order. Callers needing the latest state should read [Store.Get] inside
// the callback rather than trust the delivered snapshot's recency.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) persistLocked() {
	doc := document{
		User:               s.snap.User,
		AccessToken:        s.snap.AccessToken,
		RefreshToken:       s.snap.RefreshToken,
		Authenticated:      s.snap.Authenticated,
		MustChangePassword: s.snap.MustChangePassword,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		log.Print("roadauth: session encode failed")
		return
	}
	if err := s.backend.Save(context.Background(), data); err != nil {
		log.Print("roadauth: session persist failed")
	}
}

// notify runs outside s.mu so callbacks may read the store freely; see
// the delivery-order note on [Store.Subscribe].
func (s *Store) notify(snap Snapshot) {
	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(snap.clone())
	}
}
