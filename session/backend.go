package session

import (
	"context"
	"sync"
)

// Backend stores the serialized session document under [StorageKey].
// Implementations must treat an absent document as (nil, nil) from Load and
// make Delete a no-op when nothing is stored.
type Backend interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Delete(ctx context.Context) error
}

// MemoryBackend keeps the document in process memory. Sessions do not
// survive a restart; intended for tests and short-lived tools.
type MemoryBackend struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (b *MemoryBackend) Load(context.Context) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.data == nil {
		return nil, nil
	}
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out, nil
}

func (b *MemoryBackend) Save(_ context.Context, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = make([]byte, len(data))
	copy(b.data, data)
	return nil
}

func (b *MemoryBackend) Delete(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = nil
	return nil
}
