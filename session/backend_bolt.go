package session

import (
	"context"
	"time"

	bolt "go.etcd.io/bbolt"
)

var boltBucket = []byte("roadauth")

// BoltBackend persists the session document in a bbolt bucket. Suitable for
// kiosk and field-terminal deployments that already carry a local bolt file.
type BoltBackend struct {
	db *bolt.DB
}

// NewBoltBackend opens (or creates) the bolt database at path. The caller
// owns the returned backend and must Close it.
func NewBoltBackend(path string) (*BoltBackend, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}
	return &BoltBackend{db: db}, nil
}

// NewBoltBackendFromDB wraps an already-open bolt database shared with the
// rest of the application.
func NewBoltBackendFromDB(db *bolt.DB) (*BoltBackend, error) {
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	}); err != nil {
		return nil, err
	}
	return &BoltBackend{db: db}, nil
}

func (b *BoltBackend) Load(context.Context) ([]byte, error) {
	var out []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(boltBucket).Get([]byte(StorageKey))
		if data != nil {
			out = make([]byte, len(data))
			copy(out, data)
		}
		return nil
	})
	return out, err
}

func (b *BoltBackend) Save(_ context.Context, data []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltBucket).Put([]byte(StorageKey), data)
	})
}

func (b *BoltBackend) Delete(context.Context) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltBucket).Delete([]byte(StorageKey))
	})
}

// Close closes the underlying database when it was opened by
// [NewBoltBackend].
func (b *BoltBackend) Close() error {
	return b.db.Close()
}
