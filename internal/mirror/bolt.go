package mirror

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"
)

var (
	boltBucket = []byte("session")
	boltKey    = []byte("current")
)

// Bolt stores the snapshot in a local bbolt file, the default for a gateway
// running on a single host.
type Bolt struct {
	db *bbolt.DB
}

var _ Mirror = (*Bolt)(nil)

func OpenBolt(path string) (*Bolt, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening mirror db: %w", err)
	}
	return &Bolt{db: db}, nil
}

func (b *Bolt) Close() error {
	return b.db.Close()
}

func (b *Bolt) Read(_ context.Context) (Snapshot, error) {
	var snap Snapshot
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(boltBucket)
		if bucket == nil {
			return ErrNoSession
		}
		data := bucket.Get(boltKey)
		if data == nil {
			return ErrNoSession
		}
		if err := json.Unmarshal(data, &snap); err != nil {
			return ErrNoSession
		}
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	if snap.Version != SnapshotVersion || snap.Token == "" {
		return Snapshot{}, ErrNoSession
	}
	return snap, nil
}

func (b *Bolt) Write(_ context.Context, snap Snapshot) error {
	snap.Version = SnapshotVersion
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(boltBucket)
		if err != nil {
			return err
		}
		return bucket.Put(boltKey, data)
	})
}

func (b *Bolt) Clear(_ context.Context) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(boltBucket)
		if bucket == nil {
			return nil
		}
		return bucket.Delete(boltKey)
	})
}
