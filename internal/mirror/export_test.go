package mirror

import "go.etcd.io/bbolt"

// putRaw bypasses Write so tests can plant malformed or mis-versioned blobs.
func (b *Bolt) putRaw(data []byte) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(boltBucket)
		if err != nil {
			return err
		}
		return bucket.Put(boltKey, data)
	})
}
