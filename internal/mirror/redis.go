package mirror

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

const defaultRedisKey = "gateway:session"

// Redis stores the snapshot in Redis, for deployments without a writable
// local disk. The caller owns the client's lifecycle.
type Redis struct {
	client *redis.Client
	key    string
}

var _ Mirror = (*Redis)(nil)

func NewRedis(client *redis.Client, key string) *Redis {
	if key == "" {
		key = defaultRedisKey
	}
	return &Redis{client: client, key: key}
}

func (r *Redis) Read(ctx context.Context) (Snapshot, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Snapshot{}, ErrNoSession
		}
		return Snapshot{}, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, ErrNoSession
	}
	if snap.Version != SnapshotVersion || snap.Token == "" {
		return Snapshot{}, ErrNoSession
	}
	return snap, nil
}

func (r *Redis) Write(ctx context.Context, snap Snapshot) error {
	snap.Version = SnapshotVersion
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key, data, 0).Err()
}

func (r *Redis) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}
