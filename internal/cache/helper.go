package cache

import (
	"context"
	"encoding/json"
	"time"
)

func readJSON(ctx context.Context, key string, dest any) bool {
	if client == nil {
		return false
	}
	raw, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func writeJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	if client == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	client.Set(ctx, key, raw, ttl)
}

// Aside reads key into dest, and on a miss calls fetch to populate dest
// from the source, then writes the result back with ttl. Redis errors and
// corrupt entries count as misses; only fetch can fail a read.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	if readJSON(ctx, key, dest) {
		return nil
	}
	if err := fetch(); err != nil {
		return err
	}
	writeJSON(ctx, key, dest, ttl)
	return nil
}
