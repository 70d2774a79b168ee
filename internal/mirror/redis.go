package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/datdenkikniet/Peroxidecast/internal/watch"
)

// Key is the hash the watcher mirrors the panel into: one field per mount,
// JSON display block as the value.
const Key = "peroxidecast:mounts"

// TTL keeps stale data from outliving a dead watcher for long. Each pass
// refreshes it.
const TTL = 5 * time.Minute

// Mirror keeps a redis hash in step with the panel so other services can
// read current mount state without talking to the station.
type Mirror struct {
	Client *redis.Client
}

// New returns nil when no address is configured; a nil Mirror is simply
// not wired into the watcher.
func New(addr, password string, db int) *Mirror {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	log.Printf("🔁 Mirror enabled at %s", addr)
	return &Mirror{Client: client}
}

// Publish upserts every block and deletes hash fields for mounts that are
// gone, so the hash stays a clean current view.
func (m *Mirror) Publish(ctx context.Context, blocks []watch.DisplayBlock) error {
	if m == nil || m.Client == nil {
		return fmt.Errorf("nil redis client")
	}

	existing, err := m.Client.HKeys(ctx, Key).Result()
	if err != nil {
		return fmt.Errorf("redis HKEYS %s: %w", Key, err)
	}

	pipe := m.Client.Pipeline()

	keep := make(map[string]struct{}, len(blocks))
	for _, block := range blocks {
		keep[block.Name] = struct{}{}
		b, err := json.Marshal(block)
		if err != nil {
			return fmt.Errorf("marshal block %s: %w", block.Name, err)
		}
		pipe.HSet(ctx, Key, block.Name, string(b))
	}

	var toDelete []string
	for _, field := range existing {
		if _, ok := keep[field]; !ok {
			toDelete = append(toDelete, field)
		}
	}
	if len(toDelete) > 0 {
		pipe.HDel(ctx, Key, toDelete...)
	}

	pipe.Expire(ctx, Key, TTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline exec %s: %w", Key, err)
	}
	return nil
}
