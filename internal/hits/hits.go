// Package hits tracks per-post view counters in Valkey. The detail page
// increments a post's counter on every view; the popularity ranking reads
// counters in bulk. Counters survive restarts (no TTL) and default to zero
// for posts that were never viewed.
package hits

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces hit-counter keys in Valkey.
const keyPrefix = "hits:"

// Counter manages view counts in Valkey.
type Counter struct {
	client *redis.Client
}

// NewCounter creates a hit counter backed by the given Valkey client.
func NewCounter(client *redis.Client) *Counter {
	return &Counter{client: client}
}

// Hit increments the view count for a post and returns the new total.
func (c *Counter) Hit(ctx context.Context, postID uuid.UUID) (int64, error) {
	n, err := c.client.Incr(ctx, keyPrefix+postID.String()).Result()
	if err != nil {
		return 0, fmt.Errorf("hits incr %s: %w", postID, err)
	}
	return n, nil
}

// Count returns the view count for a single post (zero when never viewed).
func (c *Counter) Count(ctx context.Context, postID uuid.UUID) (int64, error) {
	val, err := c.client.Get(ctx, keyPrefix+postID.String()).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("hits get %s: %w", postID, err)
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("hits parse %s: %w", postID, err)
	}
	return n, nil
}

// Counts bulk-reads view counts for the given posts with a single MGET.
// Missing counters come back as zero.
func (c *Counter) Counts(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	result := make(map[uuid.UUID]int64, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	keys := make([]string, len(postIDs))
	for i, id := range postIDs {
		keys[i] = keyPrefix + id.String()
	}

	vals, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("hits mget: %w", err)
	}

	for i, v := range vals {
		if v == nil {
			result[postIDs[i]] = 0
			continue
		}
		s, ok := v.(string)
		if !ok {
			result[postIDs[i]] = 0
			continue
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("hits parse %s: %w", postIDs[i], err)
		}
		result[postIDs[i]] = n
	}
	return result, nil
}
