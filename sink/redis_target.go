package sink

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/shadowmint/loghaul"
	"github.com/shadowmint/loghaul/metrics"
)

// RedisTarget RPUSHes every Data record onto a Redis list via
// github.com/redis/go-redis/v9, grounded on Mangaal-argocd-agent's cache
// layer around the same client.
type RedisTarget struct {
	client *redis.Client
	key    string
	ctx    context.Context
}

// NewRedisTarget builds a RedisTarget that pushes onto key using client.
func NewRedisTarget(client *redis.Client, key string) *RedisTarget {
	return &RedisTarget{client: client, key: key, ctx: context.Background()}
}

// Consume implements loghaul.Target. NoData and EOF tags are ignored.
func (t *RedisTarget) Consume(entry loghaul.StreamEntry, data []byte) error {
	if entry != loghaul.StreamEntryData {
		return nil
	}
	if err := t.client.RPush(t.ctx, t.key, data).Err(); err != nil {
		metrics.LogErrors.WithLabelValues(t.key).Inc()
		return err
	}
	metrics.LogLines.WithLabelValues(t.key).Inc()
	return nil
}
