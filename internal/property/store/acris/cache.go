package acris

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"parcelview/internal/platform/metrics"
	"parcelview/internal/property/models"
	"parcelview/pkg/domain"
)

// Source is what the cache decorates: any document/party fetcher.
type Source interface {
	FetchDocuments(ctx context.Context, bbl domain.BBL) ([]models.RawDocument, error)
	FetchParties(ctx context.Context, documentIDs []string) ([]models.RawParty, error)
}

// Cache is a read-through Redis cache in front of a Source. Cache failures
// degrade to a live fetch; they are logged and never surfaced.
type Cache struct {
	source  Source
	client  *redis.Client
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type CacheOption func(*Cache)

func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *Cache) {
		c.logger = logger
	}
}

func WithCacheMetrics(m *metrics.Metrics) CacheOption {
	return func(c *Cache) {
		c.metrics = m
	}
}

func NewCache(source Source, client *redis.Client, ttl time.Duration, opts ...CacheOption) (*Cache, error) {
	if source == nil {
		return nil, fmt.Errorf("source is required")
	}
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("ttl must be positive")
	}

	c := &Cache{
		source: source,
		client: client,
		ttl:    ttl,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *Cache) FetchDocuments(ctx context.Context, bbl domain.BBL) ([]models.RawDocument, error) {
	key := "acris:docs:" + bbl.String()

	var cached []models.RawDocument
	if c.lookup(ctx, key, "documents", &cached) {
		return cached, nil
	}

	docs, err := c.source.FetchDocuments(ctx, bbl)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, docs)
	return docs, nil
}

func (c *Cache) FetchParties(ctx context.Context, documentIDs []string) ([]models.RawParty, error) {
	key := "acris:parties:" + partySetKey(documentIDs)

	var cached []models.RawParty
	if c.lookup(ctx, key, "parties", &cached) {
		return cached, nil
	}

	parties, err := c.source.FetchParties(ctx, documentIDs)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, parties)
	return parties, nil
}

// partySetKey derives a stable key from an id set regardless of order.
func partySetKey(documentIDs []string) string {
	ids := make([]string, len(documentIDs))
	copy(ids, documentIDs)
	sort.Strings(ids)
	return strings.Join(ids, ",")
}

// lookup reports whether the key was served from cache, decoding into out.
func (c *Cache) lookup(ctx context.Context, key, kind string, out any) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.DebugContext(ctx, "cache read failed", "key", key, "error", err.Error())
		}
		c.metrics.RecordCacheMiss(kind)
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.logger.DebugContext(ctx, "cache entry corrupt, refetching", "key", key, "error", err.Error())
		c.metrics.RecordCacheMiss(kind)
		return false
	}
	c.metrics.RecordCacheHit(kind)
	return true
}

func (c *Cache) store(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.DebugContext(ctx, "cache encode failed", "key", key, "error", err.Error())
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.DebugContext(ctx, "cache write failed", "key", key, "error", err.Error())
	}
}
