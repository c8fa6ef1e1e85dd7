package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/light-bringer/decant-catalog/internal/app/product/contracts"
)

const (
	productCachePrefix = "catalog:product"
	productCacheGenKey = "catalog:product:gen"

	// Stamps must outlive any read that holds a ticket for them.
	productCacheStampTTL = 24 * time.Hour
)

var errStaleFill = errors.New("cache fill is stale")

// RedisProductCache caches ProductDTOs as JSON. Keys embed a generation
// number so InvalidateAll is a single INCR; entries of older generations
// simply expire. Every product also has an invalidation stamp, and fills are
// written under WATCH so one that overlaps an invalidation is dropped.
type RedisProductCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisProductCache creates a cache over an already connected client.
func NewRedisProductCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisProductCache {
	return &RedisProductCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("product_cache"),
	}
}

func productCacheKey(gen int64, productID string) string {
	return fmt.Sprintf("%s:%d:%s", productCachePrefix, gen, productID)
}

func productCacheStampKey(productID string) string {
	return fmt.Sprintf("%s:stamp:%s", productCachePrefix, productID)
}

// stringGetter is satisfied by both *redis.Client and the *redis.Tx of a WATCH.
type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// readCounter reads an INCR-maintained key; a missing key is zero.
func readCounter(ctx context.Context, c stringGetter, key string) (int64, error) {
	n, err := c.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

func (c *RedisProductCache) generation(ctx context.Context) (int64, error) {
	return readCounter(ctx, c.client, productCacheGenKey)
}

// Get returns a cached product. Any failure is logged and reported as a miss.
func (c *RedisProductCache) Get(ctx context.Context, productID string) (*contracts.ProductDTO, bool) {
	gen, err := c.generation(ctx)
	if err != nil {
		c.logger.Warn("cache generation read failed", zap.Error(err))
		return nil, false
	}

	data, err := c.client.Get(ctx, productCacheKey(gen, productID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("cache get failed", zap.String("product_id", productID), zap.Error(err))
		return nil, false
	}

	var dto contracts.ProductDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		c.logger.Warn("cache entry is corrupt", zap.String("product_id", productID), zap.Error(err))
		return nil, false
	}
	return &dto, true
}

// Ticket reads the generation and the stamps of productIDs in one round trip.
func (c *RedisProductCache) Ticket(ctx context.Context, productIDs ...string) (contracts.CacheTicket, bool) {
	keys := make([]string, 0, len(productIDs)+1)
	keys = append(keys, productCacheGenKey)
	for _, id := range productIDs {
		keys = append(keys, productCacheStampKey(id))
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		c.logger.Warn("cache ticket read failed", zap.Error(err))
		return contracts.CacheTicket{}, false
	}

	counters := make([]int64, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			c.logger.Warn("cache counter is corrupt", zap.String("key", keys[i]), zap.Error(err))
			return contracts.CacheTicket{}, false
		}
		counters[i] = n
	}

	ticket := contracts.CacheTicket{
		Generation: counters[0],
		Stamps:     make(map[string]int64, len(productIDs)),
	}
	for i, id := range productIDs {
		ticket.Stamps[id] = counters[i+1]
	}
	return ticket, true
}

// Set stores a product for the configured TTL unless the product was
// invalidated after ticket was taken or a newer version is already cached.
func (c *RedisProductCache) Set(ctx context.Context, ticket contracts.CacheTicket, dto *contracts.ProductDTO) {
	data, err := json.Marshal(dto)
	if err != nil {
		c.logger.Warn("cache marshal failed", zap.String("product_id", dto.ProductID), zap.Error(err))
		return
	}

	key := productCacheKey(ticket.Generation, dto.ProductID)
	stampKey := productCacheStampKey(dto.ProductID)

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		gen, err := readCounter(ctx, tx, productCacheGenKey)
		if err != nil {
			return err
		}
		stamp, err := readCounter(ctx, tx, stampKey)
		if err != nil {
			return err
		}
		if gen != ticket.Generation || stamp != ticket.Stamps[dto.ProductID] {
			return errStaleFill
		}

		if cached, err := tx.Get(ctx, key).Bytes(); err == nil {
			var current contracts.ProductDTO
			if json.Unmarshal(cached, &current) == nil && current.Version > dto.Version {
				return errStaleFill
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, c.ttl)
			return nil
		})
		return err
	}, productCacheGenKey, stampKey, key)

	switch {
	case err == nil:
	case errors.Is(err, errStaleFill), errors.Is(err, redis.TxFailedErr):
		c.logger.Debug("cache fill dropped", zap.String("product_id", dto.ProductID), zap.Error(err))
	default:
		c.logger.Warn("cache set failed", zap.String("product_id", dto.ProductID), zap.Error(err))
	}
}

// Invalidate bumps the stamps of the given products and drops their entries
// from the current generation in one transaction.
func (c *RedisProductCache) Invalidate(ctx context.Context, productIDs ...string) {
	if len(productIDs) == 0 {
		return
	}

	gen, err := c.generation(ctx)
	if err != nil {
		c.logger.Warn("cache generation read failed", zap.Error(err))
		return
	}

	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range productIDs {
			pipe.Incr(ctx, productCacheStampKey(id))
			pipe.Expire(ctx, productCacheStampKey(id), productCacheStampTTL)
			pipe.Del(ctx, productCacheKey(gen, id))
		}
		return nil
	})
	if err != nil {
		c.logger.Warn("cache invalidate failed", zap.Strings("product_ids", productIDs), zap.Error(err))
	}
}

// InvalidateAll starts a new generation.
func (c *RedisProductCache) InvalidateAll(ctx context.Context) {
	if err := c.client.Incr(ctx, productCacheGenKey).Err(); err != nil {
		c.logger.Warn("cache invalidate all failed", zap.Error(err))
	}
}

var (
	_ contracts.ProductCache = (*RedisProductCache)(nil)
	_ contracts.ProductCache = NoopProductCache{}
)

// NoopProductCache is used when no Redis address is configured.
type NoopProductCache struct{}

func (NoopProductCache) Get(context.Context, string) (*contracts.ProductDTO, bool) { return nil, false }
func (NoopProductCache) Ticket(context.Context, ...string) (contracts.CacheTicket, bool) {
	return contracts.CacheTicket{}, false
}
func (NoopProductCache) Set(context.Context, contracts.CacheTicket, *contracts.ProductDTO) {}
func (NoopProductCache) Invalidate(context.Context, ...string)                             {}
func (NoopProductCache) InvalidateAll(context.Context)                                     {}
