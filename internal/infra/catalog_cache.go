package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"storefront/internal/domain"
)

const productCacheTTL = 5 * time.Minute

// CachedCatalog is a read-through Redis cache in front of the catalog
// client. Concurrent lookups of the same product are collapsed into one
// upstream call.
type CachedCatalog struct {
	client CatalogClientInterface
	rdb    *redis.Client
	group  singleflight.Group
	logger *zap.Logger
}

func NewCachedCatalog(client CatalogClientInterface, rdb *redis.Client, logger *zap.Logger) *CachedCatalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedCatalog{client: client, rdb: rdb, logger: logger}
}

var _ CatalogClientInterface = (*CachedCatalog)(nil)

func productCacheKey(id uint64) string {
	return fmt.Sprintf("product:%d", id)
}

func (c *CachedCatalog) GetProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	if c.rdb != nil {
		cached, err := c.rdb.Get(ctx, productCacheKey(id)).Result()
		if err == nil {
			var p domain.Product
			if err := json.Unmarshal([]byte(cached), &p); err == nil {
				return &p, nil
			}
		}
	}

	v, err, _ := c.group.Do(strconv.FormatUint(id, 10), func() (any, error) {
		p, err := c.client.GetProduct(ctx, id)
		if err != nil {
			return nil, err
		}
		if c.rdb != nil {
			if data, err := json.Marshal(p); err == nil {
				c.rdb.Set(ctx, productCacheKey(id), data, productCacheTTL)
			}
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Product), nil
}

// Warmup primes the cache for the given ids. Individual failures are
// logged and skipped so a cold product cannot block boot.
func (c *CachedCatalog) Warmup(ctx context.Context, ids []uint64) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			if _, err := c.GetProduct(ctx, id); err != nil {
				c.logger.Warn("catalog warmup skipped product",
					zap.Uint64("product_id", id),
					zap.Error(err))
			}
			return nil
		})
	}
	return g.Wait()
}
