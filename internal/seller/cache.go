package seller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Qwwn/capstone-sangar/internal/domain"
)

const cacheKeyPrefix = "seller:"

// CachedDirectory is a read-through redis cache in front of another
// Directory. Search enrichment looks up the same handful of sellers over and
// over, so even a short TTL removes most directory round trips. Cache
// failures fall back to the inner directory; only NotFound and upstream
// errors propagate.
type CachedDirectory struct {
	inner  Directory
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedDirectory wraps a Directory with a redis cache.
func NewCachedDirectory(inner Directory, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedDirectory {
	return &CachedDirectory{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// GetSellerByID returns the cached seller when present, otherwise resolves
// through the inner directory and populates the cache.
func (d *CachedDirectory) GetSellerByID(ctx context.Context, id string) (*domain.Seller, error) {
	key := cacheKeyPrefix + id

	data, err := d.client.Get(ctx, key).Bytes()
	if err == nil {
		var s domain.Seller
		if err := json.Unmarshal(data, &s); err == nil {
			return &s, nil
		}
		// Corrupt cache entry; fall through to the directory.
		d.logger.WarnContext(ctx, "corrupt seller cache entry",
			slog.String("seller_id", id),
		)
	} else if !errors.Is(err, redis.Nil) {
		d.logger.WarnContext(ctx, "seller cache read failed",
			slog.String("seller_id", id),
			slog.String("error", err.Error()),
		)
	}

	s, err := d.inner.GetSellerByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(s); err == nil {
		if err := d.client.Set(ctx, key, data, d.ttl).Err(); err != nil {
			d.logger.WarnContext(ctx, "seller cache write failed",
				slog.String("seller_id", id),
				slog.String("error", err.Error()),
			)
		}
	}

	return s, nil
}

// Invalidate removes a seller from the cache.
func (d *CachedDirectory) Invalidate(ctx context.Context, id string) error {
	if err := d.client.Del(ctx, cacheKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("invalidate seller cache: %w", err)
	}
	return nil
}
