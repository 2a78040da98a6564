package prayer

import (
	"context"
	"strings"
	"time"

	"github.com/comitanigiacomo/khatma-sync-engine/internal/adapters/cache"
	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/domain"
	"github.com/comitanigiacomo/khatma-sync-engine/internal/logger"
)

var _ domain.PrayerTimesProvider = (*CachedProvider)(nil)

// CachedProvider memoizes timings per (day, address).
type CachedProvider struct {
	next  domain.PrayerTimesProvider
	cache *cache.JSONCache
}

func NewCachedProvider(next domain.PrayerTimesProvider, c *cache.JSONCache) *CachedProvider {
	return &CachedProvider{next: next, cache: c}
}

func cacheKey(date time.Time, address string) string {
	return date.Format(time.DateOnly) + ":" + strings.ToLower(strings.TrimSpace(address))
}

func (p *CachedProvider) Timings(ctx context.Context, date time.Time, address string) (map[string]string, error) {
	key := cacheKey(date, address)

	var timings map[string]string
	hit, err := p.cache.Get(ctx, key, &timings)
	if err != nil {
		logger.Warn("Prayer cache read failed", "key", key, "err", err)
	}
	if hit {
		return timings, nil
	}

	timings, err = p.next.Timings(ctx, date, address)
	if err != nil {
		return nil, err
	}

	if err := p.cache.Set(ctx, key, timings); err != nil {
		logger.Warn("Prayer cache write failed", "key", key, "err", err)
	}
	return timings, nil
}
