package scripture

import (
	"context"
	"fmt"

	"github.com/comitanigiacomo/khatma-sync-engine/internal/adapters/cache"
	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/domain"
	"github.com/comitanigiacomo/khatma-sync-engine/internal/logger"
)

var _ domain.ScriptureIndex = (*CachedIndex)(nil)

// CachedIndex keeps successful lookups in redis. The printed layout never
// changes, so entries only expire through the cache TTL. Failures are never
// cached and cache errors fall through to the remote index.
type CachedIndex struct {
	next  domain.ScriptureIndex
	cache *cache.JSONCache
}

func NewCachedIndex(next domain.ScriptureIndex, c *cache.JSONCache) *CachedIndex {
	return &CachedIndex{next: next, cache: c}
}

func (i *CachedIndex) lookup(ctx context.Context, key string, dest any) bool {
	hit, err := i.cache.Get(ctx, key, dest)
	if err != nil {
		logger.Warn("Scripture cache read failed", "key", key, "err", err)
		return false
	}
	return hit
}

func (i *CachedIndex) store(ctx context.Context, key string, v any) {
	if err := i.cache.Set(ctx, key, v); err != nil {
		logger.Warn("Scripture cache write failed", "key", key, "err", err)
	}
}

func (i *CachedIndex) VersesOnPage(ctx context.Context, page int) ([]domain.Verse, error) {
	key := fmt.Sprintf("page:%d", page)

	var verses []domain.Verse
	if i.lookup(ctx, key, &verses) {
		return verses, nil
	}

	verses, err := i.next.VersesOnPage(ctx, page)
	if err != nil {
		return nil, err
	}
	i.store(ctx, key, verses)
	return verses, nil
}

func (i *CachedIndex) PageOfVerse(ctx context.Context, surahNumber, verseNumber int) (int, error) {
	key := fmt.Sprintf("verse:%d:%d", surahNumber, verseNumber)

	var page int
	if i.lookup(ctx, key, &page) {
		return page, nil
	}

	page, err := i.next.PageOfVerse(ctx, surahNumber, verseNumber)
	if err != nil {
		return 0, err
	}
	i.store(ctx, key, page)
	return page, nil
}

func (i *CachedIndex) Surahs(ctx context.Context) ([]domain.SurahInfo, error) {
	var surahs []domain.SurahInfo
	if i.lookup(ctx, "catalog", &surahs) {
		return surahs, nil
	}

	surahs, err := i.next.Surahs(ctx)
	if err != nil {
		return nil, err
	}
	i.store(ctx, "catalog", surahs)
	return surahs, nil
}
