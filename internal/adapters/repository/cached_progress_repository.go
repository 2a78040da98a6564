package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/domain"
	"github.com/comitanigiacomo/khatma-sync-engine/internal/logger"
)

var _ domain.ProgressRepository = (*CachedProgressRepository)(nil)

const (
	progressCacheTTL   = 30 * time.Minute
	generationCacheTTL = 24 * time.Hour
)

// CachedProgressRepository serves the full progress list from redis. Lists
// are stored under the user's current generation and every write bumps it,
// so a snapshot read before a write can never be served after it.
// Single rows always come from the store so the version check sees fresh data.
type CachedProgressRepository struct {
	next  domain.ProgressRepository
	cache *redis.Client
}

func NewCachedProgressRepository(next domain.ProgressRepository, cache *redis.Client) *CachedProgressRepository {
	return &CachedProgressRepository{
		next:  next,
		cache: cache,
	}
}

func (r *CachedProgressRepository) cacheKey(userID string, generation int64) string {
	return fmt.Sprintf("progress:list:%s:%d", userID, generation)
}

func (r *CachedProgressRepository) generationKey(userID string) string {
	return fmt.Sprintf("progress:gen:%s", userID)
}

func (r *CachedProgressRepository) generation(ctx context.Context, userID string) (int64, error) {
	gen, err := r.cache.Get(ctx, r.generationKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// invalidate runs after the store write has committed. The bump retires the
// current list key even when a concurrent reader stores a stale snapshot under it.
func (r *CachedProgressRepository) invalidate(ctx context.Context, userID string) {
	genKey := r.generationKey(userID)
	_, err := r.cache.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, generationCacheTTL)
		return nil
	})
	if err != nil {
		logger.Warn("Cache invalidation failed", "user", userID, "err", err)
	}
}

func (r *CachedProgressRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.SurahProgress, error) {
	gen, err := r.generation(ctx, userID)
	if err != nil {
		logger.Warn("Redis read error", "err", err)
		return r.next.ListByUserID(ctx, userID)
	}
	key := r.cacheKey(userID, gen)

	val, err := r.cache.Get(ctx, key).Bytes()
	if err == nil {
		var rows []*domain.SurahProgress
		if err := json.Unmarshal(val, &rows); err == nil {
			for _, p := range rows {
				p.UserID = userID
			}
			return rows, nil
		}

		logger.Warn("Corrupted progress cache entry, cleaning up key", "user", userID)
		r.cache.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		logger.Warn("Redis read error", "err", err)
	}

	rows, err := r.next.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(rows); err == nil {
		if setErr := r.cache.Set(ctx, key, data, progressCacheTTL).Err(); setErr != nil {
			logger.Warn("Redis set error", "err", setErr)
		}
	}

	return rows, nil
}

func (r *CachedProgressRepository) GetSurah(ctx context.Context, userID string, number int) (*domain.SurahProgress, error) {
	return r.next.GetSurah(ctx, userID, number)
}

func (r *CachedProgressRepository) InitializeUser(ctx context.Context, userID string) (int, error) {
	created, err := r.next.InitializeUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if created > 0 {
		r.invalidate(ctx, userID)
	}
	return created, nil
}

func (r *CachedProgressRepository) Update(ctx context.Context, p *domain.SurahProgress) error {
	if err := r.next.Update(ctx, p); err != nil {
		return err
	}
	r.invalidate(ctx, p.UserID)
	return nil
}

func (r *CachedProgressRepository) ResetAll(ctx context.Context, userID string) error {
	defer r.invalidate(ctx, userID)
	return r.next.ResetAll(ctx, userID)
}
