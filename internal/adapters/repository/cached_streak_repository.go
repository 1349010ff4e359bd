package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

var _ domain.StreakRepository = (*CachedStreakRepository)(nil)

const (
	streakCachePrefix = "streaks:lists:"
	streakCacheGenKey = "streaks:lists:gen"
	streakCacheTTL    = 30 * time.Minute
)

// CachedStreakRepository keeps List results in a redis hash, one field per
// filter. The hash is keyed by a generation counter that ReplaceAll bumps, so
// a List that read the store before a replace can only write its result into
// a generation nobody reads any more.
type CachedStreakRepository struct {
	next  domain.StreakRepository
	cache *redis.Client
}

func NewCachedStreakRepository(next domain.StreakRepository, cache *redis.Client) *CachedStreakRepository {
	return &CachedStreakRepository{
		next:  next,
		cache: cache,
	}
}

func (r *CachedStreakRepository) field(filter domain.StreakFilter) string {
	return fmt.Sprintf("%t|%t|%s", filter.ActiveOnly, filter.ClosedOnly, filter.Habit)
}

func (r *CachedStreakRepository) listKey(gen int64) string {
	return fmt.Sprintf("%s%d", streakCachePrefix, gen)
}

// generation returns the current counter; a missing key is generation zero.
func (r *CachedStreakRepository) generation(ctx context.Context) (int64, error) {
	gen, err := r.cache.Get(ctx, streakCacheGenKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (r *CachedStreakRepository) List(ctx context.Context, filter domain.StreakFilter) ([]domain.Streak, error) {
	gen, err := r.generation(ctx)
	if err != nil {
		log.Printf("[CACHE] Redis read error: %v", err)
		return r.next.List(ctx, filter)
	}

	key := r.listKey(gen)
	field := r.field(filter)

	val, err := r.cache.HGet(ctx, key, field).Result()
	if err == nil {
		var streaks []domain.Streak
		if err := json.Unmarshal([]byte(val), &streaks); err == nil {
			return streaks, nil
		}

		log.Printf("[CACHE] Corrupted data for filter %q, cleaning up field", field)
		r.cache.HDel(ctx, key, field)
	} else if !errors.Is(err, redis.Nil) {
		log.Printf("[CACHE] Redis read error: %v", err)
	}

	streaks, err := r.next.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(streaks); err == nil {
		pipe := r.cache.TxPipeline()
		pipe.HSet(ctx, key, field, data)
		pipe.Expire(ctx, key, streakCacheTTL)
		if _, setErr := pipe.Exec(ctx); setErr != nil {
			log.Printf("[CACHE] Redis set error: %v", setErr)
		}
	}

	return streaks, nil
}

func (r *CachedStreakRepository) GetByID(ctx context.Context, id int64) (*domain.Streak, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedStreakRepository) ReplaceAll(ctx context.Context, runID string, streaks []domain.Streak) error {
	if err := r.next.ReplaceAll(ctx, runID, streaks); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

// invalidate moves readers to a fresh generation and drops the previous hash.
// Late writes to the old hash expire with the TTL.
func (r *CachedStreakRepository) invalidate(ctx context.Context) {
	gen, err := r.cache.Incr(ctx, streakCacheGenKey).Result()
	if err != nil {
		log.Printf("[CACHE] Failed to invalidate streak lists: %v", err)
		return
	}
	if err := r.cache.Del(ctx, r.listKey(gen-1)).Err(); err != nil {
		log.Printf("[CACHE] Failed to drop streak lists generation %d: %v", gen-1, err)
	}
}
