package appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// cacheStore is the slice of the redis client the decorator needs;
// tests swap in an in-memory fake.
type cacheStore interface {
	// get returns ok=false on a cache miss.
	get(ctx context.Context, key string) (data []byte, ok bool, err error)
	set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	del(ctx context.Context, key string) error
}

type redisStore struct {
	rdb *redis.Client
}

func (s redisStore) get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s redisStore) set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, data, ttl).Err()
}

func (s redisStore) del(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

// CachedRepository decorates a Repository with a best-effort cache for
// lookups by id. Cache failures of any sort are logged and fall through
// to the inner repository, never surfaced to the caller.
type CachedRepository struct {
	inner Repository
	store cacheStore
	ttl   time.Duration
}

func NewCachedRepository(inner Repository, rdb *redis.Client, ttl time.Duration) *CachedRepository {
	return &CachedRepository{
		inner: inner,
		store: redisStore{rdb: rdb},
		ttl:   ttl,
	}
}

func cacheKey(id ID) string {
	return fmt.Sprintf("appointment:%s", id.String())
}

func (c *CachedRepository) Save(ctx context.Context, a *Appointment) error {
	if err := c.inner.Save(ctx, a); err != nil {
		return err
	}

	if err := c.store.del(ctx, cacheKey(a.ID())); err != nil {
		log.Printf("cache invalidate failed for appointment %s: %v", a.ID(), err)
	}

	return nil
}

func (c *CachedRepository) FindByID(ctx context.Context, id ID) (*Appointment, error) {
	key := cacheKey(id)

	data, ok, err := c.store.get(ctx, key)
	if err != nil {
		log.Printf("cache read failed for appointment %s: %v", id, err)
	} else if ok {
		if a := decodeCached(data); a != nil {
			return a, nil
		}
		// Unreadable or invalid entry: drop it and reload from the
		// inner repository instead of surfacing the decode error.
		log.Printf("cache entry for appointment %s is corrupt, dropping it", id)
		_ = c.store.del(ctx, key)
	}

	a, err := c.inner.FindByID(ctx, id)
	if err != nil || a == nil {
		return a, err
	}

	if data, err := json.Marshal(newRecord(a)); err == nil {
		if err := c.store.set(ctx, key, data, c.ttl); err != nil {
			log.Printf("cache write failed for appointment %s: %v", id, err)
		}
	}

	return a, nil
}

func decodeCached(data []byte) *Appointment {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil
	}
	a, err := fromRecord(r)
	if err != nil {
		return nil
	}
	return a
}

func (c *CachedRepository) FindByEmail(ctx context.Context, email string) ([]*Appointment, error) {
	return c.inner.FindByEmail(ctx, email)
}

func (c *CachedRepository) FindUpcoming(ctx context.Context, limit int) ([]*Appointment, error) {
	return c.inner.FindUpcoming(ctx, limit)
}

func (c *CachedRepository) Delete(ctx context.Context, id ID) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}

	if err := c.store.del(ctx, cacheKey(id)); err != nil {
		log.Printf("cache invalidate failed for appointment %s: %v", id, err)
	}

	return nil
}
