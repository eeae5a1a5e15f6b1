package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"quizmaster-service/internal/app"
	"quizmaster-service/internal/domain"
)

// TestStore is a read-through Redis cache in front of a durable app.TestStore.
// Saved tests are cached per user as a hash: HSET tests:{userID} {name} {json}.
// Writes go through to the inner store and refresh the cache; listing stays
// authoritative on the inner store.
type TestStore struct {
	client *redis.Client
	inner  app.TestStore
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

var _ app.TestStore = (*TestStore)(nil)

func NewTestStore(client *redis.Client, inner app.TestStore, ttl time.Duration) *TestStore {
	return &TestStore{
		client: client,
		inner:  inner,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *TestStore) Put(ctx context.Context, userID, name string, questions []domain.Question) error {
	if err := s.inner.Put(ctx, userID, name, questions); err != nil {
		return err
	}
	test, err := s.inner.Get(ctx, userID, name)
	if err != nil {
		return err
	}
	s.cache(ctx, userID, test)
	return nil
}

func (s *TestStore) Get(ctx context.Context, userID, name string) (domain.SavedTest, error) {
	raw, err := s.client.HGet(ctx, s.key(userID), name).Result()
	if err == nil {
		var test domain.SavedTest
		if err := json.Unmarshal([]byte(raw), &test); err == nil {
			return test, nil
		}
		// Corrupt cache entry falls through to the inner store.
	}

	result, err, _ := s.sf.Do(userID+"\x00"+name, func() (interface{}, error) {
		raw, err := s.client.HGet(ctx, s.key(userID), name).Result()
		if err == nil {
			var test domain.SavedTest
			if err := json.Unmarshal([]byte(raw), &test); err == nil {
				return test, nil
			}
		}
		test, err := s.inner.Get(ctx, userID, name)
		if err != nil {
			return domain.SavedTest{}, err
		}
		s.cache(ctx, userID, test)
		return test, nil
	})
	if err != nil {
		return domain.SavedTest{}, err
	}
	return result.(domain.SavedTest), nil
}

func (s *TestStore) List(ctx context.Context, userID string) ([]string, error) {
	return s.inner.List(ctx, userID)
}

func (s *TestStore) Delete(ctx context.Context, userID, name string) (bool, error) {
	deleted, err := s.inner.Delete(ctx, userID, name)
	if err != nil {
		return false, err
	}
	if deleted {
		if err := s.client.HDel(ctx, s.key(userID), name).Err(); err != nil {
			return true, fmt.Errorf("evict cached test: %w", err)
		}
	}
	return deleted, nil
}

// cache writes one test into the user's hash, best effort.
func (s *TestStore) cache(ctx context.Context, userID string, test domain.SavedTest) {
	data, err := json.Marshal(test)
	if err != nil {
		return
	}
	key := s.key(userID)
	pipe := s.client.Pipeline()
	pipe.HSet(ctx, key, test.Name, data)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttlWithJitter())
	}
	_, _ = pipe.Exec(ctx)
}

func (s *TestStore) key(userID string) string {
	return "tests:" + userID
}

func (s *TestStore) ttlWithJitter() time.Duration {
	// up to 10% jitter to spread expirations
	jitterMax := int64(s.ttl) / 10
	return s.ttl + time.Duration(s.rnd.Int63n(jitterMax+1))
}
