package webhook

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DeliveryTTL is how long a delivery ID is remembered.
const DeliveryTTL = 24 * time.Hour

// DeliveryStore remembers processed delivery IDs so replayed or retried
// deliveries are not dispatched twice. Implementations must be safe for
// concurrent use.
type DeliveryStore interface {
	// MarkDelivered records the delivery ID and reports whether it was seen
	// for the first time.
	MarkDelivered(ctx context.Context, deliveryID string) (bool, error)

	// Forget removes a delivery ID so a later redelivery is processed again.
	// Forgetting an unknown ID is not an error.
	Forget(ctx context.Context, deliveryID string) error
}

type InMemoryDeliveryStore struct {
	deliveries map[string]time.Time
	ttl        time.Duration
	now        func() time.Time
	mutex      sync.Mutex
}

func NewInMemoryDeliveryStore(ttl time.Duration) *InMemoryDeliveryStore {
	return &InMemoryDeliveryStore{
		deliveries: make(map[string]time.Time),
		ttl:        ttl,
		now:        time.Now,
	}
}

type RedisDeliveryStore struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

func NewRedisDeliveryStore(client *redis.Client, namespace string, ttl time.Duration) *RedisDeliveryStore {
	return &RedisDeliveryStore{client: client, namespace: namespace, ttl: ttl}
}

// ------------------------------------------------------------------------------

func createKey(namespace, deliveryID string) string {
	return fmt.Sprintf("%s:delivery:%s", namespace, deliveryID)
}

func (s *RedisDeliveryStore) MarkDelivered(ctx context.Context, deliveryID string) (bool, error) {
	first, err := s.client.SetNX(ctx, createKey(s.namespace, deliveryID), 1, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record delivery %s: %w", deliveryID, err)
	}
	return first, nil
}

func (s *RedisDeliveryStore) Forget(ctx context.Context, deliveryID string) error {
	if err := s.client.Del(ctx, createKey(s.namespace, deliveryID)).Err(); err != nil {
		return fmt.Errorf("failed to forget delivery %s: %w", deliveryID, err)
	}
	return nil
}

// ------------------------------------------------------------------------------

func (s *InMemoryDeliveryStore) MarkDelivered(_ context.Context, deliveryID string) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.now()
	s.evictExpired(now)

	if _, ok := s.deliveries[deliveryID]; ok {
		return false, nil
	}
	s.deliveries[deliveryID] = now.Add(s.ttl)
	return true, nil
}

func (s *InMemoryDeliveryStore) Forget(_ context.Context, deliveryID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.deliveries, deliveryID)
	return nil
}

// Len returns the number of remembered deliveries.
func (s *InMemoryDeliveryStore) Len() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.deliveries)
}

// evictExpired must be called with the mutex held.
func (s *InMemoryDeliveryStore) evictExpired(now time.Time) {
	for id, expiresAt := range s.deliveries {
		if !now.Before(expiresAt) {
			delete(s.deliveries, id)
		}
	}
}
