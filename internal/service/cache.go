// internal/service/cache.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/opsledger/billingd/internal/cache"
	"github.com/opsledger/billingd/internal/domain"
)

// CacheService provides caching functionality with type safety and error handling
type CacheService struct {
	cache *cache.InMemoryCache
}

// CacheConfig holds configuration for the cache service
type CacheConfig struct {
	TTL         time.Duration
	CleanupFreq time.Duration
}

// NewCacheService creates a new cache service
func NewCacheService(config CacheConfig) *CacheService {
	return &CacheService{
		cache: cache.NewInMemoryCache(config.TTL, config.CleanupFreq),
	}
}

// Set stores a value in the cache, JSON-encoded.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling cache value: %w", err)
	}
	s.cache.Set(ctx, key, data)
	return nil
}

// Get retrieves a value from the cache into out.
func (s *CacheService) Get(ctx context.Context, key string, out interface{}) error {
	data, ok := s.cache.Get(ctx, key)
	if !ok {
		return domain.ErrNotFound
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshaling cache value: %w", err)
	}
	return nil
}

// GetOrSet retrieves a value, falling back to fetch and caching the result.
func (s *CacheService) GetOrSet(ctx context.Context, key string, out interface{}, fetch func() (interface{}, error)) error {
	if err := s.Get(ctx, key, out); err == nil {
		return nil
	}

	value, err := fetch()
	if err != nil {
		return err
	}
	if err := s.Set(ctx, key, value); err != nil {
		return err
	}
	return s.Get(ctx, key, out)
}

// Close stops the underlying cache cleanup routine.
func (s *CacheService) Close() {
	s.cache.Close()
}
