package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/GoodNightBuddy/realtor-app/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "realtor"

type CacheService interface {
	// Listing detail caching
	GetListing(ctx context.Context, listingID uuid.UUID) (*models.ListingDetail, error)
	SetListing(ctx context.Context, listing *models.ListingDetail, ttl time.Duration) error
	DeleteListing(ctx context.Context, listingID uuid.UUID) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	IncrementRateLimit(ctx context.Context, key string, window time.Duration) error
	ResetRateLimit(ctx context.Context, key string) error

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsedAddr = strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	} else {
		log.Printf("DEBUG: Redis connection established at %s", parsedAddr)
	}

	return NewCacheService(client)
}

func NewCacheService(client *redis.Client) CacheService {
	return &redisCacheService{client: client}
}

func listingKey(listingID uuid.UUID) string {
	return fmt.Sprintf("%s:listing:%s", keyPrefix, listingID.String())
}

func rateLimitKey(key string) string {
	return fmt.Sprintf("%s:ratelimit:%s", keyPrefix, key)
}

func (r *redisCacheService) GetListing(ctx context.Context, listingID uuid.UUID) (*models.ListingDetail, error) {
	data, err := r.client.Get(ctx, listingKey(listingID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var listing models.ListingDetail
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *redisCacheService) SetListing(ctx context.Context, listing *models.ListingDetail, ttl time.Duration) error {
	data, err := json.Marshal(listing)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, listingKey(listing.ID), data, ttl).Err()
}

func (r *redisCacheService) DeleteListing(ctx context.Context, listingID uuid.UUID) error {
	return r.client.Del(ctx, listingKey(listingID)).Err()
}

// IsRateLimited reports whether key has already reached limit within the
// current window. It does not count the current attempt.
func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := r.client.Get(ctx, rateLimitKey(key)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return count >= limit, nil
}

func (r *redisCacheService) IncrementRateLimit(ctx context.Context, key string, window time.Duration) error {
	cacheKey := rateLimitKey(key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return err
	}
	// Window starts at the first failure
	if count == 1 {
		return r.client.Expire(ctx, cacheKey, window).Err()
	}
	return nil
}

func (r *redisCacheService) ResetRateLimit(ctx context.Context, key string) error {
	return r.client.Del(ctx, rateLimitKey(key)).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
