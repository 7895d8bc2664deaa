// Package redis provides the optional classifier response cache. Re-uploads
// of an unchanged sheet are common (teachers iterating on a threshold), and
// the header structure of a given grid never changes, so caching the oracle's
// proposal by grid fingerprint is safe and saves provider calls.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"goattend/domain/core"
	"goattend/domain/schema"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "goattend:classifier:"

// ClassifierCache implements ports.ClassifierCache over Redis.
type ClassifierCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewClassifierCache connects to Redis and verifies the connection.
func NewClassifierCache(addr, password string, db int, ttl time.Duration) (*ClassifierCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	log.Printf("[ClassifierCache] Connected to redis at %s (ttl=%v)", addr, ttl)
	return &ClassifierCache{client: client, ttl: ttl}, nil
}

// Get returns the cached proposal for a fingerprint, or (nil, nil) on a miss.
func (c *ClassifierCache) Get(ctx context.Context, fingerprint core.Hash) (*schema.ClassifierResult, error) {
	payload, err := c.client.Get(ctx, keyPrefix+fingerprint.String()).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var result schema.ClassifierResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		// A corrupt entry is treated as a miss so the caller re-classifies.
		log.Printf("[ClassifierCache] WARNING: dropping corrupt cache entry for %.12s: %v", fingerprint.String(), err)
		c.client.Del(ctx, keyPrefix+fingerprint.String())
		return nil, nil
	}
	return &result, nil
}

// Set stores a proposal under the grid fingerprint with the configured TTL.
func (c *ClassifierCache) Set(ctx context.Context, fingerprint core.Hash, result *schema.ClassifierResult) error {
	if result == nil {
		return nil
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal classifier result: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+fingerprint.String(), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Close releases the underlying connection.
func (c *ClassifierCache) Close() error {
	return c.client.Close()
}
