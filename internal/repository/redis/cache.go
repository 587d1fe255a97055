package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	familydomain "babycare-go/internal/domain/family"
)

// FamilyCache stores family rows in Redis for detail reads. Misses and Redis
// errors both report a miss, so a broken cache degrades to database reads.
type FamilyCache struct {
	client *redis.Client
}

func NewFamilyCache(client *redis.Client) *FamilyCache {
	return &FamilyCache{client: client}
}

// New connects to Redis and pings it. An empty address means Redis is not
// configured and yields a nil client.
func New(addr string) (*redis.Client, error) {
	if addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

func familyKey(familyID string) string {
	return "family:" + familyID
}

func (c *FamilyCache) Get(familyID string) (*familydomain.Family, bool) {
	payload, err := c.client.Get(context.Background(), familyKey(familyID)).Bytes()
	if err != nil {
		return nil, false
	}

	var family familydomain.Family
	if err := json.Unmarshal(payload, &family); err != nil {
		return nil, false
	}
	return &family, true
}

func (c *FamilyCache) Set(familyID string, family *familydomain.Family, ttl time.Duration) {
	payload, err := json.Marshal(family)
	if err != nil {
		return
	}
	c.client.Set(context.Background(), familyKey(familyID), payload, ttl)
}

func (c *FamilyCache) Delete(familyID string) {
	c.client.Del(context.Background(), familyKey(familyID))
}
