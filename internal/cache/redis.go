package cache

import (
	"context"
	"fmt"
	"time"

	"avalom-backend/internal/config"

	"github.com/redis/go-redis/v9"
)

// Accounting cache keys. Every ledger mutation invalidates the overview
// and the touched rental's ledger view.
const (
	OverviewKey      = "accounting:overview"
	RentalLedgerFmt  = "accounting:rental:%d"
	RentalLedgerGlob = "accounting:rental:*"
)

var client *redis.Client

// Init connects to Redis. The cache degrades gracefully: a nil client
// means every lookup misses and every write is a no-op.
func Init(cfg *config.Config) error {
	if cfg.Redis.Host == "" {
		return fmt.Errorf("redis not configured")
	}

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetCached returns cached data for a key.
func GetCached(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCached stores data with a TTL.
func SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}

// RentalLedgerKey builds the cache key for one rental's ledger view.
func RentalLedgerKey(rentalID int) string {
	return fmt.Sprintf(RentalLedgerFmt, rentalID)
}

// InvalidateLedgerCaches clears the overview and all rental ledger views.
// Called after every mutating ledger operation.
func InvalidateLedgerCaches(ctx context.Context) {
	if client == nil {
		return
	}
	client.Del(ctx, OverviewKey)
	keys, err := client.Keys(ctx, RentalLedgerGlob).Result()
	if err == nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}
