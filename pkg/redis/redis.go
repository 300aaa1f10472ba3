package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/eberechi/shopsync-backend/config"
	"github.com/eberechi/shopsync-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Init initializes the Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

const receiptSeenTTL = 24 * time.Hour

// MarkReceiptSeen records a receipt number so repeat pushes inside the TTL
// window can be answered without a database lookup. Best effort: a Redis
// failure just means the database unique index does the work instead.
func MarkReceiptSeen(ctx context.Context, businessID, receiptNumber string) {
	if client == nil {
		return
	}
	key := fmt.Sprintf("receipt:%s:%s", businessID, receiptNumber)
	if err := client.Set(ctx, key, "1", receiptSeenTTL).Err(); err != nil {
		logger.Debug("Failed to cache receipt number", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// ReceiptSeen reports whether the receipt was pushed recently.
func ReceiptSeen(ctx context.Context, businessID, receiptNumber string) bool {
	if client == nil {
		return false
	}
	key := fmt.Sprintf("receipt:%s:%s", businessID, receiptNumber)
	val, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		logger.Debug("Failed to check receipt cache", map[string]interface{}{
			"error": err.Error(),
		})
		return false
	}
	return val == "1"
}
