package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abu0505/tokyo-shoes-sub000/config"
	"github.com/abu0505/tokyo-shoes-sub000/internal/app/model"
	"github.com/abu0505/tokyo-shoes-sub000/pkg/logger"
)

var client *redis.Client

// Init initializes Redis connection
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

	// Test connection
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

// CouponSessions stores the applied-coupon state for each shopper's
// checkout session. The state is a validated snapshot, not the coupon row;
// it expires with the session TTL and is cleared on order completion or
// explicit removal.
type CouponSessions struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCouponSessions(client *redis.Client, ttl time.Duration) *CouponSessions {
	return &CouponSessions{client: client, ttl: ttl}
}

func couponSessionKey(userID uint) string {
	return fmt.Sprintf("checkout:coupon:%d", userID)
}

// Set stores the applied coupon for a user's checkout session.
func (s *CouponSessions) Set(ctx context.Context, userID uint, coupon *model.AppliedCoupon) error {
	payload, err := json.Marshal(coupon)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, couponSessionKey(userID), payload, s.ttl).Err(); err != nil {
		logger.Error("Failed to store applied coupon", err, map[string]interface{}{
			"user_id": userID,
			"code":    coupon.Code,
		})
		return err
	}

	logger.Debug("Applied coupon stored for session", map[string]interface{}{
		"user_id": userID,
		"code":    coupon.Code,
	})
	return nil
}

// Get returns the applied coupon for a user, or nil when none is applied.
func (s *CouponSessions) Get(ctx context.Context, userID uint) (*model.AppliedCoupon, error) {
	payload, err := s.client.Get(ctx, couponSessionKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		logger.Error("Failed to fetch applied coupon", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	var coupon model.AppliedCoupon
	if err := json.Unmarshal(payload, &coupon); err != nil {
		return nil, err
	}
	return &coupon, nil
}

// Clear removes the applied coupon from a user's session.
func (s *CouponSessions) Clear(ctx context.Context, userID uint) error {
	if err := s.client.Del(ctx, couponSessionKey(userID)).Err(); err != nil {
		logger.Error("Failed to clear applied coupon", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}
	return nil
}
