package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"tour-booking/internal/models"
)

// claimTTL bounds how long an in-flight claim blocks retries; results are
// kept longer so late retries still get the stored answer.
const (
	claimTTL  = 2 * time.Minute
	resultTTL = 24 * time.Hour
)

// IdempotencyStore deduplicates checkout retries that carry the same
// client-chosen key. Claim wins exactly once per key; the winner stores its
// outcome so losers can return it instead of charging twice.
type IdempotencyStore interface {
	Claim(ctx context.Context, key string) (bool, error)
	SaveResult(ctx context.Context, key string, result models.PaymentResponse) error
	GetResult(ctx context.Context, key string) (*models.PaymentResponse, error)
}

// RedisIdempotency backs the store with Redis SetNX claims.
type RedisIdempotency struct {
	Client *redis.Client
}

func NewRedisIdempotency(client *redis.Client) *RedisIdempotency {
	return &RedisIdempotency{Client: client}
}

func claimKey(key string) string  { return "payment_claim:" + key }
func resultKey(key string) string { return "payment_result:" + key }

func (r *RedisIdempotency) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := r.Client.SetNX(ctx, claimKey(key), "1", claimTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim idempotency key: %w", err)
	}
	return ok, nil
}

func (r *RedisIdempotency) SaveResult(ctx context.Context, key string, result models.PaymentResponse) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode payment result: %w", err)
	}
	if err := r.Client.Set(ctx, resultKey(key), payload, resultTTL).Err(); err != nil {
		return fmt.Errorf("failed to store payment result: %w", err)
	}
	return nil
}

func (r *RedisIdempotency) GetResult(ctx context.Context, key string) (*models.PaymentResponse, error) {
	payload, err := r.Client.Get(ctx, resultKey(key)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load payment result: %w", err)
	}

	var result models.PaymentResponse
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("failed to decode payment result: %w", err)
	}
	return &result, nil
}

// NoopIdempotency is used when Redis is disabled; every claim succeeds and
// nothing is remembered, so retries rely on the client not resubmitting.
type NoopIdempotency struct{}

func (NoopIdempotency) Claim(ctx context.Context, key string) (bool, error) { return true, nil }

func (NoopIdempotency) SaveResult(ctx context.Context, key string, result models.PaymentResponse) error {
	return nil
}

func (NoopIdempotency) GetResult(ctx context.Context, key string) (*models.PaymentResponse, error) {
	return nil, nil
}
