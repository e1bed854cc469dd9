package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const intakeKeyTTL = 7 * 24 * time.Hour

// IntakeKeys maps an Idempotency-Key sent by the checkout widget to the
// booking id it produced, so a retried notification does not book twice.
type IntakeKeys struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewIntakeKeys(rdb *redis.Client) *IntakeKeys {
	return &IntakeKeys{
		rdb: rdb,
		ttl: intakeKeyTTL,
	}
}

func intakeKey(key string) string {
	return "riad:intake:" + key
}

// Reserve stores bookingID under key unless the key was seen before, in
// which case the earlier booking id is returned with reserved=false.
func (k *IntakeKeys) Reserve(ctx context.Context, key, bookingID string) (existing string, reserved bool, err error) {
	if k == nil || k.rdb == nil || key == "" {
		return "", true, nil
	}

	ok, err := k.rdb.SetNX(ctx, intakeKey(key), bookingID, k.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to reserve idempotency key: %w", err)
	}
	if ok {
		return "", true, nil
	}

	existing, err = k.rdb.Get(ctx, intakeKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		// expired between the two calls
		return k.Reserve(ctx, key, bookingID)
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read idempotency key: %w", err)
	}

	return existing, false, nil
}
