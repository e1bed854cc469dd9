package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const reminderLedgerTTL = 14 * 24 * time.Hour

// ReminderLedger records which bookings already got their pre-arrival email,
// so two runs started close together cannot both send one.
type ReminderLedger struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewReminderLedger(rdb *redis.Client) *ReminderLedger {
	return &ReminderLedger{
		rdb: rdb,
		ttl: reminderLedgerTTL,
	}
}

func reminderKey(bookingID string) string {
	return "riad:pre-arrival:" + bookingID
}

// Claim returns false when another run already claimed the booking. Without
// redis every claim succeeds and the notes marker is the only guard.
func (l *ReminderLedger) Claim(ctx context.Context, bookingID string) (bool, error) {
	if l == nil || l.rdb == nil {
		return true, nil
	}

	ok, err := l.rdb.SetNX(ctx, reminderKey(bookingID), time.Now().UTC().Format(time.RFC3339), l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim reminder for %s: %w", bookingID, err)
	}

	return ok, nil
}

// Release gives up a claim after a failed send so a later run can retry.
func (l *ReminderLedger) Release(ctx context.Context, bookingID string) error {
	if l == nil || l.rdb == nil {
		return nil
	}

	if err := l.rdb.Del(ctx, reminderKey(bookingID)).Err(); err != nil {
		return fmt.Errorf("failed to release reminder for %s: %w", bookingID, err)
	}

	return nil
}
