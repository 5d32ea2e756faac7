package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/orris-inc/subtrack/internal/shared/constants"
)

// ReminderDeduplicator keeps two instances (or a sweep and a manual send)
// from mailing the same reminder for the same threshold date.
type ReminderDeduplicator struct {
	client *redis.Client
}

func NewReminderDeduplicator(client *redis.Client) *ReminderDeduplicator {
	return &ReminderDeduplicator{client: client}
}

// Format: subtrack:reminder:lock:{assignment_id}:{threshold yyyy-mm-dd}
func reminderKey(assignmentID uint, threshold time.Time) string {
	return fmt.Sprintf("%s%d:%s", constants.RedisKeyReminderLock, assignmentID, threshold.Format("2006-01-02"))
}

// TryAcquire returns true when this caller should send the reminder.
func (d *ReminderDeduplicator) TryAcquire(ctx context.Context, assignmentID uint, threshold time.Time, ttl time.Duration) (bool, error) {
	acquired, err := d.client.SetNX(ctx, reminderKey(assignmentID, threshold), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire reminder lock: %w", err)
	}
	return acquired, nil
}

// Release drops the lock so a failed send can be retried on the next sweep.
func (d *ReminderDeduplicator) Release(ctx context.Context, assignmentID uint, threshold time.Time) error {
	if err := d.client.Del(ctx, reminderKey(assignmentID, threshold)).Err(); err != nil {
		return fmt.Errorf("failed to release reminder lock: %w", err)
	}
	return nil
}
