// README: Reminder dedup markers backed by Redis SETNX with TTL.
package trip

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"gonow/internal/types"
)

// ReminderMarks deduplicates reminder sends across sweep runs: the sweep
// window is wider than the sweep cadence, so each trip would otherwise be
// reminded several times.
type ReminderMarks interface {
	// MarkOnce returns true exactly once per (kind, trip) within the TTL.
	MarkOnce(ctx context.Context, kind string, tripID types.ID) (bool, error)
}

const (
	reminderKeyPrefix = "reminders:%s:%s"
	// Reminder keys only need to outlive the widest sweep window.
	reminderKeyTTL = 24 * time.Hour
)

type RedisReminderMarks struct {
	redis *redis.Client
}

func NewRedisReminderMarks(redis *redis.Client) *RedisReminderMarks {
	return &RedisReminderMarks{redis: redis}
}

func (m *RedisReminderMarks) MarkOnce(ctx context.Context, kind string, tripID types.ID) (bool, error) {
	key := fmt.Sprintf(reminderKeyPrefix, kind, string(tripID))
	return m.redis.SetNX(ctx, key, "1", reminderKeyTTL).Result()
}
