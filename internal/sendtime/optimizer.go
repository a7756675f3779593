// Package sendtime computes the optimal delivery time for a notification.
// The algorithm is a pluggable strategy: the scheduler only depends on the
// Optimizer interface and falls back to a fixed delay when a strategy fails.
package sendtime

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"careerhub-notifications/internal/models"

	"github.com/redis/go-redis/v9"
)

// ErrNoEngagementData signals that nothing is known about the recipient's
// open-time patterns. Callers fall back to a deterministic delay.
var ErrNoEngagementData = errors.New("no engagement data for user")

// Optimizer computes the next optimal send time for a recipient, never
// earlier than now plus minDelay.
type Optimizer interface {
	OptimalSendTime(ctx context.Context, userID string, t models.NotificationType, minDelay time.Duration) (time.Time, error)
}

// EngagementOptimizer picks the send hour from a per-user engagement
// histogram kept in Redis: a hash of hour-of-day to open count, incremented
// whenever the recipient opens a notification. It scans the hourly slots in
// the configured window after now+minDelay and picks the one with the most
// historical opens, preferring the earliest on ties.
type EngagementOptimizer struct {
	client      *redis.Client
	windowHours int
	now         func() time.Time
}

func NewEngagementOptimizer(client *redis.Client, windowHours int) *EngagementOptimizer {
	if windowHours <= 0 {
		windowHours = 24
	}
	return &EngagementOptimizer{
		client:      client,
		windowHours: windowHours,
		now:         time.Now,
	}
}

func engagementKey(userID string) string {
	return "engagement:" + userID
}

func (o *EngagementOptimizer) OptimalSendTime(ctx context.Context, userID string, _ models.NotificationType, minDelay time.Duration) (time.Time, error) {
	counts, err := o.client.HGetAll(ctx, engagementKey(userID)).Result()
	if err != nil {
		return time.Time{}, fmt.Errorf("load engagement histogram: %w", err)
	}
	if len(counts) == 0 {
		return time.Time{}, ErrNoEngagementData
	}

	earliest := o.now().UTC().Add(minDelay)

	var (
		best      time.Time
		bestScore = -1
	)
	for i := 0; i < o.windowHours; i++ {
		slot := earliest.Truncate(time.Hour).Add(time.Duration(i) * time.Hour)
		candidate := slot
		if candidate.Before(earliest) {
			candidate = earliest
		}
		score, _ := strconv.Atoi(counts[strconv.Itoa(candidate.Hour())])
		if score > bestScore {
			best = candidate
			bestScore = score
		}
	}
	return best, nil
}

// RecordOpen feeds the histogram when a recipient opens a notification.
func (o *EngagementOptimizer) RecordOpen(ctx context.Context, userID string, at time.Time) error {
	return o.client.HIncrBy(ctx, engagementKey(userID), strconv.Itoa(at.UTC().Hour()), 1).Err()
}
