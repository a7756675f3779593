package sendtime

import (
	"context"
	"testing"
	"time"

	"careerhub-notifications/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOptimizer(t *testing.T, now time.Time) (*EngagementOptimizer, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	opt := NewEngagementOptimizer(client, 24)
	opt.now = func() time.Time { return now }
	return opt, mr
}

func TestOptimalSendTimeNoData(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	opt, _ := newTestOptimizer(t, now)

	_, err := opt.OptimalSendTime(context.Background(), "user-1", models.TypeWelcome, 15*time.Minute)
	assert.ErrorIs(t, err, ErrNoEngagementData)
}

func TestOptimalSendTimePicksBusiestHour(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	opt, mr := newTestOptimizer(t, now)

	mr.HSet("engagement:user-1", "10", "2")
	mr.HSet("engagement:user-1", "18", "5")

	got, err := opt.OptimalSendTime(context.Background(), "user-1", models.TypeJobMatchAlert, 15*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC), got)
}

func TestOptimalSendTimePrefersEarliestOnTie(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	opt, mr := newTestOptimizer(t, now)

	mr.HSet("engagement:user-1", "12", "3")
	mr.HSet("engagement:user-1", "14", "3")

	got, err := opt.OptimalSendTime(context.Background(), "user-1", models.TypeJobMatchAlert, 15*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC), got)
}

func TestOptimalSendTimeNeverBeforeMinDelay(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	opt, mr := newTestOptimizer(t, now)

	// The busiest hour is already underway, so the result is clamped to
	// now plus the minimum delay rather than the top of the hour.
	mr.HSet("engagement:user-1", "10", "9")

	minDelay := 15 * time.Minute
	got, err := opt.OptimalSendTime(context.Background(), "user-1", models.TypeWelcome, minDelay)
	require.NoError(t, err)

	earliest := now.Add(minDelay)
	assert.False(t, got.Before(earliest), "got %s, earliest allowed %s", got, earliest)
	assert.Equal(t, earliest, got)
}

func TestRecordOpenIncrementsHourBucket(t *testing.T) {
	now := time.Date(2026, 9, 1, 14, 5, 0, 0, time.UTC)
	opt, mr := newTestOptimizer(t, now)

	require.NoError(t, opt.RecordOpen(context.Background(), "user-1", now))
	require.NoError(t, opt.RecordOpen(context.Background(), "user-1", now.Add(10*time.Minute)))

	assert.Equal(t, "2", mr.HGet("engagement:user-1", "14"))
}
